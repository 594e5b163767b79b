package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingroom/bookclub/internal/render"
)

func TestSanitizeFragment(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		notWant []string
	}{
		{
			name:  "plain fragment kept",
			input: `<div class="scale"><p>15 points: 1⁺</p></div>`,
			want:  []string{`<div class="scale"><p>15 points: 1⁺</p></div>`},
		},
		{
			name:    "scripts removed at any depth",
			input:   `<script>a()</script><div><script>b()</script><p>ok</p></div>`,
			want:    []string{"<div><p>ok</p></div>"},
			notWant: []string{"a()", "b()"},
		},
		{
			name:    "event handlers and javascript urls removed",
			input:   `<a href="javascript:alert(1)" onclick="x()" class="link">go</a><img src="g.png" onerror="y()">`,
			want:    []string{`<a class="link">go</a>`, `<img src="g.png"/>`},
			notWant: []string{"onclick", "onerror", "javascript"},
		},
		{
			name:    "whole document keeps body",
			input:   `<!DOCTYPE html><html><head><title>t</title></head><body><p>body</p><!-- note --></body></html>`,
			want:    []string{"<p>body</p>"},
			notWant: []string{"note"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := render.SanitizeFragment([]byte(tt.input))
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, string(got), w)
			}
			for _, nw := range tt.notWant {
				assert.NotContains(t, string(got), nw)
			}
		})
	}
}
