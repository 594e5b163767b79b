package issue_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingroom/bookclub/internal/issue"
)

const formBody = "### New book\n\n" +
	"- ISBN: `978-0-14-143951-8`\n" +
	"- Review Date: ` 2025-03-14 `\n" +
	"- proposer: `arne`\n" +
	"- guests: `namehere, namehere, namehere`\n"

func TestExtractField(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{field: "ISBN", want: "978-0-14-143951-8"},
		{field: "isbn", want: "978-0-14-143951-8"},
		{field: "review date", want: "2025-03-14"},
		{field: "proposer", want: "arne"},
		{field: "guests", want: "namehere, namehere, namehere"},
		{field: "reviewer", want: ""},
		{field: "(", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, issue.ExtractField(formBody, tt.field))
		})
	}
}

func TestLoadEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"action": "opened",
		"issue": {"number": 17, "title": "  Pride and Prejudice ", "body": "- ISBN: `+"`123`"+`"}
	}`), 0o644))

	ev, err := issue.LoadEvent(path)
	require.NoError(t, err)
	assert.Equal(t, 17, ev.Issue.Number)
	assert.Equal(t, "Pride and Prejudice", ev.Issue.Title)
	assert.Equal(t, "123", issue.ExtractField(ev.Issue.Body, "ISBN"))

	_, err = issue.LoadEvent("")
	assert.Error(t, err)
	_, err = issue.LoadEvent(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	notes := issue.NewNotes(nil)
	notes.Warn("Proposer is still placeholder (`%s`).", "namehere")
	notes.Notice("The field `%s` yielded no data", "time")

	got := issue.NewSummary().
		Field("Query", "9780141439518").
		Field("Empty", "").
		Heading(2, "Metadata").
		Notes(notes).
		String()

	want := "# SUMMARY\n" +
		"**Query:** 9780141439518\n" +
		"## Metadata\n" +
		"### Warnings\n" +
		"\n> [!WARNING]\n>\n" +
		"> - Proposer is still placeholder (`namehere`).\n" +
		"### Notes\n" +
		"\n> [!NOTE]\n>\n" +
		"> - The field `time` yielded no data"
	assert.Equal(t, want, got)
}

func TestCommenter_Post(t *testing.T) {
	var gotPath, gotAuth, gotAccept, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		data, _ := io.ReadAll(r.Body)
		var payload map[string]string
		_ = json.Unmarshal(data, &payload)
		gotBody = payload["body"]
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := issue.NewCommenter(issue.CommenterConfig{
		Token:      "secret",
		Repository: "readingroom/club",
		APIURL:     server.URL,
		HTTPClient: server.Client(),
	}, nil)

	require.NoError(t, c.Post(context.Background(), 17, "# SUMMARY"))
	assert.Equal(t, "/repos/readingroom/club/issues/17/comments", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/vnd.github+json", gotAccept)
	assert.Equal(t, "# SUMMARY", gotBody)
}

func TestCommenter_SkipsWithoutContext(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	noToken := issue.NewCommenter(issue.CommenterConfig{Repository: "a/b", APIURL: server.URL}, nil)
	assert.NoError(t, noToken.Post(context.Background(), 1, "x"))

	noIssue := issue.NewCommenter(issue.CommenterConfig{Token: "t", Repository: "a/b", APIURL: server.URL}, nil)
	assert.NoError(t, noIssue.Post(context.Background(), 0, "x"))

	assert.False(t, called)
}

func TestCommenter_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Bad credentials", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := issue.NewCommenter(issue.CommenterConfig{Token: "t", Repository: "a/b", APIURL: server.URL}, nil)
	err := c.Post(context.Background(), 3, "x")
	assert.ErrorContains(t, err, "status 401")
}
