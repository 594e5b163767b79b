package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliBooks = `[
	{"review_date": "2024-01-01", "proposer": "Arne",
	 "ratings": {"Arne": null, "Mia": 9}, "reviews": {"Arne": null, "Mia": null},
	 "meta": {"key": "/works/OL1W", "title": "The Hobbit", "authors": "J.R.R. Tolkien",
	          "subjects": ["Fiction", "Fantasy"]}},
	{"review_date": "2023-05-01", "ratings": {}, "reviews": {},
	 "meta": {"key": "/works/OL2W", "title": "Dune", "authors": "Frank Herbert"}}
]`

type workspace struct {
	data string
	out  string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_REPOSITORY", "")

	dir := t.TempDir()
	ws := workspace{data: filepath.Join(dir, "data"), out: filepath.Join(dir, "public")}
	require.NoError(t, os.MkdirAll(ws.data, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ws.data, "club.json"), []byte(`{"name": "Readers"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(ws.data, "books.json"), []byte(cliBooks), 0o644))
	return ws
}

func (ws workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--env", "development",
		"--log-level", "error",
		"--log-format", "json",
		"--data", ws.data,
		"--out", ws.out,
		"--covers", filepath.Join(ws.out, "covers"),
		"--env-file", filepath.Join(ws.data, ".env"),
	}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (ws workspace) writeEvent(t *testing.T, body string) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"action": "opened",
		"issue":  map[string]any{"number": 7, "title": "Review", "body": body},
	})
	require.NoError(t, err)
	path := filepath.Join(ws.data, "event.json")
	require.NoError(t, os.WriteFile(path, payload, 0o644))
	return path
}

func TestRender(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.run(t, "render")
	require.NoError(t, err)

	path := filepath.Join(ws.out, "index.html")
	assert.Equal(t, path, strings.TrimSpace(out))
	page, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(page), "The Hobbit")
	assert.Contains(t, string(page), "Dune")
}

func TestRender_LoadFailureExitsNonZero(t *testing.T) {
	ws := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(ws.data, "books.json"), []byte(`{"not": "a list"}`), 0o644))

	_, err := ws.run(t, "render")
	require.ErrorIs(t, err, errReported)

	_, statErr := os.Stat(filepath.Join(ws.out, "index.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAddReview(t *testing.T) {
	ws := newWorkspace(t)
	event := ws.writeEvent(t, "- book id: `OL1W`\n- reviewer: `arne`\n- grade: `12`\n- review: `Lovely`\n")

	out, err := ws.run(t, "add-review", "--event", event)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✅ **Review stored for The Hobbit**")

	data, err := os.ReadFile(filepath.Join(ws.data, "books.json"))
	require.NoError(t, err)
	var books []struct {
		Ratings map[string]any     `json:"ratings"`
		Reviews map[string]*string `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(data, &books))
	assert.Equal(t, 12.0, books[0].Ratings["Arne"])
	require.NotNil(t, books[0].Reviews["Arne"])
	assert.Equal(t, "Lovely", *books[0].Reviews["Arne"])
}

func TestAddReview_FailureExitsNonZero(t *testing.T) {
	ws := newWorkspace(t)
	event := ws.writeEvent(t, "- book id: `OL1W`\n- reviewer: `Zoe`\n- grade: `12`\n")

	out, err := ws.run(t, "add-review", "--event", event)
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "❌ **No review stored**")
	assert.Contains(t, out, "Reviewer 'Zoe' was no participant (Arne and Mia).")
}

func TestAddBook_MissingEvent(t *testing.T) {
	ws := newWorkspace(t)
	t.Setenv("GITHUB_EVENT_PATH", "")

	_, err := ws.run(t, "add-book")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event path not set")
}

func TestSearch(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.run(t, "search", "hobbit")
	require.NoError(t, err)
	assert.Contains(t, out, "/works/OL1W")
	assert.NotContains(t, out, "/works/OL2W")

	out, err = ws.run(t, "search", "--subject", "fantasy")
	require.NoError(t, err)
	assert.Contains(t, out, "The Hobbit")

	out, err = ws.run(t, "search", "zzzzzz")
	require.NoError(t, err)
	assert.Equal(t, "no matches\n", out)
}

func TestUnknownEnvironment(t *testing.T) {
	ws := newWorkspace(t)

	_, err := ws.run(t, "--env", "moon", "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid environment")
}
