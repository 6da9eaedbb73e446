package cmd

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repo-grab/helpers"
	"repo-grab/model"
)

func newGitHubStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/repos/acme/widgets/contents/examples/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `[
			{"name":"a.txt","type":"file","download_url":"%[1]s/raw/a.txt"},
			{"name":"sub","type":"dir"},
			{"name":"b.txt","type":"file","download_url":"%[1]s/raw/b.txt"}
		]`, srv.URL)
	})
	mux.HandleFunc("/repos/acme/widgets/contents/README.md", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"type":"file","name":"README.md","content":%q,"encoding":"base64"}`,
			base64.StdEncoding.EncodeToString([]byte("# widgets\n")))
	})
	mux.HandleFunc("/repos/acme/widgets/contents/nope", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	mux.HandleFunc("/raw/a.txt", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "A content") })
	mux.HandleFunc("/raw/b.txt", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "B content") })
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "")
	helpers.SetColorEnabled(false)

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	base := []string{"--config", filepath.Join(t.TempDir(), "config.json"), "--log-level", "error"}
	root.SetArgs(append(base, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestDownloadDirectory(t *testing.T) {
	srv := newGitHubStub(t)
	out := t.TempDir()

	stdout, _, err := execute(t, "download", "--api-url", srv.URL, "-o", out, "--no-progress",
		"acme", "widgets", "examples/hello")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hello.zip")
	assert.Contains(t, stdout, "2 files")

	_, err = os.Stat(filepath.Join(out, "hello.zip"))
	assert.NoError(t, err)
}

func TestDownloadFileFromURL(t *testing.T) {
	srv := newGitHubStub(t)
	out := t.TempDir()

	_, _, err := execute(t, "download", "--api-url", srv.URL, "-o", out,
		"https://github.com/acme/widgets/blob/main/README.md")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# widgets\n", string(data))
}

func TestDownloadNotFoundNotifies(t *testing.T) {
	srv := newGitHubStub(t)
	out := t.TempDir()

	_, stderr, err := execute(t, "download", "--api-url", srv.URL, "-o", out, "acme", "widgets", "nope")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Unsupported content type or path not found.")

	entries, _ := os.ReadDir(out)
	assert.Empty(t, entries)
}

func TestOpenPrint(t *testing.T) {
	stdout, _, err := execute(t, "open", "--print", "acme", "widgets", "examples/hello")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widgets/tree/main/examples/hello\n", stdout)
}

func TestHandleDispatchesOnAction(t *testing.T) {
	stdout, _, err := execute(t, "handle", "--print", "acme", "widgets", "docs", "open")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widgets/tree/main/docs\n", stdout)

	srv := newGitHubStub(t)
	out := t.TempDir()
	_, _, err = execute(t, "handle", "--api-url", srv.URL, "-o", out, "--no-progress",
		"acme", "widgets", "README.md", "whatever")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "README.md"))
	assert.NoError(t, err)
}

func TestParseTarget(t *testing.T) {
	req, err := parseTarget([]string{"acme", "widgets"}, model.ActionDownload, "")
	require.NoError(t, err)
	assert.Equal(t, model.ContentRequest{Owner: "acme", Repository: "widgets", Action: model.ActionDownload}, req)

	req, err = parseTarget([]string{"https://github.com/acme/widgets/tree/main/docs"}, model.ActionOpen, "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2", req.Ref)
	assert.Equal(t, "docs", req.Path)

	_, err = parseTarget([]string{"", "widgets"}, model.ActionDownload, "")
	assert.ErrorIs(t, err, model.ErrInvalidRequest)

	_, err = parseTarget([]string{"https://example.com/x"}, model.ActionDownload, "")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Version: dev")
}
