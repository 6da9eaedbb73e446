package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	assert.Equal(t, ActionOpen, ParseAction("open"))
	assert.Equal(t, ActionDownload, ParseAction("download"))
	assert.Equal(t, ActionDownload, ParseAction(""))
	assert.Equal(t, ActionDownload, ParseAction("OPEN"))
	assert.Equal(t, ActionDownload, ParseAction("anything"))
}

func TestContentRequest_TreeURL(t *testing.T) {
	req := ContentRequest{Owner: "acme", Repository: "widgets", Path: "examples/go"}
	assert.Equal(t, "https://github.com/acme/widgets/tree/main/examples/go", req.TreeURL("https://github.com"))
	assert.Equal(t, "https://github.com/acme/widgets/tree/main/examples/go", req.TreeURL("https://github.com/"))

	req.Ref = "dev"
	req.Path = ""
	assert.Equal(t, "https://github.com/acme/widgets/tree/dev/", req.TreeURL("https://github.com"))
}

func TestContentRequest_ArchiveName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"examples/go/hello", "hello.zip"},
		{"hello", "hello.zip"},
		{"examples/hello/", "hello.zip"},
		{"", "widgets.zip"},
		{"/", "widgets.zip"},
	}
	for _, tt := range tests {
		req := ContentRequest{Owner: "acme", Repository: "widgets", Path: tt.path}
		assert.Equal(t, tt.want, req.ArchiveName(), tt.path)
	}
}

func TestContentRequest_Validate(t *testing.T) {
	assert.NoError(t, ContentRequest{Owner: "a", Repository: "b"}.Validate())
	assert.ErrorIs(t, ContentRequest{Repository: "b"}.Validate(), ErrInvalidRequest)
	assert.ErrorIs(t, ContentRequest{Owner: "a"}.Validate(), ErrInvalidRequest)
}

func TestRequestFromComponents(t *testing.T) {
	dir := RequestFromComponents(RepoURLComponents{Owner: "a", Repository: "b", Ref: "main", Dir: "docs"}, ActionOpen)
	assert.Equal(t, ContentRequest{Owner: "a", Repository: "b", Ref: "main", Path: "docs", Action: ActionOpen}, dir)

	file := RequestFromComponents(RepoURLComponents{Owner: "a", Repository: "b", Dir: "docs", FilePath: "docs/x.md", IsFile: true}, ActionDownload)
	assert.Equal(t, "docs/x.md", file.Path)
}
