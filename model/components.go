package model

import (
	"errors"
	"fmt"
	"strings"
)

// RepoURLComponents holds parsed GitHub URL components
type RepoURLComponents struct {
	Owner      string
	Repository string
	Ref        string
	Dir        string
	FilePath   string
	IsFile     bool
}

// Action selects what Handle does with a request.
type Action string

const (
	ActionOpen     Action = "open"
	ActionDownload Action = "download"
)

const defaultTreeRef = "main"

var ErrInvalidRequest = errors.New("invalid content request")

// ParseAction maps the literal "open" to ActionOpen. Every other value,
// including the empty string, selects a download.
func ParseAction(s string) Action {
	if s == string(ActionOpen) {
		return ActionOpen
	}
	return ActionDownload
}

// ContentRequest addresses a path inside a GitHub repository.
type ContentRequest struct {
	Owner      string
	Repository string
	Path       string
	// Ref is optional. Empty means the default branch for API calls and
	// "main" for web URLs.
	Ref    string
	Action Action
}

// RequestFromComponents converts parsed URL components into a request.
func RequestFromComponents(c RepoURLComponents, action Action) ContentRequest {
	p := c.Dir
	if c.IsFile {
		p = c.FilePath
	}
	return ContentRequest{
		Owner:      c.Owner,
		Repository: c.Repository,
		Path:       p,
		Ref:        c.Ref,
		Action:     action,
	}
}

func (r ContentRequest) Validate() error {
	if r.Owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidRequest)
	}
	if r.Repository == "" {
		return fmt.Errorf("%w: repository is required", ErrInvalidRequest)
	}
	return nil
}

func (r ContentRequest) TreeRef() string {
	if r.Ref == "" {
		return defaultTreeRef
	}
	return r.Ref
}

// TreeURL is the human-facing page for the request, e.g.
// https://github.com/owner/repo/tree/main/docs.
func (r ContentRequest) TreeURL(webBaseURL string) string {
	return fmt.Sprintf("%s/%s/%s/tree/%s/%s",
		strings.TrimSuffix(webBaseURL, "/"), r.Owner, r.Repository, r.TreeRef(), r.Path)
}

// LastSegment returns the final slash-separated element of Path, ignoring
// trailing slashes.
func (r ContentRequest) LastSegment() string {
	trimmed := strings.TrimRight(r.Path, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// ArchiveName is the suggested file name for a zipped directory. The
// repository root falls back to the repository name.
func (r ContentRequest) ArchiveName() string {
	name := r.LastSegment()
	if name == "" {
		name = r.Repository
	}
	return name + ".zip"
}

// ContentEntry is one element of a directory listing.
type ContentEntry struct {
	Name        string
	Path        string
	Type        string
	SHA         string
	Size        int64
	DownloadURL string
}

func (e ContentEntry) IsFile() bool {
	return e.Type == EntryTypeFile
}

const (
	EntryTypeFile = "file"
	EntryTypeDir  = "dir"
)

// FileContent is a single-file response from the contents API.
type FileContent struct {
	Name        string
	Path        string
	Type        string
	Content     string
	Encoding    string
	Size        int64
	DownloadURL string
}

type ArtifactKind int

const (
	ArtifactFile ArtifactKind = iota
	ArtifactZip
)

func (k ArtifactKind) String() string {
	if k == ArtifactZip {
		return "zip"
	}
	return "file"
}

// Artifact is a byte blob paired with the name it should be saved under.
type Artifact struct {
	Name string
	Kind ArtifactKind
	Data []byte
	// Entries is the number of files bundled into a zip artifact.
	Entries int
}
