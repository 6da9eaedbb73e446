// Package fetcher resolves a repository path to either a browser navigation
// or a downloadable artifact.
package fetcher

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"repo-grab/archive"
	"repo-grab/gh"
	"repo-grab/logger"
	"repo-grab/model"
)

var (
	ErrUnsupportedContent = errors.New("unsupported content")
	ErrDecodeFailure      = errors.New("could not decode file content")
)

// UnsupportedMessage is shown when a response is neither a listing nor a file.
const UnsupportedMessage = "Unsupported content type or path not found."

const defaultWebBaseURL = "https://github.com"

// Source is the HTTP capability: contents API lookups and raw downloads.
type Source interface {
	GetContents(ctx context.Context, req model.ContentRequest) (*gh.Contents, error)
	FetchRaw(ctx context.Context, downloadURL string) ([]byte, error)
}

// Navigator opens a URL in a new browsing context.
type Navigator interface {
	Open(ctx context.Context, url string) error
}

// Saver materializes an artifact for the user.
type Saver interface {
	Save(ctx context.Context, artifact model.Artifact) error
}

// Notifier surfaces a blocking, user-visible message.
type Notifier interface {
	Notify(msg string)
}

// Progress tracks per-file fetches in the directory case.
type Progress interface {
	Start(total int)
	Increment(bytes int)
	Finish()
}

type nopProgress struct{}

func (nopProgress) Start(int)     {}
func (nopProgress) Increment(int) {}
func (nopProgress) Finish()       {}

type Option func(*ContentFetcher)

func WithNavigator(n Navigator) Option { return func(f *ContentFetcher) { f.navigator = n } }
func WithSaver(s Saver) Option         { return func(f *ContentFetcher) { f.saver = s } }
func WithNotifier(n Notifier) Option   { return func(f *ContentFetcher) { f.notifier = n } }
func WithLogger(l *logger.Logger) Option {
	return func(f *ContentFetcher) { f.log = l }
}

// WithProgress installs a factory called once per directory download.
func WithProgress(newProgress func() Progress) Option {
	return func(f *ContentFetcher) { f.newProgress = newProgress }
}

// WithConcurrency caps simultaneous per-file fetches. n <= 0 is unbounded.
func WithConcurrency(n int) Option {
	return func(f *ContentFetcher) { f.concurrency = n }
}

func WithWebBaseURL(u string) Option {
	return func(f *ContentFetcher) {
		if u != "" {
			f.webBaseURL = u
		}
	}
}

// ContentFetcher holds no per-request state; concurrent Handle calls are
// independent.
type ContentFetcher struct {
	source      Source
	navigator   Navigator
	saver       Saver
	notifier    Notifier
	newProgress func() Progress
	log         *logger.Logger
	concurrency int
	webBaseURL  string
}

func New(source Source, opts ...Option) *ContentFetcher {
	f := &ContentFetcher{
		source:      source,
		newProgress: func() Progress { return nopProgress{} },
		log:         logger.NewNop(),
		webBaseURL:  defaultWebBaseURL,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Handle opens the request's GitHub page or downloads its content. An
// unsupported response is reported through the Notifier and is not an error.
func (f *ContentFetcher) Handle(ctx context.Context, req model.ContentRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	log := f.log.With("owner", req.Owner, "repo", req.Repository, "path", req.Path, "action", string(req.Action))

	if req.Action == model.ActionOpen {
		target := req.TreeURL(f.webBaseURL)
		log.Debug("opening", "url", target)
		if f.navigator == nil {
			return errors.New("no navigator configured")
		}
		return f.navigator.Open(ctx, target)
	}

	if f.saver == nil {
		return errors.New("no saver configured")
	}

	contents, err := f.source.GetContents(ctx, req)
	if errors.Is(err, gh.ErrNotFound) {
		f.unsupported(log, err)
		return nil
	}
	if err != nil {
		return err
	}

	var artifact model.Artifact
	switch {
	case contents.IsDir():
		log.Info("bundling directory", "entries", len(contents.Listing))
		artifact, err = f.bundle(ctx, req, contents.Listing)
	case contents.File.Type == model.EntryTypeFile:
		artifact, err = f.single(ctx, contents.File)
	default:
		f.unsupported(log, fmt.Errorf("%w: type %q", ErrUnsupportedContent, contents.File.Type))
		return nil
	}
	if err != nil {
		return err
	}

	if err := f.saver.Save(ctx, artifact); err != nil {
		return fmt.Errorf("saving %s: %w", artifact.Name, err)
	}
	log.Info("downloaded", "name", artifact.Name, "kind", artifact.Kind.String(), "bytes", len(artifact.Data))
	return nil
}

func (f *ContentFetcher) unsupported(log *logger.Logger, cause error) {
	log.Warn("unsupported content", "error", cause)
	if f.notifier != nil {
		f.notifier.Notify(UnsupportedMessage)
	}
}

func (f *ContentFetcher) single(ctx context.Context, file *model.FileContent) (model.Artifact, error) {
	var (
		data []byte
		err  error
	)
	// Files over 1MB come back with encoding "none" and no inline content.
	if file.Encoding == "none" && file.DownloadURL != "" {
		data, err = f.source.FetchRaw(ctx, file.DownloadURL)
	} else {
		data, err = DecodeContent(file.Content, file.Encoding)
	}
	if err != nil {
		return model.Artifact{}, fmt.Errorf("%s: %w", file.Name, err)
	}
	return model.Artifact{Name: file.Name, Kind: model.ArtifactFile, Data: data}, nil
}

// bundle fetches every file entry of a listing and zips them in listing
// order. Subdirectories and other entry types are skipped.
func (f *ContentFetcher) bundle(ctx context.Context, req model.ContentRequest, listing []model.ContentEntry) (model.Artifact, error) {
	files := make([]model.ContentEntry, 0, len(listing))
	for _, entry := range listing {
		if entry.IsFile() {
			files = append(files, entry)
		}
	}

	progress := f.newProgress()
	progress.Start(len(files))
	defer progress.Finish()

	bodies := make([][]byte, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if f.concurrency > 0 {
		g.SetLimit(f.concurrency)
	}
	for i, entry := range files {
		i, entry := i, entry
		g.Go(func() error {
			f.log.Debug("fetching file", "name", entry.Name, "url", entry.DownloadURL)
			body, err := f.source.FetchRaw(gctx, entry.DownloadURL)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", entry.Name, err)
			}
			bodies[i] = body
			progress.Increment(len(body))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.Artifact{}, err
	}

	zw := archive.New()
	for i, entry := range files {
		if err := zw.Add(entry.Name, bodies[i]); err != nil {
			return model.Artifact{}, err
		}
	}
	data, err := zw.Bytes()
	if err != nil {
		return model.Artifact{}, err
	}

	return model.Artifact{
		Name:    req.ArchiveName(),
		Kind:    model.ArtifactZip,
		Data:    data,
		Entries: zw.Len(),
	}, nil
}

// DecodeContent decodes inline contents API content. Embedded newlines are
// stripped before base64 decoding; an empty encoding is treated as base64.
func DecodeContent(content, encoding string) ([]byte, error) {
	switch encoding {
	case "", "base64":
		data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
		}
		return data, nil
	case "utf-8":
		return []byte(content), nil
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrDecodeFailure, encoding)
	}
}
