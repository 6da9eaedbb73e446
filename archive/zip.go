// Package archive packs named entries into an in-memory zip file.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zip"
)

var ErrClosed = errors.New("archive already serialized")

// Builder accumulates zip entries in insertion order. It is not safe for
// concurrent use; callers fan out fetches and add results sequentially.
type Builder struct {
	buf    bytes.Buffer
	w      *zip.Writer
	names  map[string]struct{}
	count  int
	closed bool
	// modified is stamped on every entry so identical input yields identical bytes.
	modified time.Time
}

func New() *Builder {
	b := &Builder{
		names:    make(map[string]struct{}),
		modified: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	b.w = zip.NewWriter(&b.buf)
	return b
}

// Add writes one deflated entry. Duplicate names are rejected.
func (b *Builder) Add(name string, data []byte) error {
	if b.closed {
		return ErrClosed
	}
	if _, dup := b.names[name]; dup {
		return fmt.Errorf("duplicate archive entry %q", name)
	}

	w, err := b.w.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: b.modified,
	})
	if err != nil {
		return fmt.Errorf("creating archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing archive entry %s: %w", name, err)
	}

	b.names[name] = struct{}{}
	b.count++
	return nil
}

func (b *Builder) Len() int {
	return b.count
}

// Bytes finalizes the archive and returns its encoded form. Further Adds fail.
func (b *Builder) Bytes() ([]byte, error) {
	if !b.closed {
		if err := b.w.Close(); err != nil {
			return nil, fmt.Errorf("finalizing archive: %w", err)
		}
		b.closed = true
	}
	return b.buf.Bytes(), nil
}
