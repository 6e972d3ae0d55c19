// Package resource loads the bundled input files a run depends on.
package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ErrMissingResource is returned when a required bundled file is absent.
var ErrMissingResource = errors.New("missing resource")

// Loader opens named resources from a file system.
type Loader struct {
	fsys fs.FS
}

// NewLoader returns a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir)}
}

// NewFSLoader returns a Loader over an arbitrary file system.
func NewFSLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Open opens a resource for streaming. The caller closes it.
func (l *Loader) Open(name string) (io.ReadCloser, error) {
	f, err := l.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingResource, name)
		}
		return nil, fmt.Errorf("open resource %s: %w", name, err)
	}
	return f, nil
}

// ReadAll returns the full contents of a resource.
func (l *Loader) ReadAll(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingResource, name)
		}
		return nil, fmt.Errorf("read resource %s: %w", name, err)
	}
	return data, nil
}
