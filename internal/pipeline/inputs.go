package pipeline

import (
	"fmt"
	"io"

	"github.com/dgallion1/linecolors/internal/resource"
)

// parseResource opens a bundled table and hands it to parse.
func parseResource[T any](res *resource.Loader, name string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	rc, err := res.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	out, err := parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
