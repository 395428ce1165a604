package content

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrInvalidPage indicates a page identifier that does not name a path
	// inside the content root.
	ErrInvalidPage = errors.New("invalid page identifier")

	// ErrNoFrontMatter indicates a document without a delimited front-matter
	// block, or with an opening delimiter that is never closed.
	ErrNoFrontMatter = errors.New("front matter block not found or not terminated")
)

// LoadError reports a content file that could not be located or read.
type LoadError struct {
	Page string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot read page %q (%s): %v", e.Page, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseError reports a front-matter block that is malformed or cannot be
// decoded.
type ParseError struct {
	Page string
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid front matter in page %q (%s): %v", e.Page, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the page's content file does not exist.
func IsNotFound(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && errors.Is(le.Err, fs.ErrNotExist)
}
