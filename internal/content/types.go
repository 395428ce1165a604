// Package content locates per-page content documents under a content root
// and splits them into a front-matter record and a body.
package content

import "fmt"

// Format identifies the syntax of a front-matter block.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported front matter format: %q", s)
	}
}

// Record is a decoded front-matter block: strings, lists, numbers, booleans
// and nested blocks keyed by field name. Nested blocks are map[string]any
// whichever format the document uses.
type Record map[string]any

// Document is one content file after the front-matter split.
type Document struct {
	Page        string
	Path        string
	Format      Format
	FrontMatter Record
	Body        []byte
	// Raw is the file as read, before the split.
	Raw []byte

	block []byte
}

// Decode decodes the document's front-matter block into v using the
// document's own format.
func (d *Document) Decode(v any) error {
	if err := unmarshal(d.Format, d.block, v); err != nil {
		return &ParseError{Page: d.Page, Path: d.Path, Err: err}
	}
	return nil
}
