package content

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	yamlDelim = "---"
	tomlDelim = "+++"
	bom       = "\ufeff"
)

// Split separates raw into its decoded front matter, the undecoded block and
// the body. A document must open with a YAML (---) or TOML (+++) block.
func Split(raw []byte) (Record, []byte, []byte, Format, error) {
	var (
		format Format
		block  []byte
	)
	capture := func(f Format) frontmatter.UnmarshalFunc {
		return func(data []byte, v any) error {
			format = f
			block = append([]byte(nil), data...)
			return unmarshal(f, block, v)
		}
	}

	// Nested blocks stay map[string]any in both formats.
	var fm map[string]any
	body, err := frontmatter.MustParse(
		bytes.NewReader(bytes.TrimPrefix(raw, []byte(bom))),
		&fm,
		frontmatter.NewFormat(yamlDelim, yamlDelim, capture(FormatYAML)),
		frontmatter.NewFormat(tomlDelim, tomlDelim, capture(FormatTOML)),
	)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return nil, nil, nil, "", ErrNoFrontMatter
		}
		return nil, nil, nil, "", decodeError(format, err)
	}
	rec := Record(fm)
	if rec == nil {
		rec = Record{}
	}
	return rec, block, body, format, nil
}

// decodeError names the format when the opening delimiter identified one.
func decodeError(format Format, err error) error {
	if format == "" {
		return fmt.Errorf("decode front matter: %w", err)
	}
	return fmt.Errorf("decode %s front matter: %w", format, err)
}

// Encode renders front matter and body back into a document. It is the
// inverse of Split: splitting the result yields the same record and body.
func Encode(format Format, fm any, body []byte) ([]byte, error) {
	var (
		delim string
		data  []byte
		err   error
	)
	switch format {
	case FormatYAML:
		delim = yamlDelim
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(fm); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	case FormatTOML:
		delim = tomlDelim
		data, err = toml.Marshal(fm)
	default:
		return nil, fmt.Errorf("unsupported front matter format: %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot encode %s front matter: %w", format, err)
	}

	var out bytes.Buffer
	out.WriteString(delim + "\n")
	out.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		out.WriteByte('\n')
	}
	out.WriteString(delim + "\n")
	out.Write(body)
	return out.Bytes(), nil
}

func unmarshal(format Format, data []byte, v any) error {
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("unsupported front matter format: %q", format)
	}
}
