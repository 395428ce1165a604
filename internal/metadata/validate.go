package metadata

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/danmalone/pagemeta/internal/content"
)

// MissingFieldError lists every required front-matter field absent from a
// page. Fields are dotted paths, sorted (e.g. "openGraph.images.0.alt").
type MissingFieldError struct {
	Page   string
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("page %q is missing required front matter: %s", e.Page, strings.Join(e.Fields, ", "))
}

// Decode reads the document's front matter into PageData and validates it.
// All absent fields are reported together in one *MissingFieldError.
func Decode(doc *content.Document) (PageData, error) {
	var data PageData
	if err := doc.Decode(&data); err != nil {
		return PageData{}, err
	}
	if err := data.Validate(); err != nil {
		var verrs validation.Errors
		if !errors.As(err, &verrs) {
			return PageData{}, fmt.Errorf("cannot validate page %q: %w", doc.Page, err)
		}
		return PageData{}, &MissingFieldError{Page: doc.Page, Fields: missingPaths("", verrs)}
	}
	return data, nil
}

// Validate reports every required field that is absent.
func (d PageData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Description, validation.Required),
		validation.Field(&d.Keywords, validation.Required),
		validation.Field(&d.Author, validation.Required),
		validation.Field(&d.URL, validation.Required),
		validation.Field(&d.SiteName, validation.Required),
		validation.Field(&d.OpenGraph, validation.NotNil),
		validation.Field(&d.Twitter, validation.NotNil),
		validation.Field(&d.Robots, validation.NotNil),
		validation.Field(&d.Icons, validation.NotNil),
	)
}

func (o OpenGraph) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Type, validation.Required),
		validation.Field(&o.Locale, validation.Required),
		validation.Field(&o.Title, validation.Required),
		validation.Field(&o.Description, validation.Required),
		validation.Field(&o.Images, validation.Required),
	)
}

func (i Image) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.URL, validation.Required),
		validation.Field(&i.Width, validation.Required),
		validation.Field(&i.Height, validation.Required),
		validation.Field(&i.Alt, validation.Required),
	)
}

func (t Twitter) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Card, validation.Required),
		validation.Field(&t.Title, validation.Required),
		validation.Field(&t.Description, validation.Required),
		validation.Field(&t.Images, validation.Required),
	)
}

func (r Robots) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Index, validation.NotNil),
		validation.Field(&r.Follow, validation.NotNil),
	)
}

func (i Icons) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Icon, validation.Required),
		validation.Field(&i.Apple, validation.Required),
	)
}

// missingPaths flattens nested validation errors into sorted dotted paths.
func missingPaths(prefix string, errs validation.Errors) []string {
	var out []string
	for key, err := range errs {
		p := key
		if prefix != "" {
			p = prefix + "." + key
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			out = append(out, missingPaths(p, nested)...)
			continue
		}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
