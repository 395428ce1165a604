package metadata

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/danmalone/pagemeta/internal/content"
)

// ErrInvalidBaseURL is returned by NewMapper for a base URL that is not an
// absolute http(s) URL.
var ErrInvalidBaseURL = errors.New("base url must be an absolute http(s) URL")

// Mapper turns validated PageData into Metadata. It holds no state besides
// the configured base URL and is safe for concurrent use.
type Mapper struct {
	baseURL string
}

// NewMapper returns a Mapper that stamps baseURL into every record.
func NewMapper(baseURL string) (*Mapper, error) {
	baseURL = strings.TrimSpace(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidBaseURL, baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	return &Mapper{baseURL: baseURL}, nil
}

// BaseURL returns the base URL stamped into records.
func (m *Mapper) BaseURL() string { return m.baseURL }

// Map builds the normalized record. data must have passed Validate.
func (m *Mapper) Map(data PageData) Metadata {
	md := Metadata{
		MetadataBase: m.baseURL,
		Title:        data.Title,
		Description:  data.Description,
		Keywords:     append([]string(nil), data.Keywords...),
		Authors:      []Author{{Name: data.Author}},
	}
	if og := data.OpenGraph; og != nil {
		md.OpenGraph = OpenGraphMetadata{
			Type:        og.Type,
			Locale:      og.Locale,
			URL:         data.URL,
			SiteName:    data.SiteName,
			Title:       og.Title,
			Description: og.Description,
			Images:      append([]Image(nil), og.Images...),
		}
	}
	if tw := data.Twitter; tw != nil {
		md.Twitter = TwitterMetadata{
			Card:        tw.Card,
			Title:       tw.Title,
			Description: tw.Description,
			Images:      append([]string(nil), tw.Images...),
		}
	}
	if r := data.Robots; r != nil {
		md.Robots = RobotsMetadata{Index: deref(r.Index), Follow: deref(r.Follow)}
	}
	if i := data.Icons; i != nil {
		md.Icons = IconsMetadata{Icon: i.Icon, Apple: i.Apple}
	}
	return md
}

// MapDocument decodes, validates and maps a loaded document.
func (m *Mapper) MapDocument(doc *content.Document) (Metadata, PageData, error) {
	data, err := Decode(doc)
	if err != nil {
		return Metadata{}, PageData{}, err
	}
	return m.Map(data), data, nil
}

func deref(b *bool) bool {
	return b != nil && *b
}
