// Package metadata validates page front matter and maps it into the record
// used to populate document head tags.
package metadata

// PageData is the typed front matter of a page. Nested blocks and booleans
// are pointers so an absent field can be told apart from a zero value.
type PageData struct {
	Title       string     `yaml:"title" toml:"title" json:"title"`
	Description string     `yaml:"description" toml:"description" json:"description"`
	Keywords    []string   `yaml:"keywords" toml:"keywords" json:"keywords"`
	Author      string     `yaml:"author" toml:"author" json:"author"`
	URL         string     `yaml:"url" toml:"url" json:"url"`
	SiteName    string     `yaml:"siteName" toml:"siteName" json:"siteName"`
	OpenGraph   *OpenGraph `yaml:"openGraph" toml:"openGraph" json:"openGraph"`
	Twitter     *Twitter   `yaml:"twitter" toml:"twitter" json:"twitter"`
	Robots      *Robots    `yaml:"robots" toml:"robots" json:"robots"`
	Icons       *Icons     `yaml:"icons" toml:"icons" json:"icons"`
}

// OpenGraph is the openGraph block of the front matter.
type OpenGraph struct {
	Type        string  `yaml:"type" toml:"type" json:"type"`
	Locale      string  `yaml:"locale" toml:"locale" json:"locale"`
	Title       string  `yaml:"title" toml:"title" json:"title"`
	Description string  `yaml:"description" toml:"description" json:"description"`
	Images      []Image `yaml:"images" toml:"images" json:"images"`
}

// Image is one Open Graph image.
type Image struct {
	URL    string `yaml:"url" toml:"url" json:"url"`
	Width  int    `yaml:"width" toml:"width" json:"width"`
	Height int    `yaml:"height" toml:"height" json:"height"`
	Alt    string `yaml:"alt" toml:"alt" json:"alt"`
}

// Twitter is the twitter card block of the front matter.
type Twitter struct {
	Card        string   `yaml:"card" toml:"card" json:"card"`
	Title       string   `yaml:"title" toml:"title" json:"title"`
	Description string   `yaml:"description" toml:"description" json:"description"`
	Images      []string `yaml:"images" toml:"images" json:"images"`
}

// Robots holds the crawler directives. Both fields are required; false is a
// valid value.
type Robots struct {
	Index  *bool `yaml:"index" toml:"index" json:"index"`
	Follow *bool `yaml:"follow" toml:"follow" json:"follow"`
}

// Icons holds icon paths.
type Icons struct {
	Icon  string `yaml:"icon" toml:"icon" json:"icon"`
	Apple string `yaml:"apple" toml:"apple" json:"apple"`
}

// Metadata is the normalized record handed to the page shell.
type Metadata struct {
	MetadataBase string            `json:"metadataBase" yaml:"metadataBase"`
	Title        string            `json:"title" yaml:"title"`
	Description  string            `json:"description" yaml:"description"`
	Keywords     []string          `json:"keywords" yaml:"keywords"`
	Authors      []Author          `json:"authors" yaml:"authors"`
	OpenGraph    OpenGraphMetadata `json:"openGraph" yaml:"openGraph"`
	Twitter      TwitterMetadata   `json:"twitter" yaml:"twitter"`
	Robots       RobotsMetadata    `json:"robots" yaml:"robots"`
	Icons        IconsMetadata     `json:"icons" yaml:"icons"`
}

// Author names one page author.
type Author struct {
	Name string `json:"name" yaml:"name"`
}

// OpenGraphMetadata is the Open Graph section of Metadata. URL and SiteName
// come from the page's top-level url and siteName.
type OpenGraphMetadata struct {
	Type        string  `json:"type" yaml:"type"`
	Locale      string  `json:"locale" yaml:"locale"`
	URL         string  `json:"url" yaml:"url"`
	SiteName    string  `json:"siteName" yaml:"siteName"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Images      []Image `json:"images" yaml:"images"`
}

type TwitterMetadata struct {
	Card        string   `json:"card" yaml:"card"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Images      []string `json:"images" yaml:"images"`
}

type RobotsMetadata struct {
	Index  bool `json:"index" yaml:"index"`
	Follow bool `json:"follow" yaml:"follow"`
}

type IconsMetadata struct {
	Icon  string `json:"icon" yaml:"icon"`
	Apple string `json:"apple" yaml:"apple"`
}
