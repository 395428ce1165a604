package metadata

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/danmalone/pagemeta/internal/content"
)

const homeYAML = `---
title: "Dan Malone | Fractional CTO"
description: "Helping businesses turn technology into results"
keywords: ["CTO", "technology"]
author: Dan Malone
url: https://dan-malone.com
siteName: Dan Malone
openGraph:
  type: website
  locale: en_GB
  title: "Dan Malone | Fractional CTO"
  description: "Helping businesses turn technology into results"
  images:
    - url: /og-image.png
      width: 1200
      height: 630
      alt: Dan Malone
twitter:
  card: summary_large_image
  title: "Dan Malone | Fractional CTO"
  description: "Helping businesses turn technology into results"
  images: ["/og-image.png"]
robots:
  index: true
  follow: true
icons:
  icon: /favicon.ico
  apple: /apple-touch-icon.png
---
Body.
`

func loadDoc(t *testing.T, src string) *content.Document {
	t.Helper()
	l := content.NewLoaderFS(fstest.MapFS{"home/index.mdx": {Data: []byte(src)}}, "index.mdx")
	doc, err := l.Load(context.Background(), "home")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func newMapper(t *testing.T) *Mapper {
	t.Helper()
	m, err := NewMapper("https://dan-malone.com")
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	return m
}

func TestMapDocument_HomePage(t *testing.T) {
	md, data, err := newMapper(t).MapDocument(loadDoc(t, homeYAML))
	if err != nil {
		t.Fatalf("MapDocument: %v", err)
	}

	if md.Title != "Dan Malone | Fractional CTO" || md.Title != data.Title {
		t.Fatalf("unexpected title: %q", md.Title)
	}
	if md.Description != data.Description {
		t.Fatalf("description mismatch: %q vs %q", md.Description, data.Description)
	}
	if diff := cmp.Diff([]Author{{Name: "Dan Malone"}}, md.Authors); diff != "" {
		t.Fatalf("authors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"CTO", "technology"}, md.Keywords); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}

	wantOG := OpenGraphMetadata{
		Type:        "website",
		Locale:      "en_GB",
		URL:         "https://dan-malone.com",
		SiteName:    "Dan Malone",
		Title:       "Dan Malone | Fractional CTO",
		Description: "Helping businesses turn technology into results",
		Images:      []Image{{URL: "/og-image.png", Width: 1200, Height: 630, Alt: "Dan Malone"}},
	}
	if diff := cmp.Diff(wantOG, md.OpenGraph); diff != "" {
		t.Fatalf("openGraph mismatch (-want +got):\n%s", diff)
	}
	if md.Twitter.Card != "summary_large_image" || len(md.Twitter.Images) != 1 {
		t.Fatalf("unexpected twitter: %+v", md.Twitter)
	}
	if !md.Robots.Index || !md.Robots.Follow {
		t.Fatalf("unexpected robots: %+v", md.Robots)
	}
	if md.Icons.Apple != "/apple-touch-icon.png" {
		t.Fatalf("unexpected icons: %+v", md.Icons)
	}
	if md.MetadataBase != "https://dan-malone.com" {
		t.Fatalf("unexpected base: %q", md.MetadataBase)
	}
}

func TestMap_PreservesKeywordOrder(t *testing.T) {
	src := strings.Replace(homeYAML, `keywords: ["CTO", "technology"]`, `keywords: [zeta, alpha, CTO, mid]`, 1)
	md, _, err := newMapper(t).MapDocument(loadDoc(t, src))
	if err != nil {
		t.Fatalf("MapDocument: %v", err)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "CTO", "mid"}, md.Keywords); diff != "" {
		t.Fatalf("keywords reordered (-want +got):\n%s", diff)
	}
}

func TestMap_FalseRobotsAreNotMissing(t *testing.T) {
	src := strings.Replace(homeYAML, "  index: true\n  follow: true", "  index: false\n  follow: false", 1)
	md, _, err := newMapper(t).MapDocument(loadDoc(t, src))
	if err != nil {
		t.Fatalf("MapDocument: %v", err)
	}
	if md.Robots.Index || md.Robots.Follow {
		t.Fatalf("unexpected robots: %+v", md.Robots)
	}
}

func TestMap_BaseURLIsPassedThrough(t *testing.T) {
	m, err := NewMapper("https://preview.example.com")
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	md, _, err := m.MapDocument(loadDoc(t, homeYAML))
	if err != nil {
		t.Fatalf("MapDocument: %v", err)
	}
	if md.MetadataBase != "https://preview.example.com" {
		t.Fatalf("unexpected base: %q", md.MetadataBase)
	}
}

func TestNewMapper_RejectsInvalidBaseURL(t *testing.T) {
	for _, in := range []string{"", "dan-malone.com", "/relative", "ftp://dan-malone.com", "https://"} {
		if _, err := NewMapper(in); !errors.Is(err, ErrInvalidBaseURL) {
			t.Fatalf("NewMapper(%q): expected ErrInvalidBaseURL, got %v", in, err)
		}
	}
}

var requiredPaths = []string{
	"title", "description", "keywords", "author", "url", "siteName",
	"openGraph", "openGraph.type", "openGraph.locale", "openGraph.title",
	"openGraph.description", "openGraph.images",
	"openGraph.images.0.url", "openGraph.images.0.width",
	"openGraph.images.0.height", "openGraph.images.0.alt",
	"twitter", "twitter.card", "twitter.title", "twitter.description", "twitter.images",
	"robots", "robots.index", "robots.follow",
	"icons", "icons.icon", "icons.apple",
}

func TestDecode_EachMissingFieldIsReported(t *testing.T) {
	for _, path := range requiredPaths {
		t.Run(path, func(t *testing.T) {
			rec, _, body, format, err := content.Split([]byte(homeYAML))
			if err != nil {
				t.Fatalf("Split: %v", err)
			}
			deletePath(t, rec, strings.Split(path, "."))
			src, err := content.Encode(format, rec, body)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			_, err = Decode(loadDoc(t, string(src)))
			var mfe *MissingFieldError
			if !errors.As(err, &mfe) {
				t.Fatalf("expected *MissingFieldError, got %T: %v", err, err)
			}
			if diff := cmp.Diff([]string{path}, mfe.Fields); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
			if mfe.Page != "home" {
				t.Fatalf("unexpected page: %q", mfe.Page)
			}
		})
	}
}

func TestDecode_AggregatesAllMissingFields(t *testing.T) {
	_, err := Decode(loadDoc(t, "---\ntitle: Only a title\n---\n"))
	var mfe *MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected *MissingFieldError, got %T: %v", err, err)
	}
	want := []string{"author", "description", "icons", "keywords", "openGraph", "robots", "siteName", "twitter", "url"}
	if diff := cmp.Diff(want, mfe.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(mfe.Error(), "openGraph") {
		t.Fatalf("error message does not list fields: %s", mfe.Error())
	}
}

func TestDecode_EmptyKeywordsIsMissing(t *testing.T) {
	src := strings.Replace(homeYAML, `keywords: ["CTO", "technology"]`, `keywords: []`, 1)
	_, err := Decode(loadDoc(t, src))
	var mfe *MissingFieldError
	if !errors.As(err, &mfe) || len(mfe.Fields) != 1 || mfe.Fields[0] != "keywords" {
		t.Fatalf("expected keywords to be reported missing, got %v", err)
	}
}

func TestDecode_TypeMismatchIsParseError(t *testing.T) {
	src := strings.Replace(homeYAML, `keywords: ["CTO", "technology"]`, `keywords: {a: b}`, 1)
	_, err := Decode(loadDoc(t, src))
	var pe *content.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *content.ParseError, got %T: %v", err, err)
	}
}

func TestPageURL(t *testing.T) {
	cases := []struct{ site, page, want string }{
		{"https://dan-malone.com", "", "https://dan-malone.com"},
		{"https://dan-malone.com/", "about", "https://dan-malone.com/about"},
		{"https://dan-malone.com", "/blog/launch/", "https://dan-malone.com/blog/launch"},
	}
	for _, tc := range cases {
		if got := PageURL(tc.site, tc.page); got != tc.want {
			t.Errorf("PageURL(%q, %q) = %q, want %q", tc.site, tc.page, got, tc.want)
		}
	}
}

func TestTemplate_PassesValidation(t *testing.T) {
	data := Template("Services", "Dan Malone", "https://dan-malone.com", "Dan Malone")
	if err := data.Validate(); err != nil {
		t.Fatalf("template does not validate: %v", err)
	}
	if w := Lint(data); len(w) != 0 {
		t.Fatalf("template has lint warnings: %v", w)
	}

	for _, format := range []content.Format{content.FormatYAML, content.FormatTOML} {
		src, err := content.Encode(format, data, []byte("Body.\n"))
		if err != nil {
			t.Fatalf("Encode(%s): %v", format, err)
		}
		got, err := Decode(loadDoc(t, string(src)))
		if err != nil {
			t.Fatalf("Decode(%s): %v\n%s", format, err, src)
		}
		if diff := cmp.Diff(data, got); diff != "" {
			t.Fatalf("%s template changed on round trip (-want +got):\n%s", format, diff)
		}
	}
}

func deletePath(t *testing.T, node any, path []string) {
	t.Helper()
	key := path[0]
	last := len(path) == 1
	switch n := node.(type) {
	case content.Record:
		if last {
			delete(n, key)
			return
		}
		deletePath(t, n[key], path[1:])
	case map[string]any:
		if last {
			delete(n, key)
			return
		}
		deletePath(t, n[key], path[1:])
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || last {
			t.Fatalf("cannot delete %v from list", path)
		}
		deletePath(t, n[i], path[1:])
	default:
		t.Fatalf("cannot descend into %T at %v", node, path)
	}
}
