package content

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func newTestLoader() *Loader {
	fsys := fstest.MapFS{
		"home/index.mdx":        {Data: []byte(homeYAML)},
		"about/index.mdx":       {Data: []byte(homeTOML)},
		"blog/launch/index.mdx": {Data: []byte("---\ntitle: Launch\n---\n")},
		"broken/index.mdx":      {Data: []byte("no front matter here\n")},
		"notes/readme.md":       {Data: []byte("---\ntitle: Notes\n---\n")},
		".drafts/wip/index.mdx": {Data: []byte("---\ntitle: WIP\n---\n")},
		"index.mdx":             {Data: []byte("---\ntitle: Root\n---\n")},
	}
	return NewLoaderFS(fsys, "index.mdx")
}

func TestLoader_Load(t *testing.T) {
	l := newTestLoader()

	doc, err := l.Load(context.Background(), "home")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Page != "home" || doc.Path != "home/index.mdx" {
		t.Fatalf("unexpected page/path: %q %q", doc.Page, doc.Path)
	}
	if doc.Format != FormatYAML {
		t.Fatalf("unexpected format: %q", doc.Format)
	}
	if doc.FrontMatter["author"] != "Dan Malone" {
		t.Fatalf("unexpected author: %v", doc.FrontMatter["author"])
	}
}

func TestLoader_LoadNested(t *testing.T) {
	l := newTestLoader()

	doc, err := l.Load(context.Background(), "/blog/launch/")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Page != "blog/launch" || doc.FrontMatter["title"] != "Launch" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestLoader_LoadMissingPage(t *testing.T) {
	l := newTestLoader()

	_, err := l.Load(context.Background(), "missing-page")
	if err == nil {
		t.Fatalf("expected error for missing page")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T: %v", err, err)
	}
	if !IsNotFound(err) {
		t.Fatalf("expected IsNotFound, got %v", err)
	}
}

func TestLoader_LoadRejectsEscapingIdentifiers(t *testing.T) {
	l := newTestLoader()

	for _, page := range []string{"", "../etc", "home/../..", "home/..", "  "} {
		_, err := l.Load(context.Background(), page)
		if !errors.Is(err, ErrInvalidPage) {
			t.Fatalf("Load(%q): expected ErrInvalidPage, got %v", page, err)
		}
		if IsNotFound(err) {
			t.Fatalf("Load(%q): invalid identifier reported as not found", page)
		}
	}
}

func TestLoader_LoadParseError(t *testing.T) {
	l := newTestLoader()

	_, err := l.Load(context.Background(), "broken")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.Path != "broken/index.mdx" {
		t.Fatalf("unexpected path: %q", pe.Path)
	}
	if !errors.Is(err, ErrNoFrontMatter) {
		t.Fatalf("expected ErrNoFrontMatter in chain, got %v", err)
	}
}

func TestLoader_LoadCancelled(t *testing.T) {
	l := newTestLoader()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Load(ctx, "home"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoader_Discover(t *testing.T) {
	l := newTestLoader()

	pages, err := l.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"about", "blog/launch", "broken", "home"}
	if diff := cmp.Diff(want, pages); diff != "" {
		t.Fatalf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_Decode(t *testing.T) {
	l := newTestLoader()

	for _, page := range []string{"home", "about"} {
		doc, err := l.Load(context.Background(), page)
		if err != nil {
			t.Fatalf("Load(%s): %v", page, err)
		}
		var v struct {
			Title    string   `yaml:"title" toml:"title"`
			Keywords []string `yaml:"keywords" toml:"keywords"`
		}
		if err := doc.Decode(&v); err != nil {
			t.Fatalf("Decode(%s): %v", page, err)
		}
		if v.Title != "Dan Malone | Fractional CTO" {
			t.Fatalf("unexpected title for %s: %q", page, v.Title)
		}
		if diff := cmp.Diff([]string{"CTO", "technology"}, v.Keywords); diff != "" {
			t.Fatalf("keywords mismatch for %s (-want +got):\n%s", page, diff)
		}
	}
}

func TestDocument_DecodeTypeMismatch(t *testing.T) {
	doc := &Document{Page: "p", Path: "p/index.mdx", Format: FormatYAML, block: []byte("keywords: just-a-string\n")}
	var v struct {
		Keywords []string `yaml:"keywords"`
	}
	err := doc.Decode(&v)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
}
