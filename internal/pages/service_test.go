package pages

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/danmalone/pagemeta/internal/content"
	"github.com/danmalone/pagemeta/internal/metadata"
)

const homeMDX = `---
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

# Simplifying technology
`

func writePage(t *testing.T, root, page, src string) {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(page))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.mdx"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestService(t *testing.T, root string, opts ...Option) *Service {
	t.Helper()
	m, err := metadata.NewMapper("https://dan-malone.com")
	if err != nil {
		t.Fatal(err)
	}
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return NewService(content.NewLoader(root, "index.mdx"), m, opts...)
}

func TestMetadata_DefaultsToHome(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "home", homeMDX)
	svc := newTestService(t, root)

	md, err := svc.Metadata(context.Background(), "")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if md.Title != "Dan Malone | Fractional CTO" {
		t.Fatalf("unexpected title: %q", md.Title)
	}
	if diff := cmp.Diff([]metadata.Author{{Name: "Dan Malone"}}, md.Authors); diff != "" {
		t.Fatalf("authors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"CTO", "technology"}, md.Keywords); diff != "" {
		t.Fatalf("keywords mismatch (-want +got):\n%s", diff)
	}
}

func TestMetadata_CustomDefaultPage(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "landing", homeMDX)
	svc := newTestService(t, root, WithDefaultPage("landing"))

	if _, err := svc.Metadata(context.Background(), ""); err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if svc.DefaultPage() != "landing" {
		t.Fatalf("unexpected default page: %q", svc.DefaultPage())
	}
}

func TestMetadata_MissingPageIsLoadError(t *testing.T) {
	svc := newTestService(t, t.TempDir())

	md, err := svc.Metadata(context.Background(), "missing-page")
	var le *content.LoadError
	if !errors.As(err, &le) || !content.IsNotFound(err) {
		t.Fatalf("expected not-found *content.LoadError, got %T: %v", err, err)
	}
	if md.Title != "" || md.Authors != nil {
		t.Fatalf("expected zero record on error, got %+v", md)
	}
}

func TestPageContent_KeepsBody(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "home", homeMDX)
	svc := newTestService(t, root)

	p, err := svc.PageContent(context.Background(), "home")
	if err != nil {
		t.Fatalf("PageContent: %v", err)
	}
	if p.ID != "home" || !strings.Contains(string(p.Body), "# Simplifying technology") {
		t.Fatalf("unexpected page: id=%q body=%q", p.ID, p.Body)
	}
	if p.Data.Author != "Dan Malone" {
		t.Fatalf("unexpected data: %+v", p.Data)
	}
}

func TestPageContent_ReadsFreshEachCall(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "home", homeMDX)
	svc := newTestService(t, root)

	if _, err := svc.Metadata(context.Background(), "home"); err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	writePage(t, root, "home", strings.Replace(homeMDX, `title: "Dan Malone | Fractional CTO"`, `title: "Updated"`, 1))

	md, err := svc.Metadata(context.Background(), "home")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if md.Title != "Updated" {
		t.Fatalf("expected fresh read, got title %q", md.Title)
	}
}

func TestMetadata_ConcurrentCalls(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "home", homeMDX)
	svc := newTestService(t, root)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			md, err := svc.Metadata(context.Background(), "home")
			if err == nil && md.Title != "Dan Malone | Fractional CTO" {
				err = errors.New("unexpected title " + md.Title)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Metadata: %v", err)
		}
	}
}

func TestCheck_ReportsEachPage(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "home", homeMDX)
	writePage(t, root, "about", strings.Replace(homeMDX, "locale: en_GB", "locale: not a locale!", 1))
	writePage(t, root, "blog/draft", "---\ntitle: Draft\n---\n")
	writePage(t, root, "broken", "no front matter\n")
	svc := newTestService(t, root)

	results, err := svc.Check(context.Background(), 2)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	var pages []string
	for _, r := range results {
		pages = append(pages, r.Page)
	}
	if diff := cmp.Diff([]string{"about", "blog/draft", "broken", "home"}, pages); diff != "" {
		t.Fatalf("pages mismatch (-want +got):\n%s", diff)
	}

	if !results[0].OK() || len(results[0].Warnings) != 1 {
		t.Fatalf("about: expected ok with one warning, got %+v", results[0])
	}
	var mfe *metadata.MissingFieldError
	if !errors.As(results[1].Err, &mfe) {
		t.Fatalf("blog/draft: expected MissingFieldError, got %v", results[1].Err)
	}
	var pe *content.ParseError
	if !errors.As(results[2].Err, &pe) {
		t.Fatalf("broken: expected ParseError, got %v", results[2].Err)
	}
	if !results[3].OK() || len(results[3].Warnings) != 0 {
		t.Fatalf("home: expected clean result, got %+v", results[3])
	}
}

func TestCheck_Cancelled(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "home", homeMDX)
	svc := newTestService(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Check(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
