// Package render writes the HTML page shell: head tags built from a
// normalized metadata record, the Markdown body, and generic failure pages.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/language"

	"github.com/danmalone/pagemeta/internal/metadata"
	"github.com/danmalone/pagemeta/internal/pages"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"join":   strings.Join,
	"abs":    absURL,
	"robots": robotsContent,
}).ParseFS(templateFS, "templates/*.html"))

// Raw HTML in page bodies is dropped; only Markdown is rendered.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

type pageView struct {
	Lang     string
	Metadata metadata.Metadata
	Body     template.HTML
}

type failureView struct {
	Status  int
	Text    string
	Message string
}

// Head writes the document head tags for md.
func Head(w io.Writer, md metadata.Metadata) error {
	return templates.ExecuteTemplate(w, "head", md)
}

// Page writes a complete HTML document for p. The output is buffered so a
// failure leaves w untouched.
func Page(w io.Writer, p *pages.Page) error {
	body, err := Markdown(p.Body)
	if err != nil {
		return err
	}
	view := pageView{
		Lang:     htmlLang(p.Metadata.OpenGraph.Locale),
		Metadata: p.Metadata,
		Body:     body,
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "page", view); err != nil {
		return fmt.Errorf("cannot render page %q: %w", p.ID, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Markdown converts a page body to HTML.
func Markdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("cannot render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Failure writes the generic page shown for status. It never includes the
// underlying error.
func Failure(w io.Writer, status int) error {
	msg := "Something went wrong. Please try again later."
	if status == http.StatusNotFound {
		msg = "This page could not be found."
	}
	return templates.ExecuteTemplate(w, "failure", failureView{
		Status:  status,
		Text:    http.StatusText(status),
		Message: msg,
	})
}

// absURL resolves ref against base the way the page shell's metadataBase
// does. Unparseable input is returned unchanged.
func absURL(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil || ref == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func robotsContent(r metadata.RobotsMetadata) string {
	index, follow := "noindex", "nofollow"
	if r.Index {
		index = "index"
	}
	if r.Follow {
		follow = "follow"
	}
	return index + ", " + follow
}

// htmlLang turns an Open Graph locale (en_GB) into a BCP 47 tag (en-GB).
func htmlLang(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "en"
	}
	return tag.String()
}
