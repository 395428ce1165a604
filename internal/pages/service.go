// Package pages runs the content pipeline for a page identifier:
// load the document, validate its front matter, map it to Metadata.
package pages

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danmalone/pagemeta/internal/content"
	"github.com/danmalone/pagemeta/internal/metadata"
)

// DefaultPage is used when a caller passes an empty identifier.
const DefaultPage = "home"

// Page is the full result of the pipeline for one identifier.
type Page struct {
	ID       string
	Metadata metadata.Metadata
	Data     metadata.PageData
	Body     []byte
}

// Service is stateless between calls: every call reads its file afresh and
// concurrent calls share nothing.
type Service struct {
	loader      *content.Loader
	mapper      *metadata.Mapper
	defaultPage string
	logger      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultPage overrides DefaultPage.
func WithDefaultPage(page string) Option {
	return func(s *Service) {
		if p := strings.TrimSpace(page); p != "" {
			s.defaultPage = p
		}
	}
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService wires a loader and mapper into a Service.
func NewService(loader *content.Loader, mapper *metadata.Mapper, opts ...Option) *Service {
	s := &Service{
		loader:      loader,
		mapper:      mapper,
		defaultPage: DefaultPage,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPage returns the identifier used for empty requests.
func (s *Service) DefaultPage() string { return s.defaultPage }

// Loader exposes the underlying loader.
func (s *Service) Loader() *content.Loader { return s.loader }

// PageContent loads, validates and maps the page. An empty identifier means
// the default page. Errors are *content.LoadError, *content.ParseError or
// *metadata.MissingFieldError and are never replaced by an empty record.
func (s *Service) PageContent(ctx context.Context, page string) (*Page, error) {
	if strings.TrimSpace(page) == "" {
		page = s.defaultPage
	}
	start := time.Now()

	doc, err := s.loader.Load(ctx, page)
	if err != nil {
		s.logger.Debug("page load failed", zap.String("page", page), zap.Error(err))
		return nil, err
	}
	md, data, err := s.mapper.MapDocument(doc)
	if err != nil {
		s.logger.Debug("page metadata invalid", zap.String("page", page), zap.String("path", doc.Path), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("page loaded",
		zap.String("page", doc.Page),
		zap.String("path", doc.Path),
		zap.String("format", string(doc.Format)),
		zap.Duration("elapsed", time.Since(start)))

	return &Page{ID: doc.Page, Metadata: md, Data: data, Body: doc.Body}, nil
}

// Metadata is the entry point used by the page shell: it returns only the
// normalized record for the page, or the default page when page is empty.
func (s *Service) Metadata(ctx context.Context, page string) (metadata.Metadata, error) {
	p, err := s.PageContent(ctx, page)
	if err != nil {
		return metadata.Metadata{}, err
	}
	return p.Metadata, nil
}
