// Package server serves rendered pages and their metadata over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/danmalone/pagemeta/internal/content"
	"github.com/danmalone/pagemeta/internal/pages"
	"github.com/danmalone/pagemeta/internal/render"
)

const htmlContentType = "text/html; charset=utf-8"

// Server is the HTTP page shell.
type Server struct {
	svc    *pages.Service
	logger *zap.Logger
	engine *gin.Engine
}

// New builds the gin engine and its routes. A nil logger disables logging.
func New(svc *pages.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: svc, logger: logger}

	r := gin.New()
	r.Use(s.requestLogger(), gin.Recovery())

	r.GET("/", s.handlePage)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/pages/*page", s.handlePage)

	api := r.Group("/api")
	{
		api.GET("/metadata", s.handleMetadata)
		api.GET("/metadata/*page", s.handleMetadata)
	}

	r.NoRoute(func(c *gin.Context) { s.failure(c, http.StatusNotFound) })

	s.engine = r
	return s
}

// Handler returns the engine as an http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handlePage(c *gin.Context) {
	page := pageParam(c)
	p, err := s.svc.PageContent(c.Request.Context(), page)
	if err != nil {
		s.failure(c, s.status(page, err))
		return
	}

	var buf bytes.Buffer
	if err := render.Page(&buf, p); err != nil {
		s.logger.Error("render failed", zap.String("page", p.ID), zap.Error(err))
		s.failure(c, http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, htmlContentType, buf.Bytes())
}

func (s *Server) handleMetadata(c *gin.Context) {
	page := pageParam(c)
	md, err := s.svc.Metadata(c.Request.Context(), page)
	if err != nil {
		status := s.status(page, err)
		c.JSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.JSON(http.StatusOK, md)
}

// status maps a pipeline error to a response code. Only a missing or
// unaddressable page is a 404; details stay in the log.
func (s *Server) status(page string, err error) int {
	if content.IsNotFound(err) || errors.Is(err, content.ErrInvalidPage) {
		s.logger.Debug("page not found", zap.String("page", page), zap.Error(err))
		return http.StatusNotFound
	}
	s.logger.Error("page failed", zap.String("page", page), zap.Error(err))
	return http.StatusInternalServerError
}

func (s *Server) failure(c *gin.Context, status int) {
	var buf bytes.Buffer
	if err := render.Failure(&buf, status); err != nil {
		s.logger.Error("render failure page", zap.Error(err))
		c.String(status, http.StatusText(status))
		return
	}
	c.Data(status, htmlContentType, buf.Bytes())
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

// pageParam returns the wildcard identifier; empty means the default page.
func pageParam(c *gin.Context) string {
	return strings.Trim(c.Param("page"), "/")
}
