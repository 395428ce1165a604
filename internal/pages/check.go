package pages

import (
	"context"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danmalone/pagemeta/internal/metadata"
)

// CheckResult is the outcome of running the pipeline for one page.
type CheckResult struct {
	Page     string
	Err      error
	Warnings []metadata.Warning
}

// OK reports whether the page produced metadata.
func (r CheckResult) OK() bool { return r.Err == nil }

// Check runs the pipeline for every discovered page, at most limit at a time
// (limit <= 0 means GOMAXPROCS). Per-page failures are reported in the
// results; the returned error is only for discovery or cancellation.
func (s *Service) Check(ctx context.Context, limit int) ([]CheckResult, error) {
	ids, err := s.loader.Discover(ctx)
	if err != nil {
		return nil, err
	}
	return s.CheckPages(ctx, ids, limit)
}

// CheckPages is Check over an explicit list of identifiers.
func (s *Service) CheckPages(ctx context.Context, ids []string, limit int) ([]CheckResult, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]CheckResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := CheckResult{Page: id}
			p, err := s.PageContent(gctx, id)
			if err != nil {
				res.Err = err
			} else {
				res.Warnings = metadata.Lint(p.Data)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Page < results[j].Page })

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	s.logger.Info("pages checked", zap.Int("pages", len(results)), zap.Int("failed", failed))
	return results, nil
}
