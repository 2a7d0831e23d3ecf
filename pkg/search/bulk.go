package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/time/rate"
)

type bulkOptions struct {
	perSecond float64
}

// BulkOption configures a bulk ingestion run.
type BulkOption func(*bulkOptions)

// WithRateLimit throttles bulk ingestion to roughly perSecond documents
// per second. Zero or negative disables throttling.
func WithRateLimit(perSecond float64) BulkOption {
	return func(o *bulkOptions) { o.perSecond = perSecond }
}

// IndexDir indexes every regular file directly under dir, in name order.
// slug maps a file name to the document slug; when nil the file name is
// used as-is. Returns the number of documents indexed. The context is
// checked between documents, so a cancelled ingestion stops at a document
// boundary with everything before it fully indexed.
func (e *Engine) IndexDir(ctx context.Context, dir string, slug func(name string) string, opts ...BulkOption) (int, error) {
	var o bulkOptions
	for _, opt := range opts {
		opt(&o)
	}
	var limiter *rate.Limiter
	if o.perSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(o.perSecond), 1)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("search: read directory %q: %w", dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return count, err
			}
		}

		name := entry.Name()
		docSlug := name
		if slug != nil {
			docSlug = slug(name)
		}
		if _, err := e.IndexFile(ctx, filepath.Join(dir, name), docSlug); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
