package reconcile

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"shelter-sync/core/metrics"

	"go.uber.org/zap"
)

const (
	// DefaultPageSize matches the upstream registry's maximum rows per request.
	DefaultPageSize = 500
	// DefaultPageTimeout bounds a single page request.
	DefaultPageTimeout = 30 * time.Second
)

// Page is one response of a paginated source.
type Page[R any] struct {
	Records    []R
	TotalCount int
}

// PageFunc fetches one page. pageNo is 1-based.
type PageFunc[R any] func(ctx context.Context, partition string, pageNo, pageSize int) (Page[R], error)

// PagerConfig tunes a Pager.
type PagerConfig struct {
	// Source labels metrics and logs.
	Source string
	// PageSize is the number of records requested per page. Must be positive.
	PageSize int
	// MaxPages caps the number of pages per partition. Zero means no cap.
	MaxPages int
	// PageTimeout bounds every page request.
	PageTimeout time.Duration
}

// Pager turns a PageFunc into a lazy record sequence per partition.
//
// The total reported by the first page is authoritative for the whole partition:
// iteration stops once pageNo*pageSize reaches it. Later pages reporting another total
// are logged and counted but do not move the end.
type Pager[R any] struct {
	fetch  PageFunc[R]
	cfg    PagerConfig
	logger *zap.Logger
}

// NewPager creates a Pager. Non-positive sizes fall back to the defaults.
func NewPager[R any](fetch PageFunc[R], cfg PagerConfig, logger *zap.Logger) *Pager[R] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.PageTimeout <= 0 {
		cfg.PageTimeout = DefaultPageTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pager[R]{fetch: fetch, cfg: cfg, logger: logger}
}

// Records returns the records of one partition in page order.
// A transport, decode or drift error is yielded once and ends the sequence.
func (p *Pager[R]) Records(ctx context.Context, partition string) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		var zero R
		size := p.cfg.PageSize
		total := -1

		for pageNo := 1; ; pageNo++ {
			if p.cfg.MaxPages > 0 && pageNo > p.cfg.MaxPages {
				metrics.RecordDrift(p.cfg.Source, partition, "page_cap")
				yield(zero, NewError(KindDrift, "fetch", partition,
					fmt.Errorf("page cap %d reached before total %d", p.cfg.MaxPages, total)))
				return
			}

			page, err := p.fetchPage(ctx, partition, pageNo)
			if err != nil {
				yield(zero, err)
				return
			}

			if total < 0 {
				total = page.TotalCount
			} else if page.TotalCount != total {
				p.logger.Warn("Total count changed mid-sweep",
					zap.String("partition", partition),
					zap.Int("page", pageNo),
					zap.Int("first_total", total),
					zap.Int("page_total", page.TotalCount))
				metrics.RecordDrift(p.cfg.Source, partition, "total_changed")
			}

			if pageNo == 1 && len(page.Records) > total {
				metrics.RecordDrift(p.cfg.Source, partition, "total_exceeded")
				yield(zero, NewError(KindDrift, "fetch", fmt.Sprintf("%s#%d", partition, pageNo),
					fmt.Errorf("first page has %d records but reported total is %d", len(page.Records), total)))
				return
			}

			if len(page.Records) == 0 && (pageNo-1)*size < total {
				metrics.RecordDrift(p.cfg.Source, partition, "empty_page")
				yield(zero, NewError(KindDrift, "fetch", fmt.Sprintf("%s#%d", partition, pageNo),
					fmt.Errorf("empty page before reported total %d", total)))
				return
			}

			for _, r := range page.Records {
				if !yield(r, nil) {
					return
				}
			}

			if pageNo*size >= total {
				return
			}
		}
	}
}

func (p *Pager[R]) fetchPage(ctx context.Context, partition string, pageNo int) (Page[R], error) {
	key := fmt.Sprintf("%s#%d", partition, pageNo)
	if err := ctx.Err(); err != nil {
		return Page[R]{}, TransportError(key, err)
	}

	pctx, cancel := context.WithTimeout(ctx, p.cfg.PageTimeout)
	defer cancel()

	start := time.Now()
	page, err := p.fetch(pctx, partition, pageNo, p.cfg.PageSize)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordPage(p.cfg.Source, partition, "error", elapsed.Seconds())
		var rerr *Error
		if errors.As(err, &rerr) {
			return Page[R]{}, err
		}
		return Page[R]{}, TransportError(key, err)
	}

	metrics.RecordPage(p.cfg.Source, partition, "ok", elapsed.Seconds())
	p.logger.Debug("Fetched page",
		zap.String("partition", partition),
		zap.Int("page", pageNo),
		zap.Int("records", len(page.Records)),
		zap.Int("total", page.TotalCount),
		zap.Duration("took", elapsed))
	return page, nil
}

// Map adapts a raw record sequence into an entity sequence.
// A mapping failure is yielded as a KindMapping error and iteration continues.
func Map[R, E any](seq iter.Seq2[R, error], fn func(R) (E, error)) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		var zero E
		for raw, err := range seq {
			if err != nil {
				if !yield(zero, err) {
					return
				}
				continue
			}
			entity, err := fn(raw)
			if err != nil {
				if KindOf(err) == "" {
					err = MappingError("", err)
				}
				if !yield(zero, err) {
					return
				}
				continue
			}
			if !yield(entity, nil) {
				return
			}
		}
	}
}
