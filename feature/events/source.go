package events

import (
	"context"
	"iter"
	"time"

	"shelter-sync/core/metrics"
	"shelter-sync/core/reconcile"
)

const (
	// SourceName labels the crawl in logs, metrics and reports.
	SourceName = "events"
	// Partition is the single partition of the crawl source.
	Partition = "crawl"
)

// Source yields the events of the newest crawl snapshot.
type Source struct {
	crawler *Crawler
	timeout time.Duration
}

// NewSource creates a Source. timeout bounds loading one snapshot.
func NewSource(crawler *Crawler, timeout time.Duration) *Source {
	if timeout <= 0 {
		timeout = reconcile.DefaultPageTimeout
	}
	return &Source{crawler: crawler, timeout: timeout}
}

// Name returns "events".
func (s *Source) Name() string {
	return SourceName
}

// Partitions returns the single crawl partition.
func (s *Source) Partitions() []string {
	return []string{Partition}
}

// Records yields mapped events of the newest snapshot.
func (s *Source) Records(ctx context.Context, _ string) iter.Seq2[*PetEvent, error] {
	raw := func(yield func(Record, error) bool) {
		lctx, cancel := context.WithTimeout(ctx, s.timeout)
		start := time.Now()
		snap, err := s.crawler.Latest(lctx)
		cancel()

		if err != nil {
			metrics.RecordPage(SourceName, Partition, "error", time.Since(start).Seconds())
			yield(nil, err)
			return
		}
		metrics.RecordPage(SourceName, Partition, "ok", time.Since(start).Seconds())

		for _, r := range snap.Records {
			if !yield(r, nil) {
				return
			}
		}
	}
	return reconcile.Map(raw, MapRecord)
}
