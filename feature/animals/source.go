package animals

import (
	"context"
	"iter"

	"shelter-sync/core/reconcile"
)

// SourceName labels the registry in logs, metrics and reports.
const SourceName = "animals"

// Source drains the registry partition by partition.
type Source struct {
	pager      *reconcile.Pager[Record]
	partitions []string
}

// NewSource creates a Source over pager.
func NewSource(pager *reconcile.Pager[Record], partitions []string) *Source {
	return &Source{pager: pager, partitions: partitions}
}

// Name returns "animals".
func (s *Source) Name() string {
	return SourceName
}

// Partitions returns the registry states in drain order.
func (s *Source) Partitions() []string {
	return s.partitions
}

// Records yields mapped animals of one partition.
func (s *Source) Records(ctx context.Context, partition string) iter.Seq2[*Animal, error] {
	return reconcile.Map(s.pager.Records(ctx, partition), MapRecord)
}
