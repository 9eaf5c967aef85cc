package reconcile

import (
	"context"
	"iter"
	"time"
)

// Store is the local persistence side of a reconciliation.
// Implementations must be safe for sequential use within one cycle; the engine never
// issues concurrent writes against the same store.
type Store[E any] interface {
	// FindByKey returns the stored entity for key. found is false when no row exists.
	FindByKey(ctx context.Context, key string) (entity E, found bool, err error)
	// Upsert inserts the entity or overwrites the row with the same key.
	Upsert(ctx context.Context, entity E) error
	// Delete removes the stored entity.
	Delete(ctx context.Context, entity E) error
	// ScanAll returns every stored entity. It is only called after all merge writes of a cycle.
	ScanAll(ctx context.Context) ([]E, error)
}

// Policy holds the entity-specific rules used by the engine.
type Policy[E any] interface {
	// Key returns the identity used for lookup and the seen set.
	Key(entity E) string
	// IsChanged reports whether incoming differs from stored on the tracked fields.
	// An absent incoming value never counts as a difference.
	IsChanged(stored, incoming E) bool
	// Merge returns stored overlaid with every present field of incoming.
	Merge(stored, incoming E) E
	// IsProtected reports whether a stored entity must survive the delete pass.
	IsProtected(stored E) bool
}

// Source yields the upstream records of one sync cycle.
type Source[E any] interface {
	// Name identifies the source in logs, metrics and reports (e.g. "animals").
	Name() string
	// Partitions returns the partitions to drain, in order.
	Partitions() []string
	// Records returns a lazy, single-use sequence for one partition.
	// Mapping errors are yielded and iteration continues. Any other error is yielded
	// once and ends the sequence.
	Records(ctx context.Context, partition string) iter.Seq2[E, error]
}

// Phase is the current stage of a cycle.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseFetching    Phase = "fetching"
	PhaseMerging     Phase = "merging"
	PhaseReconciling Phase = "reconciling"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
)

// Status is the outcome reported to a trigger.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// ChangeType describes a write applied to the store.
type ChangeType string

const (
	ChangeInserted ChangeType = "inserted"
	ChangeUpdated  ChangeType = "updated"
	ChangeDeleted  ChangeType = "deleted"
)

// Change is a single applied write, handed to the Notifier at the end of a cycle.
type Change struct {
	Source  string     `json:"source"`
	CycleID string     `json:"cycle_id"`
	Type    ChangeType `json:"type"`
	Key     string     `json:"key"`
	At      time.Time  `json:"at"`
}

// Notifier receives the changes of a finished cycle.
type Notifier interface {
	Notify(ctx context.Context, changes []Change) error
}

// Counters aggregates the per-record outcomes of a cycle.
type Counters struct {
	Seen          int `json:"seen"`
	Inserted      int `json:"inserted"`
	Updated       int `json:"updated"`
	Unchanged     int `json:"unchanged"`
	Deleted       int `json:"deleted"`
	Protected     int `json:"protected"`
	StoreErrors   int `json:"store_errors"`
	MappingErrors int `json:"mapping_errors"`
}

// PartitionResult describes how one partition was drained.
type PartitionResult struct {
	Name          string `json:"name"`
	Records       int    `json:"records"`
	MappingErrors int    `json:"mapping_errors"`
	Error         string `json:"error,omitempty"`
}

// Failed reports whether the partition ended before it was fully read.
func (p PartitionResult) Failed() bool {
	return p.Error != ""
}

// Result is returned by every trigger. Errors never cross the trigger boundary;
// they are folded into Status and Detail.
type Result struct {
	CycleID    string            `json:"cycle_id"`
	Source     string            `json:"source"`
	Status     Status            `json:"status"`
	Detail     string            `json:"detail"`
	Phase      Phase             `json:"phase"`
	DryRun     bool              `json:"dry_run"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Partitions []PartitionResult `json:"partitions"`
	Counters

	// ReconcileSkipped is set when the delete pass did not run.
	ReconcileSkipped bool   `json:"reconcile_skipped"`
	SkipReason       string `json:"skip_reason,omitempty"`
}

// OK reports whether the cycle finished successfully.
func (r *Result) OK() bool {
	return r != nil && r.Status == StatusOK
}

// Duration returns the wall time of the cycle.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
