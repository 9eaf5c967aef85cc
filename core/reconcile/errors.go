package reconcile

import (
	"errors"
	"fmt"
)

// Kind classifies a reconciliation error and decides how far it propagates.
type Kind string

const (
	// KindTransport covers network failures, non-success statuses and timeouts.
	// It ends the current partition.
	KindTransport Kind = "transport"
	// KindDecode covers malformed upstream payloads. It ends the current partition.
	KindDecode Kind = "decode"
	// KindMapping covers a single record that cannot be mapped. Only that record is dropped.
	KindMapping Kind = "mapping"
	// KindStore covers a failed store operation. Only that operation is skipped.
	KindStore Kind = "store"
	// KindDrift covers pagination that contradicts the reported total.
	// It ends the current partition.
	KindDrift Kind = "drift"
)

// Error is the typed error produced inside a cycle.
type Error struct {
	Kind Kind
	// Op is the operation that failed (e.g. "fetch", "map", "upsert").
	Op string
	// Key identifies the partition, page or record involved, when known.
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Key, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind, operation and key.
func NewError(kind Kind, op, key string, err error) *Error {
	return &Error{Kind: kind, Op: op, Key: key, Err: err}
}

// MappingError reports a record that could not be mapped.
func MappingError(key string, err error) *Error {
	return NewError(KindMapping, "map", key, err)
}

// DecodeError reports a payload that could not be decoded.
func DecodeError(key string, err error) *Error {
	return NewError(KindDecode, "decode", key, err)
}

// TransportError reports a failed upstream call.
func TransportError(key string, err error) *Error {
	return NewError(KindTransport, "fetch", key, err)
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return ""
}

// IsRecordLocal reports whether err only affects a single record.
func IsRecordLocal(err error) bool {
	return KindOf(err) == KindMapping
}
