// Package events mirrors crawled pet fairs into the pet_event table.
//
// The crawler uploads one JSON snapshot per run to object storage. A sync reads the newest
// snapshot, identifies each event by a hash of title, url and location, and inserts or
// updates rows. Events are never deleted; a snapshot that cannot be read aborts the cycle
// before any write.
package events
