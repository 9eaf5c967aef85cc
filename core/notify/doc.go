// Package notify publishes the changes applied by a sync cycle to Kafka so that
// downstream consumers can react to inserted, updated and deleted records.
package notify
