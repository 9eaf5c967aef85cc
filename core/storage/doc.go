// Package storage wraps minio-go for the S3 compatible bucket that holds crawl
// snapshots and archived cycle reports.
//
// Client is the narrow interface the rest of the module depends on; mocks.Client
// implements it for tests. ListAll drains a listing and surfaces its error, and
// EnsureBucket creates the bucket on first start.
package storage
