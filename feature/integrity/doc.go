// Package integrity provides health checks for the storage bucket and the mirrored tables.
//
// # Checks Provided
//
//   - Storage: Checks that the required prefixes (crawl snapshots, cycle reports) exist in the bucket.
//   - Snapshot: Reports the newest crawl snapshot and whether it is older than allowed.
//   - Schema: Validates that abandoned_animals and pet_event match their gorm models (columns, types, NOT NULL).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/storage : Runs storage and snapshot checks (supports ?fix=true).
//   - GET /integrity/schema : Runs schema check.
package integrity
