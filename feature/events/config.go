package events

// Config holds configuration for the crawled pet-event sync.
type Config struct {
	// Enabled registers the routes and the scheduled job.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// SnapshotPrefix is where the crawler drops its JSON snapshots in the storage bucket.
	SnapshotPrefix string `mapstructure:"snapshot_prefix" default:"crawl/pet-events/"`
	// SnapshotRetention is how many snapshots are kept after a successful sync. 0 keeps all.
	SnapshotRetention int `mapstructure:"snapshot_retention" default:"14"`
	// Schedule is a six-field cron expression.
	Schedule string `mapstructure:"schedule" default:"0 0 9 * * *"`
}
