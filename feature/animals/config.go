package animals

import (
	"strings"
	"time"
)

// Config holds configuration for the abandoned-animal registry sync.
type Config struct {
	// Enabled registers the routes and the scheduled job.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// BaseURL is the registry endpoint.
	BaseURL string `mapstructure:"base_url" default:"https://apis.data.go.kr/1543061/abandonmentPublicService_v2/abandonmentPublic_v2"`
	// ServiceKey is the data.go.kr key. An already URL-encoded key is sent as is.
	ServiceKey string `mapstructure:"service_key" default:""`
	// PartitionList is the comma-separated list of registry states to drain, in order.
	PartitionList string `mapstructure:"partitions" default:"protect,notice"`
	// PageSize is numOfRows per request.
	PageSize int `mapstructure:"page_size" default:"500"`
	// MaxPages caps pages per partition.
	MaxPages int `mapstructure:"max_pages" default:"400"`
	// PageTimeoutSeconds bounds a single page request.
	PageTimeoutSeconds int `mapstructure:"page_timeout_seconds" default:"30"`
	// ProtectedState is the process_state value that is never deleted.
	ProtectedState string `mapstructure:"protected_state" default:"보호중"`
	// Schedule is a six-field cron expression.
	Schedule string `mapstructure:"schedule" default:"0 0 6-18 * * *"`
	// DeleteAbsent enables the delete pass.
	DeleteAbsent bool `mapstructure:"delete_absent" default:"true"`
	// AllowEmptySweep lets the delete pass run when upstream reports no records.
	AllowEmptySweep bool `mapstructure:"allow_empty_sweep" default:"false"`
	// PartitionConcurrency is the number of partitions fetched at once.
	PartitionConcurrency int `mapstructure:"partition_concurrency" default:"1"`
}

// Partitions returns the configured partitions.
func (c Config) Partitions() []string {
	var out []string
	for _, p := range strings.Split(c.PartitionList, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PageTimeout returns the per-page timeout.
func (c Config) PageTimeout() time.Duration {
	return time.Duration(c.PageTimeoutSeconds) * time.Second
}
