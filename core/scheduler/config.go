package scheduler

// Config holds configuration for the cron scheduler.
type Config struct {
	// Enabled starts scheduled syncs together with the server.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Timezone is the IANA zone used to evaluate cron expressions.
	Timezone string `mapstructure:"timezone" default:"Asia/Seoul"`
}
