package lock

// Config holds configuration for the Redis-backed cycle lock.
type Config struct {
	// Enabled turns on the cross-process lock. When false, only in-process
	// single-flight applies.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Addr is the Redis address (host:port).
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis database index.
	DB int `mapstructure:"db" default:"0"`
	// KeyPrefix is prepended to every lock key.
	KeyPrefix string `mapstructure:"key_prefix" default:"shelter-sync:lock:"`
	// TTLSeconds is the lease length. The holder renews it every third of the TTL,
	// so it only bounds how long a crashed holder blocks other processes.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"60"`
}
