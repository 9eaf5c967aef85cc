package notify

import "strings"

// Config holds configuration for the change publisher.
type Config struct {
	// Enabled turns on publishing of applied changes to Kafka.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Brokers is a comma-separated broker list.
	Brokers string `mapstructure:"brokers" default:"localhost:9092"`
	// Topic receives one message per applied change.
	Topic string `mapstructure:"topic" default:"shelter-sync.changes"`
}

// BrokerList splits Brokers and trims each entry.
func (c Config) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
