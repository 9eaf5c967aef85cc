package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"shelter-sync/core/database"
	"shelter-sync/core/lock"
	"shelter-sync/core/logger"
	"shelter-sync/core/notify"
	"shelter-sync/core/scheduler"
	"shelter-sync/core/server"
	"shelter-sync/core/storage"
	"shelter-sync/feature/animals"
	"shelter-sync/feature/events"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations owned by the packages that use them.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (crawl snapshots, reports).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Redis holds configuration for the cross-process cycle lock.
	Redis lock.Config `mapstructure:"redis"`
	// Kafka holds configuration for the change publisher.
	Kafka notify.Config `mapstructure:"kafka"`
	// Scheduler holds configuration for scheduled syncs.
	Scheduler scheduler.Config `mapstructure:"scheduler"`
	// Animals holds configuration for the registry sync.
	Animals animals.Config `mapstructure:"animals"`
	// Events holds configuration for the event sync.
	Events events.Config `mapstructure:"events"`
}

// LoadConfig loads configuration from environment variables and an optional .env file in path.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// A missing .env is normal in production.
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Register every key with its default so AutomaticEnv can resolve it.
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. ANIMALS_PAGE_SIZE -> animals.page_size)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate rejects settings that would only fail later, at the first scheduled cycle.
func (c *Config) Validate() error {
	var errs []error
	if c.Animals.PageSize < 1 || c.Animals.PageSize > 1000 {
		errs = append(errs, fmt.Errorf("animals.page_size must be between 1 and 1000, got %d", c.Animals.PageSize))
	}
	if c.Animals.Enabled && len(c.Animals.Partitions()) == 0 {
		errs = append(errs, errors.New("animals.partitions is empty"))
	}
	if c.Events.SnapshotRetention < 0 {
		errs = append(errs, errors.New("events.snapshot_retention must not be negative"))
	}
	if c.Scheduler.Enabled {
		if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("scheduler.timezone: %w", err))
		}
		for name, spec := range map[string]string{"animals.schedule": c.Animals.Schedule, "events.schedule": c.Events.Schedule} {
			if _, err := scheduler.Parse(spec); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
