// Package config provides configuration management for the sync service.
//
// It uses Viper to read environment variables, optionally seeded from a .env file
// through godotenv. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, shutdown budget
//   - Database: MySQL or SQLite connection
//   - Storage: S3/MinIO credentials, bucket and prefixes
//   - Log: level and format
//   - Redis: optional cross-process cycle lock
//   - Kafka: optional change publisher
//   - Scheduler: enable flag and time zone
//   - Animals / Events: upstream endpoints, paging, schedules and reconciliation options
//
// Environment keys are the upper-cased dotted path with dots replaced by underscores,
// e.g. ANIMALS_SERVICE_KEY or SCHEDULER_TIMEZONE.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Animals.PageSize)
package config
