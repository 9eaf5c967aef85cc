// Package scheduler runs named jobs on cron expressions with a seconds field,
// evaluated in a configured time zone.
//
// It wraps a robfig/cron runner with the Start/Stop/IsRunning lifecycle used by the
// rest of the service. Jobs receive a context that is cancelled when the scheduler
// stops, and Stop waits for running jobs to return.
package scheduler
