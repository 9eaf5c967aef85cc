// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports development (console) and
// production (json) output and integrates with the Fiber web framework.
//
// # Context Awareness
//
// Two helpers scope a base logger:
//   - WithRayID extracts the RayID (request id) from a Fiber context so that all logs
//     of one HTTP request can be correlated.
//   - WithCycle attaches the sync source and cycle id so that all logs of one
//     reconciliation cycle can be correlated, whether it was triggered by HTTP, CLI or
//     the scheduler.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	l := logger.WithCycle(log, "animals", cycleID)
//	l.Warn("Partition failed", zap.Error(err))
package logger
