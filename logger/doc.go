// Package logger provides structured logging for asynchttp using zerolog.
//
// It supports JSON and console output, per-instance log levels, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("client")
//	log.Info("attempt finished", logger.Fields("attempt_id", id, "status", 200))
package logger
