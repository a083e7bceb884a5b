// Package logger provides structured logging for shellkit using zerolog.
//
// Logs go to stderr by default: stdout belongs to the data a script prints.
// Each shellkit package logs through a component-scoped logger, and tasks
// started with guard.Fork tag their log lines with a task id carried in the
// context.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("shell")
//	log.Debug("drive finished", logger.Fields(logger.FieldOperation, "lstree"))
package logger
