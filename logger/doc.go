// Package logger provides structured logging for xhrkit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("xhr")
//	log.Debug("request settled", logger.Fields("status", 200))
package logger
