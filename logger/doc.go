// Package logger provides structured logging for chatalign built on zerolog.
//
// Components obtain a named logger through the registry:
//
//	log := logger.Get("reconcile")
//	log.Info("segments reconciled", logger.Fields("missing", 3))
//
// The global logger is configured once at startup via Init.
package logger
