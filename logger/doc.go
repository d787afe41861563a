// Package logger provides structured logging for the identity service
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. Credentials and token
// material must never be passed as field values.
package logger
