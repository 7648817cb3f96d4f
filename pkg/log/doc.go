// Package log provides the structured logger used by the eip712 tooling.
//
// Loggers are passed explicitly or carried in a context:
//
//	logger := log.NewZapLogger(log.Config{Format: "logfmt", Level: log.LevelDebug})
//	ctx = log.SetContextLogger(ctx, logger.WithName("sign"))
//	log.FromContext(ctx).Info("typed data signed", "primaryType", "Mail")
//
// Config is read from LOG_FORMAT (console, logfmt, json), LOG_LEVEL
// (debug, info, warn, error, fatal) and LOG_OUTPUT (stderr, stdout or a file
// path). Tests use NewNoopLogger.
package log
