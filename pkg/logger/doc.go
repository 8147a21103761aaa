// Package logger builds configured *slog.Logger instances.
//
// It provides a small factory over the standard library's log/slog with
// JSON and text output formats, level selection, and static attributes
// attached to every record. JSON with INFO level is the default so that
// production output is aggregation-friendly out of the box.
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithAttr(slog.String("service", "billing")),
//	)
package logger
