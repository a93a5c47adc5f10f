// Package logger provides a structured logging interface for the review collector.
//
// It wraps zerolog with a small field-oriented API. There is no package-level
// logger: the command builds one from config.LoggingConfig and hands it to the
// collector, client and flattener.
//
//	log, err := logger.New(&cfg.Logging)
//	if err != nil {
//	    return err
//	}
//	log.WithField("app_id", 1091500).Info("collector starting")
//	log.ErrorWithFields("page fetch failed", map[string]interface{}{
//	    "cursor": cursor,
//	})
//
// Output format is chosen by LoggingConfig.Format: "console" for colored
// human-readable lines, "json" for JSON lines, "auto" to pick console only when
// stdout is a terminal. When File is set, JSON lines are appended there as well.
//
// Tests use NewTestLogger to capture messages or NewNopLogger to discard them.
package logger
