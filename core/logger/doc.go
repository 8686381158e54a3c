// Package logger provides a structured logging facility based on Zap.
//
// Development (debug) and production configurations are supported, encoded as
// json or console output.
//
// # Correlation
//
// Every match carries an identifier. WithMatchID attaches it to a logger so
// that the entries of one match, including its query attempts, can be grouped.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Matcher ready")
//
//	l := logger.WithMatchID(log, m.ID())
//	l.Error("Match failed", zap.Error(err))
package logger
