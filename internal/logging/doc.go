// Package logging provides structured logging for the lidator CLI using slog.
//
// Loggers write either colorized text for terminals or JSON. The engine
// packages accept any *slog.Logger; this package builds the one the CLI
// hands them.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Commands retrieve it again with [FromContext].
//
// # Testing
//
// [ForTest] routes log output through t.Log so it only shows for failing
// tests or under -v.
package logging
