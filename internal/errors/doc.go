// Package errors provides error handling conventions for the lidator CLI.
//
// It re-exports the [github.com/cockroachdb/errors] constructors used across
// the command tree, defines sentinel errors for common failure conditions, and
// an ExitError type that carries the process exit code.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, errors.ErrUnsupportedFormat) {
//	    // handle unknown document extension
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): the command completed and the document is valid
//   - ExitUser (1): invalid input, flags or configuration
//   - ExitSystem (2): I/O or other system failures
//   - ExitInvalid (3): the validation ran and reported errors
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := errors.NewUserError(errors.ErrInvalidRuleSet, "Run: lidator rules check")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
