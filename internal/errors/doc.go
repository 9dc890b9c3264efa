// Package errors provides error handling conventions for the pkgselect CLI.
//
// It re-exports the constructors of github.com/cockroachdb/errors so callers
// need a single import, and adds an ExitError type that carries a process
// exit code and an optional suggestion.
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, registry, permissions)
//
// # ExitError
//
//	err := errors.NewUserError(errors.ErrInvalidConfig, "Run: pkgselect validate")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
