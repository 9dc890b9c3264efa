// Package logging provides structured logging for pkgselect on top of log/slog.
//
// Two output formats are supported: a colourised, TTY-aware text handler and
// the standard JSON handler. [MultiHandler] fans records out to several
// handlers, which backs the --log-file flag.
//
// Verbosity counts from the CLI map to levels through [LevelFromVerbosity]:
// 0 is warn, 1 info, 2 debug and 3 or more [LevelTrace].
//
// Engine code pulls its logger from the context:
//
//	log := logging.FromContext(ctx)
//	log.Info("registered binder", "alias", alias)
//
// Tests use [ForTest] so log output lands in the test log.
package logging
