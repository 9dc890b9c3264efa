// Package runner resolves which package serves an alias invocation and
// executes it.
//
// In runner mode every alias on disk points at the same runner binary. The
// runner recovers the alias from its own invocation path, finds the category
// whose binder owns it, and picks a package by the working directory:
//
//   - the package with the longest included path containing the working
//     directory wins;
//   - packages with an excluded path containing it are skipped;
//   - otherwise the category default is used.
//
// The child inherits stdio and the process environment, overlaid with the
// package's envs, and its exit code becomes the runner's.
package runner
