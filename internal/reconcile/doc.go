// Package reconcile brings aliases and PATH registrations in line with the
// package catalog.
//
// An [Engine] combines a binder registry, a path backend and the catalog
// store. Sync and Desync act on the whole catalog or one category;
// Validate reports structural and registration problems; Commit diffs a
// staged catalog against the persisted one and applies only the
// difference; Purge removes everything pkgselect ever registered.
package reconcile
