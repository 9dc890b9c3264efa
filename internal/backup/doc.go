// Package backup snapshots the files pkgselect is about to change.
//
// Each backup is a directory holding copies of the files plus a manifest
// with their SHA256 hashes:
//
//	<data home>/pkgselect/backups/
//	└── {scope}/
//	    └── {timestamp}-{suffix}/
//	        ├── manifest.json
//	        └── {copied files...}
//
// Scopes name the surface a file belongs to: [ScopeCatalog],
// [ScopeAlternatives] or [ScopeProfile].
//
// [Manager.Restore] verifies every hash before writing anything back, and
// returns [ErrBackupCorrupted] on mismatch. [Manager.Prune] keeps the newest
// backups of a scope. A [Hook] takes one backup per scope per process, just
// before the first mutation.
package backup
