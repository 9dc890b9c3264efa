// Package binder maintains aliases: the indirection points placed at
// execution_path/target_name that resolve to either the shared runner or
// the real executable.
//
// Two backends exist. [Symlink] makes the alias a symbolic link and is the
// default on Linux. [Copy] makes the alias a byte-identical copy of its
// source and is used everywhere else. Neither caches state; every call
// inspects the filesystem.
package binder
