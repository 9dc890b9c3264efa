// Package paths resolves the directories pkgselect reads and writes.
//
// XDG base directories come from github.com/adrg/xdg. When the tool runs
// under sudo on Linux, the invoking user's home (/home/$SUDO_USER) is used
// instead of root's so that the package catalog and shell profiles belong to
// the user who asked for the change.
//
//	| Item            | Location                                  |
//	|-----------------|-------------------------------------------|
//	| tool settings   | <config home>/pkgselect/config.yaml       |
//	| package catalog | <config home>/pkgselect/packages.json     |
//	| staged edits    | <config home>/pkgselect/packages.staged.json |
//	| backups         | <data home>/pkgselect/backups/            |
package paths
