// Package alternatives registers aliases as members of alternatives link
// groups, the mechanism Debian-style systems use to pick one of several
// providers for a command name.
//
// State lives in the admin directory, one file per group in the dpkg
// format. The [Linker] maintains the two-hop chain
// bin_dir/F -> link_dir/F -> best alternative. A [Backend] owns its
// [AltConfig] and persists each change before touching links.
package alternatives
