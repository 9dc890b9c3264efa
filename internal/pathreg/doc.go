// Package pathreg exposes aliases on the user's PATH.
//
// A [Backend] registers aliases with one of three mechanisms, chosen per
// platform: the alternatives link-group database (Linux), the
// Package_Select_Path registry value (Windows), or a sourced shell env file
// (other POSIX systems). Backends differ in granularity. The alternatives
// backend tracks each alias file, the others track each alias directory;
// [Backend.Key] reports the unit so callers can deduplicate.
package pathreg
