// Package profile registers alias directories through a shell env file.
//
// Each registered directory is one line of the env file:
//
//	export PATH="$PATH:/opt/select/ed"
//
// The common login and interactive shell profiles (.zshenv, .profile,
// .bash_profile, .bashrc) each source the env file once. New shells pick up
// the change; running ones do not.
package profile
