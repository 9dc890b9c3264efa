// Package config manages the pkgselect tool settings using Viper.
//
// Tool settings are distinct from the package catalog (see pkgconfig): they
// choose how registrations are made, not what is registered. The file lives
// at <config home>/pkgselect/config.yaml:
//
//	binder:
//	  mode: runner        # runner | direct
//	  strategy: auto      # auto | symlink | copy
//	  runner: ""          # defaults to pkgselect-runner next to the binary
//	catalog:
//	  path: ""            # defaults to <config home>/pkgselect/packages.json
//	path:
//	  backend: auto       # auto | alternatives | registry | profile
//	alternatives:
//	  bin_dir: /usr/bin
//	  link_dir: /etc/alternatives
//	  admin_dir: /var/lib/dpkg/alternatives
//	profile:
//	  home: ""            # defaults to the invoking user's home
//	  env_file: .package-select-env
//	backup:
//	  enabled: true
//	  retention: 5
//
// Every key can be overridden from the environment with the PKGSELECT_
// prefix, e.g. PKGSELECT_PATH_BACKEND=profile.
package config
