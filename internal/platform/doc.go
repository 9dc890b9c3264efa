// Package platform decides, at runtime, which registration mechanisms fit
// the current machine.
//
// Two choices are made:
//
//   - the binder strategy: symlinks on Linux, byte-identical copies elsewhere;
//   - the path backend: the alternatives database on Linux systems that have
//     one, the user registry environment on Windows, and shell profile
//     injection everywhere else.
//
// Both can be forced through settings; "auto" defers to detection.
//
//	res := platform.Detect(platform.Options{GOOS: runtime.GOOS, AdminDir: dir})
//	fmt.Println(res.Strategy, res.Backend)
package platform
