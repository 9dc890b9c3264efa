// Package winreg registers alias directories through the per-user
// environment in the Windows registry.
//
// The directories live in the REG_EXPAND_SZ value Package_Select_Path under
// HKCU\Environment, joined with semicolons. The user's Path value carries a
// single %Package_Select_Path% token so that the set expands into PATH for
// new processes.
package winreg
