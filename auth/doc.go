// Package auth implements the authentication core: account registration,
// password login, token refresh, and bearer-token authentication for
// protected requests.
//
// The package orchestrates the user store, the password hasher, and the
// token service, and converts every failure into a typed application
// error. Login and gate failures are
// deliberately coarse so callers cannot distinguish a missing account
// from a wrong password, or a forged token from a truncated one.
package auth
