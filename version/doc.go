// Package version reports the library build, stamped through ldflags or read
// from the binary's VCS information.
package version
