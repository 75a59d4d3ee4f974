// Package version reports build information for the --version flag and the
// startup log line.
//
// Version and commit are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/logpipe/version.Version=1.2.0" ./cmd/logpipe
//
// Missing values are filled from the VCS stamp embedded by the Go toolchain.
package version
