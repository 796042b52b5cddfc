// Package version reports the asynchttp build identity. Version and
// GitCommit can be stamped at link time:
//
//	go build -ldflags "-X github.com/kbukum/asynchttp/version.Version=1.2.0"
//
// Otherwise the VCS settings recorded by the Go toolchain are used.
package version
