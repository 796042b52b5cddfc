//go:build !unix

package netutil

func setReuseAddr(uintptr) error { return nil }
