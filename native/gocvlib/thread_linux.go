package gocvlib

import "golang.org/x/sys/unix"

// threadID identifies the calling OS thread, callers pin their goroutine
// with runtime.LockOSThread around a call and its LastError
func threadID() int {
	return unix.Gettid()
}
