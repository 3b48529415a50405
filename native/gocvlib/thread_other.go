//go:build !linux

package gocvlib

// threadID returns a single slot on platforms without a thread id syscall
func threadID() int {
	return 0
}
