package cvdnn

import (
	"runtime"

	"github.com/swdee/go-cvdnn/native"
)

// DNN binds the façade to a native library.  A DNN holds no mutable state
// and may be shared between goroutines, the wrappers it returns may not.
type DNN struct {
	// lib is the native library every call is issued to
	lib native.Library
	// log receives diagnostics about failed native calls
	log *Logger
}

// Option configures a DNN
type Option func(*DNN)

// WithLogger sets the logger used for diagnostics
func WithLogger(l *Logger) Option {
	return func(d *DNN) {
		if l != nil {
			d.log = l
		}
	}
}

// New returns a DNN issuing calls to lib.  A nil lib selects the default
// backend of this build.
func New(lib native.Library, opts ...Option) *DNN {

	if lib == nil {
		lib = defaultLibrary()
	}

	d := &DNN{
		lib: lib,
		log: NewLogger(nil),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// std is the DNN used by the package level functions
var std = New(nil)

// Default returns the DNN used by the package level functions
func Default() *DNN {
	return std
}

// Library returns the native library calls are issued to
func (d *DNN) Library() native.Library {
	return d.lib
}

// invoke runs a single native call and converts a pending native exception
// into a NativeError.  The goroutine is pinned to its OS thread until the
// diagnostic has been fetched as the native error slot is thread local.
func (d *DNN) invoke(op string, call func() native.Status) error {

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	status := call()

	if status == native.StatusOK {
		return nil
	}

	err := &NativeError{
		Op:      op,
		Status:  status,
		Message: d.lib.LastError(),
	}

	d.log.withOp(op).Debug("native call failed", "status", int(status),
		"error", err.Message)

	return err
}
