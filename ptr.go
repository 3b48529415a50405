package cvdnn

import (
	"runtime"
	"sync"

	"github.com/swdee/go-cvdnn/native"
)

// Ptr holds a native cv::Ptr<T>, the reference counted smart pointer through
// which the native library owns algorithm objects.  Get dereferences it,
// Close deletes the smart pointer and with it the object it owns.
type Ptr struct {
	d   *DNN
	ptr native.Handle
	// op names used in NativeErrors
	getOp, deleteOp string
	get             func(native.Handle) (native.Handle, native.Status)
	del             func(native.Handle) native.Status
	// closed is a flag to indicate if the smart pointer has been deleted
	closed bool
	sync.Mutex
}

// Get returns the object pointer held by the smart pointer
func (p *Ptr) Get() (native.Handle, error) {

	p.Lock()
	ptr, closed := p.ptr, p.closed
	p.Unlock()

	if closed || ptr == 0 {
		return 0, ErrClosed
	}

	var obj native.Handle

	err := p.d.invoke(p.getOp, func() native.Status {
		var st native.Status
		obj, st = p.get(ptr)
		return st
	})

	runtime.KeepAlive(p)
	return obj, err
}

// Close deletes the smart pointer.  Calling Close more than once is a no-op.
func (p *Ptr) Close() error {

	if p == nil {
		return nil
	}

	p.Lock()
	defer p.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	ptr := p.ptr
	p.ptr = 0

	return p.d.invoke(p.deleteOp, func() native.Status {
		return p.del(ptr)
	})
}
