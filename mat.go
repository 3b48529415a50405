package cvdnn

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"sync"

	"github.com/swdee/go-cvdnn/internal/layout"
	"github.com/swdee/go-cvdnn/native"
	"github.com/x448/float16"
	"gocv.io/x/gocv"
)

// depth values of the OpenCV element types read back by Float32s
const (
	depthMask  gocv.MatType = 7
	depthCV32F gocv.MatType = 5
	depthCV16F gocv.MatType = 7
	depthCV8U  gocv.MatType = 0
)

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// Mat is a native n-dimensional matrix, typically a 4D blob of shape
// (batch, channel, height, width).  It must be closed when no longer needed.
type Mat struct {
	d *DNN
	h native.Handle
	// closed is a flag to indicate if the native Mat has been released
	closed bool
	// mutex to lock access to closed
	sync.Mutex
}

// newMat wraps a handle returned by a successful native call
func (d *DNN) newMat(h native.Handle) *Mat {
	return &Mat{d: d, h: h}
}

// FromGocv makes a gocv.Mat usable as a native image argument.  The
// returned Mat borrows m, closing it releases only the binding's reference
// and m must stay open until then.
func (d *DNN) FromGocv(m gocv.Mat) (*Mat, error) {

	if m.Ptr() == nil {
		return nil, nilArg("m")
	}

	var h native.Handle

	err := d.invoke("core_Mat_import", func() native.Status {
		var st native.Status
		h, st = d.lib.MatImport(m)
		return st
	})

	if err != nil {
		return nil, err
	}

	return d.wrapMat("core_Mat_import", h)
}

// wrapMat wraps a handle returned by a successful native call.  A call
// that succeeds without producing a matrix is reported as a NativeError.
func (d *DNN) wrapMat(op string, h native.Handle) (*Mat, error) {

	if h == 0 {
		return nil, &NativeError{Op: op, Status: native.StatusException,
			Message: "native library returned no matrix"}
	}

	return d.newMat(h), nil
}

// FromGocv makes a gocv.Mat usable as a native image argument using the
// default DNN
func FromGocv(m gocv.Mat) (*Mat, error) {
	return std.FromGocv(m)
}

// handle returns the native handle or ErrClosed
func (m *Mat) handle() (native.Handle, error) {

	if m == nil {
		return 0, ErrClosed
	}

	m.Lock()
	defer m.Unlock()

	if m.closed || m.h == 0 {
		return 0, ErrClosed
	}

	return m.h, nil
}

// Close releases the native Mat.  Calling Close more than once is a no-op.
func (m *Mat) Close() error {

	if m == nil {
		return nil
	}

	m.Lock()
	defer m.Unlock()

	if m.closed {
		// native memory already released
		return nil
	}

	m.closed = true
	h := m.h
	m.h = 0

	if h == 0 {
		return nil
	}

	return m.d.invoke("core_Mat_delete", func() native.Status {
		return m.d.lib.MatDelete(h)
	})
}

// Dims returns the size of each dimension
func (m *Mat) Dims() ([]int, error) {

	h, err := m.handle()

	if err != nil {
		return nil, err
	}

	var dims []int

	err = m.d.invoke("core_Mat_dims", func() native.Status {
		var st native.Status
		dims, st = m.d.lib.MatDims(h)
		return st
	})

	runtime.KeepAlive(m)
	return dims, err
}

// Type returns the OpenCV element type
func (m *Mat) Type() (gocv.MatType, error) {

	h, err := m.handle()

	if err != nil {
		return 0, err
	}

	var typ gocv.MatType

	err = m.d.invoke("core_Mat_type", func() native.Status {
		var st native.Status
		typ, st = m.d.lib.MatType(h)
		return st
	})

	runtime.KeepAlive(m)
	return typ, err
}

// Bytes returns a copy of the Mat's element data
func (m *Mat) Bytes() ([]byte, error) {

	h, err := m.handle()

	if err != nil {
		return nil, err
	}

	var data []byte

	err = m.d.invoke("core_Mat_data", func() native.Status {
		var st native.Status
		data, st = m.d.lib.MatData(h)
		return st
	})

	runtime.KeepAlive(m)
	return data, err
}

// Float32s returns the Mat's elements converted to float32.  CV_32F, CV_16F
// and CV_8U matrices are supported, CV_16F is converted as Go has no
// native FP16 type.
func (m *Mat) Float32s() ([]float32, error) {

	typ, err := m.Type()

	if err != nil {
		return nil, err
	}

	data, err := m.Bytes()

	if err != nil {
		return nil, err
	}

	switch typ & depthMask {
	case depthCV32F:
		out := make([]float32, len(data)/4)
		copy(out, layout.Slice[float32](data))
		return out, nil

	case depthCV16F:
		out := make([]float32, len(data)/2)

		for i := range out {
			out[i] = f16LookupTable[binary.NativeEndian.Uint16(data[i*2:])]
		}

		return out, nil

	case depthCV8U:
		out := make([]float32, len(data))

		for i, v := range data {
			out[i] = float32(v)
		}

		return out, nil

	default:
		return nil, fmt.Errorf("unsupported Mat type %d for float32 conversion", typ)
	}
}
