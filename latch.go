package cvdnn

import (
	"errors"
	"runtime"
	"sync"

	"github.com/swdee/go-cvdnn/native"
)

// LATCHParams configures the LATCH descriptor
type LATCHParams = native.LATCHParams

// DefaultLATCHParams returns 32 byte rotation invariant descriptors computed
// over 7x7 patches of an image smoothed with sigma 2.0
func DefaultLATCHParams() LATCHParams {
	return LATCHParams{
		Bytes:              32,
		RotationInvariance: true,
		HalfSSDSize:        3,
		Sigma:              2.0,
	}
}

// LATCH computes Learned Arrangements of Three Patch Codes binary
// descriptors for keypoints found by any detector.  When rotation invariance
// is enabled the keypoints must carry an orientation, such as those from
// ORB or SIFT.
type LATCH struct {
	d *DNN
	// ptr owns the native object
	ptr *Ptr
	// obj is the object pointer dereferenced from ptr
	obj native.Handle
	sync.Mutex
}

// CreateLATCH creates a LATCH descriptor extractor
func (d *DNN) CreateLATCH(p LATCHParams) (*LATCH, error) {

	var h native.Handle

	err := d.invoke("xfeatures2d_LATCH_create", func() native.Status {
		var st native.Status
		h, st = d.lib.LATCHCreate(p)
		return st
	})

	if err != nil {
		return nil, err
	}

	ptr := &Ptr{
		d:        d,
		ptr:      h,
		getOp:    "xfeatures2d_Ptr_LATCH_get",
		deleteOp: "xfeatures2d_Ptr_LATCH_delete",
		get:      d.lib.PtrLATCHGet,
		del:      d.lib.PtrLATCHDelete,
	}

	obj, err := ptr.Get()

	if err != nil {
		// don't leak the smart pointer when it can't be dereferenced
		return nil, errors.Join(err, ptr.Close())
	}

	return &LATCH{d: d, ptr: ptr, obj: obj}, nil
}

// CreateLATCH creates a LATCH descriptor extractor using the default DNN
func CreateLATCH(p LATCHParams) (*LATCH, error) {
	return std.CreateLATCH(p)
}

// object returns the native object pointer or ErrClosed
func (l *LATCH) object() (native.Handle, error) {

	if l == nil {
		return 0, ErrClosed
	}

	l.Lock()
	defer l.Unlock()

	if l.obj == 0 {
		return 0, ErrClosed
	}

	return l.obj, nil
}

// DescriptorSize returns the descriptor length in bytes
func (l *LATCH) DescriptorSize() (int, error) {

	obj, err := l.object()

	if err != nil {
		return 0, err
	}

	var size int

	err = l.d.invoke("features2d_Feature2D_descriptorSize", func() native.Status {
		var st native.Status
		size, st = l.d.lib.Feature2DDescriptorSize(obj)
		return st
	})

	runtime.KeepAlive(l)
	return size, err
}

// Compute extracts descriptors for keypoints detected in img.  Keypoints
// for which no descriptor can be computed are removed, the kept keypoints
// are returned alongside a Mat holding one descriptor row per keypoint.
func (l *LATCH) Compute(img *Mat, keypoints []native.KeyPoint) ([]native.KeyPoint, *Mat, error) {

	if img == nil {
		return nil, nil, nilArg("image")
	}

	if keypoints == nil {
		return nil, nil, nilArg("keypoints")
	}

	obj, err := l.object()

	if err != nil {
		return nil, nil, err
	}

	ih, err := img.handle()

	if err != nil {
		return nil, nil, &ArgumentError{Name: "image", Reason: "is closed", Err: err}
	}

	kpVec, err := newVector(l.d, native.VectorKeyPoint, keypoints)

	if err != nil {
		return nil, nil, err
	}

	defer kpVec.close()

	var dh native.Handle

	err = l.d.invoke("core_Mat_new1", func() native.Status {
		var st native.Status
		dh, st = l.d.lib.MatNew()
		return st
	})

	if err != nil {
		return nil, nil, err
	}

	descriptors := l.d.newMat(dh)

	err = l.d.invoke("features2d_Feature2D_compute1", func() native.Status {
		return l.d.lib.Feature2DCompute(obj, ih, kpVec.handle(), dh)
	})

	runtime.KeepAlive(l)
	runtime.KeepAlive(img)

	if err != nil {
		return nil, nil, errors.Join(err, descriptors.Close())
	}

	kept, err := kpVec.toSlice()

	if err != nil {
		return nil, nil, errors.Join(err, descriptors.Close())
	}

	return kept, descriptors, nil
}

// Close releases the descriptor.  The object pointer is dropped first, then
// the smart pointer owning it is deleted.  Calling Close more than once is a
// no-op.
func (l *LATCH) Close() error {

	if l == nil {
		return nil
	}

	l.Lock()
	l.obj = 0
	l.Unlock()

	return l.ptr.Close()
}
