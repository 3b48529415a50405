package cvdnn

import (
	"sync"

	"github.com/swdee/go-cvdnn/internal/layout"
	"github.com/swdee/go-cvdnn/native"
)

// element is the set of Go types with a native vector counterpart
type element interface {
	float32 | int32 | native.Rect | native.Rect2d | native.RotatedRect | native.KeyPoint
}

// vector is a scoped native std::vector used to marshal one call's sequence
// arguments.  It is created immediately before the call and closed
// immediately after, on success and failure alike.
type vector[T element] struct {
	d    *DNN
	kind native.VectorKind
	h    native.Handle
	once sync.Once
}

// newVector copies elems into a new native vector.  A nil elems creates an
// empty vector, used for output arguments.
func newVector[T element](d *DNN, kind native.VectorKind, elems []T) (*vector[T], error) {

	data := layout.Bytes(elems)

	if data == nil {
		data = []byte{}
	}

	var h native.Handle

	err := d.invoke("vector_new", func() native.Status {
		var st native.Status
		h, st = d.lib.VectorNew(kind, data)
		return st
	})

	if err != nil {
		return nil, err
	}

	return &vector[T]{d: d, kind: kind, h: h}, nil
}

// handle returns the native vector handle
func (v *vector[T]) handle() native.Handle {
	return v.h
}

// toSlice copies the native vector's elements back into Go memory
func (v *vector[T]) toSlice() ([]T, error) {

	var n int

	err := v.d.invoke("vector_getSize", func() native.Status {
		var st native.Status
		n, st = v.d.lib.VectorSize(v.kind, v.h)
		return st
	})

	if err != nil {
		return nil, err
	}

	out, buf := layout.Make[T](n)

	if n == 0 {
		return out, nil
	}

	err = v.d.invoke("vector_copy", func() native.Status {
		return v.d.lib.VectorCopy(v.kind, v.h, buf)
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// close releases the native vector, only the first call has an effect
func (v *vector[T]) close() {

	if v == nil {
		return
	}

	v.once.Do(func() {
		err := v.d.invoke("vector_delete", func() native.Status {
			return v.d.lib.VectorDelete(v.kind, v.h)
		})

		if err != nil {
			v.d.log.Warn("failed to release native vector",
				"kind", v.kind.String(), "error", err)
		}
	})
}
