// Package layout converts between typed Go slices and the contiguous byte
// layout expected by native vectors.  Conversions are zero copy views, the
// returned slice aliases the input.
package layout

import "unsafe"

// Bytes returns the memory backing s as a byte slice.  A nil input returns
// nil, an empty non-nil input returns an empty non-nil slice.
func Bytes[T any](s []T) []byte {

	if s == nil {
		return nil
	}

	if len(s) == 0 {
		return []byte{}
	}

	var zero T
	size := len(s) * int(unsafe.Sizeof(zero))

	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), size)
}

// Slice reinterprets b as a slice of T.  Trailing bytes that do not form a
// whole element are ignored.  The alignment of b must suit T, which holds for
// buffers allocated by Make.
func Slice[T any](b []byte) []T {

	var zero T
	size := int(unsafe.Sizeof(zero))

	if len(b) < size || size == 0 {
		return []T{}
	}

	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/size)
}

// Make allocates a zeroed n element slice of T and returns it together with
// its byte view, so native code can fill it in place.
func Make[T any](n int) ([]T, []byte) {
	s := make([]T, n)
	return s, Bytes(s)
}
