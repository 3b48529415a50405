package native

import (
	"fmt"
	"unsafe"
)

// Rect is the native layout of an axis aligned integer box
type Rect struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// Rect2d is the native layout of an axis aligned double precision box
type Rect2d struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Point2f is a single precision point
type Point2f struct {
	X float32
	Y float32
}

// Size2f is a single precision size
type Size2f struct {
	Width  float32
	Height float32
}

// RotatedRect is the native layout of a rotated box.  Angle is in degrees,
// measured clockwise.
type RotatedRect struct {
	Center Point2f
	Size   Size2f
	Angle  float32
}

// KeyPoint is the native layout of a detected feature point
type KeyPoint struct {
	Pt       Point2f
	Size     float32
	Angle    float32
	Response float32
	Octave   int32
	ClassID  int32
}

// VectorKind identifies the element type of a native vector
type VectorKind int

const (
	VectorFloat32 VectorKind = iota
	VectorInt32
	VectorRect
	VectorRect2d
	VectorRotatedRect
	VectorKeyPoint
)

// ElemSize returns the number of bytes per element of the vector kind
func (k VectorKind) ElemSize() int {
	switch k {
	case VectorFloat32:
		return int(unsafe.Sizeof(float32(0)))
	case VectorInt32:
		return int(unsafe.Sizeof(int32(0)))
	case VectorRect:
		return int(unsafe.Sizeof(Rect{}))
	case VectorRect2d:
		return int(unsafe.Sizeof(Rect2d{}))
	case VectorRotatedRect:
		return int(unsafe.Sizeof(RotatedRect{}))
	case VectorKeyPoint:
		return int(unsafe.Sizeof(KeyPoint{}))
	default:
		return 0
	}
}

// String returns the native vector type name
func (k VectorKind) String() string {
	switch k {
	case VectorFloat32:
		return "vector<float>"
	case VectorInt32:
		return "vector<int>"
	case VectorRect:
		return "vector<Rect>"
	case VectorRect2d:
		return "vector<Rect2d>"
	case VectorRotatedRect:
		return "vector<RotatedRect>"
	case VectorKeyPoint:
		return "vector<KeyPoint>"
	default:
		return fmt.Sprintf("vector<unknown %d>", int(k))
	}
}
