/*
Package native defines the boundary between the go-cvdnn façade and the
OpenCV library it binds.  Every method of Library corresponds to exactly one
exported native entry point.  Implementations live in the gocvlib and
externlib subpackages, a recording fake for tests lives in nativetest.
*/
package native

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Handle is an opaque address sized identifier owned by the native library.
// Only the Library that returned it may interpret it.  The zero Handle means
// no object.
type Handle uintptr

// Status is the native exception slot value returned by every entry point
type Status int

// status values returned by the native entry points
const (
	StatusOK        Status = 0
	StatusException Status = 1
)

// String returns a readable description of the status
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "no exception occurred"
	case StatusException:
		return "native exception occurred"
	default:
		return fmt.Sprintf("unknown status %d", s)
	}
}

// BlobParams are the arguments passed through unchanged to the native blob
// construction routines
type BlobParams struct {
	// ScaleFactor multiplies each pixel value after mean subtraction
	ScaleFactor float64
	// Size is the spatial size of the output blob, the zero value keeps the
	// image size
	Size image.Point
	// Mean is subtracted from each channel
	Mean gocv.Scalar
	// SwapRB swaps the first and last channels
	SwapRB bool
	// Crop center crops the image after resizing with preserved aspect ratio
	Crop bool
	// Depth is the element type of the output blob, CV_32F or CV_8U
	Depth gocv.MatType
}

// NMSParams are the thresholds and coefficients forwarded verbatim to the
// native suppression routine
type NMSParams struct {
	// ScoreThreshold discards boxes scoring below it
	ScoreThreshold float32
	// NMSThreshold is the maximum overlap allowed between kept boxes
	NMSThreshold float32
	// Eta is the adaptive threshold coefficient, 1 disables adaption
	Eta float32
	// TopK caps the number of kept indices, 0 means unlimited
	TopK int
}

// Geometry selects the native NMS variant
type Geometry int

const (
	GeometryRect Geometry = iota
	GeometryRect2d
	GeometryRotatedRect
)

// String returns the name of the geometry variant
func (g Geometry) String() string {
	switch g {
	case GeometryRect:
		return "Rect"
	case GeometryRect2d:
		return "Rect2d"
	case GeometryRotatedRect:
		return "RotatedRect"
	default:
		return "UNKNOWN"
	}
}

// LATCHParams are the construction arguments of the LATCH descriptor
type LATCHParams struct {
	// Bytes is the descriptor size, one of 64, 32, 16, 8, 4, 2 or 1
	Bytes int
	// RotationInvariance compensates for keypoint orientation
	RotationInvariance bool
	// HalfSSDSize is half the mini patch size
	HalfSSDSize int
	// Sigma of the Gaussian smoothing applied to the source image, 0 skips
	// smoothing
	Sigma float64
}

// Library is the set of native entry points used by the façade.  Methods
// returning StatusException leave the diagnostic text retrievable with
// LastError on the same OS thread.
type Library interface {
	// LastError returns the diagnostic of the most recent failed call made
	// on the calling OS thread
	LastError() string

	ReadNetFromDarknet(cfgFile, model string) (Handle, Status)
	ReadNetFromDarknetBuffer(cfg, model []byte) (Handle, Status)
	ReadNetFromCaffe(prototxt, model string) (Handle, Status)
	ReadNetFromCaffeBuffer(prototxt, model []byte) (Handle, Status)
	ReadNetFromTensorflow(model, config string) (Handle, Status)
	ReadNetFromTensorflowBuffer(model, config []byte) (Handle, Status)
	ReadNetFromTorch(model string, isBinary bool) (Handle, Status)
	ReadNetFromONNX(path string) (Handle, Status)
	ReadNetFromONNXBuffer(data []byte) (Handle, Status)
	ReadNet(model, config, framework string) (Handle, Status)
	ReadTorchBlob(file string, isBinary bool) (Handle, Status)
	ReadTensorFromONNX(path string) (Handle, Status)

	NetDelete(net Handle) Status
	NetEmpty(net Handle) (bool, Status)
	NetLayerNames(net Handle) ([]string, Status)
	NetSetInput(net, blob Handle, name string) Status
	NetForward(net Handle, outputName string) (Handle, Status)

	MatNew() (Handle, Status)
	MatImport(m gocv.Mat) (Handle, Status)
	MatDelete(mat Handle) Status
	MatDims(mat Handle) ([]int, Status)
	MatType(mat Handle) (gocv.MatType, Status)
	MatData(mat Handle) ([]byte, Status)

	BlobFromImage(img Handle, p BlobParams) (Handle, Status)
	BlobFromImages(imgs []Handle, p BlobParams) (Handle, Status)
	NMSBoxes(g Geometry, bboxes, scores, indices Handle, p NMSParams) Status

	ShrinkCaffeModel(src, dst string, layerTypes []string) Status
	WriteTextGraph(model, output string) Status
	ResetMyriadDevice() Status

	VectorNew(kind VectorKind, data []byte) (Handle, Status)
	VectorSize(kind VectorKind, vec Handle) (int, Status)
	VectorCopy(kind VectorKind, vec Handle, dst []byte) Status
	VectorDelete(kind VectorKind, vec Handle) Status

	LATCHCreate(p LATCHParams) (Handle, Status)
	PtrLATCHGet(ptr Handle) (Handle, Status)
	PtrLATCHDelete(ptr Handle) Status
	Feature2DCompute(obj, img, keypoints, descriptors Handle) Status
	Feature2DDescriptorSize(obj Handle) (int, Status)
}
