//go:build !cvextern || !cgo

package externlib

import (
	"github.com/swdee/go-cvdnn/native"
	"gocv.io/x/gocv"
)

// Stub implementations for builds without the cvextern tag or cgo.
// These allow the package to compile but fail every call with ErrNotBuilt.

// Library is the OpenCvSharpExtern backed native library
type Library struct{}

func newLibrary() *Library {
	return &Library{}
}

const fail = native.StatusException

func (l *Library) LastError() string {
	return ErrNotBuilt.Error()
}

func (l *Library) ReadNetFromDarknet(string, string) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) ReadNetFromDarknetBuffer([]byte, []byte) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) ReadNetFromCaffe(string, string) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) ReadNetFromCaffeBuffer([]byte, []byte) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) ReadNetFromTensorflow(string, string) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) ReadNetFromTensorflowBuffer([]byte, []byte) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) ReadNetFromTorch(string, bool) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) ReadNetFromONNX(string) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) ReadNetFromONNXBuffer([]byte) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) ReadNet(string, string, string) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) ReadTorchBlob(string, bool) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) ReadTensorFromONNX(string) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) NetDelete(native.Handle) native.Status { return fail }

func (l *Library) NetEmpty(native.Handle) (bool, native.Status) { return true, fail }

func (l *Library) NetLayerNames(native.Handle) ([]string, native.Status) { return nil, fail }

func (l *Library) NetSetInput(native.Handle, native.Handle, string) native.Status { return fail }

func (l *Library) NetForward(native.Handle, string) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) MatNew() (native.Handle, native.Status) { return 0, fail }

func (l *Library) MatImport(gocv.Mat) (native.Handle, native.Status) { return 0, fail }

func (l *Library) MatDelete(native.Handle) native.Status { return fail }

func (l *Library) MatDims(native.Handle) ([]int, native.Status) { return nil, fail }

func (l *Library) MatType(native.Handle) (gocv.MatType, native.Status) { return 0, fail }

func (l *Library) MatData(native.Handle) ([]byte, native.Status) { return nil, fail }

func (l *Library) BlobFromImage(native.Handle, native.BlobParams) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) BlobFromImages([]native.Handle, native.BlobParams) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) NMSBoxes(native.Geometry, native.Handle, native.Handle, native.Handle, native.NMSParams) native.Status {
	return fail
}

func (l *Library) ShrinkCaffeModel(string, string, []string) native.Status { return fail }

func (l *Library) WriteTextGraph(string, string) native.Status { return fail }

func (l *Library) ResetMyriadDevice() native.Status { return fail }

func (l *Library) VectorNew(native.VectorKind, []byte) (native.Handle, native.Status) {
	return 0, fail
}

func (l *Library) VectorSize(native.VectorKind, native.Handle) (int, native.Status) {
	return 0, fail
}

func (l *Library) VectorCopy(native.VectorKind, native.Handle, []byte) native.Status { return fail }

func (l *Library) VectorDelete(native.VectorKind, native.Handle) native.Status { return fail }

func (l *Library) LATCHCreate(native.LATCHParams) (native.Handle, native.Status) { return 0, fail }

func (l *Library) PtrLATCHGet(native.Handle) (native.Handle, native.Status) { return 0, fail }

func (l *Library) PtrLATCHDelete(native.Handle) native.Status { return fail }

func (l *Library) Feature2DCompute(native.Handle, native.Handle, native.Handle, native.Handle) native.Status {
	return fail
}

func (l *Library) Feature2DDescriptorSize(native.Handle) (int, native.Status) { return 0, fail }
