package gocvlib

import (
	"image"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-cvdnn/internal/layout"
	"github.com/swdee/go-cvdnn/native"
	"gocv.io/x/gocv"
)

// pin keeps the test on one OS thread so LastError sees the diagnostic of
// the preceding call
func pin(t *testing.T) {
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)
}

func TestBlobFromImages(t *testing.T) {

	lib := New()

	img := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer img.Close()

	h, st := lib.MatImport(img)
	require.Equal(t, native.StatusOK, st)

	p := native.BlobParams{
		ScaleFactor: 1.0 / 255,
		Size:        image.Pt(32, 32),
		Mean:        gocv.NewScalar(0, 0, 0, 0),
		SwapRB:      true,
		Depth:       gocv.MatTypeCV32F,
	}

	blob, st := lib.BlobFromImages([]native.Handle{h, h}, p)
	require.Equal(t, native.StatusOK, st, lib.LastError())

	dims, st := lib.MatDims(blob)
	require.Equal(t, native.StatusOK, st)
	assert.Equal(t, []int{2, 3, 32, 32}, dims)

	data, st := lib.MatData(blob)
	require.Equal(t, native.StatusOK, st)
	assert.Len(t, data, 2*3*32*32*4)

	require.Equal(t, native.StatusOK, lib.MatDelete(blob))

	// deleting the borrowed image leaves the gocv Mat open
	require.Equal(t, native.StatusOK, lib.MatDelete(h))
	assert.False(t, img.Empty())
	assert.Zero(t, lib.objects.Len())
}

func TestNMSBoxes(t *testing.T) {

	lib := New()

	rects := []native.Rect{
		{X: 10, Y: 10, Width: 100, Height: 100},
		{X: 12, Y: 12, Width: 100, Height: 100},
		{X: 300, Y: 300, Width: 50, Height: 50},
	}

	bboxes, st := lib.VectorNew(native.VectorRect, layout.Bytes(rects))
	require.Equal(t, native.StatusOK, st)

	scores, st := lib.VectorNew(native.VectorFloat32, layout.Bytes([]float32{0.8, 0.9, 0.7}))
	require.Equal(t, native.StatusOK, st)

	indices, st := lib.VectorNew(native.VectorInt32, []byte{})
	require.Equal(t, native.StatusOK, st)

	st = lib.NMSBoxes(native.GeometryRect, bboxes, scores, indices,
		native.NMSParams{ScoreThreshold: 0.5, NMSThreshold: 0.4, Eta: 1})
	require.Equal(t, native.StatusOK, st, lib.LastError())

	n, st := lib.VectorSize(native.VectorInt32, indices)
	require.Equal(t, native.StatusOK, st)

	got, buf := layout.Make[int32](n)
	require.Equal(t, native.StatusOK, lib.VectorCopy(native.VectorInt32, indices, buf))
	assert.ElementsMatch(t, []int32{1, 2}, got)

	for _, v := range []struct {
		kind native.VectorKind
		h    native.Handle
	}{{native.VectorRect, bboxes}, {native.VectorFloat32, scores}, {native.VectorInt32, indices}} {
		require.Equal(t, native.StatusOK, lib.VectorDelete(v.kind, v.h))
	}

	assert.Zero(t, lib.objects.Len())
}

func TestNMSBoxesMismatchedLengths(t *testing.T) {

	pin(t)
	lib := New()

	bboxes, _ := lib.VectorNew(native.VectorRect, layout.Bytes([]native.Rect{{Width: 1, Height: 1}}))
	scores, _ := lib.VectorNew(native.VectorFloat32, layout.Bytes([]float32{0.1, 0.2}))
	indices, _ := lib.VectorNew(native.VectorInt32, []byte{})

	st := lib.NMSBoxes(native.GeometryRect, bboxes, scores, indices, native.NMSParams{Eta: 1})
	assert.Equal(t, native.StatusException, st)
	assert.Equal(t, "NMSBoxes: 1 boxes but 2 scores", lib.LastError())
}

func TestUnsupportedOperations(t *testing.T) {

	lib := New()

	tests := []struct {
		name string
		call func() native.Status
	}{
		{"readTorchBlob", func() native.Status { _, st := lib.ReadTorchBlob("blob.t7", true); return st }},
		{"readTensorFromONNX", func() native.Status { _, st := lib.ReadTensorFromONNX("t.pb"); return st }},
		{"shrinkCaffeModel", func() native.Status { return lib.ShrinkCaffeModel("a", "b", nil) }},
		{"writeTextGraph", func() native.Status { return lib.WriteTextGraph("a", "b") }},
		{"resetMyriadDevice", lib.ResetMyriadDevice},
		{"xfeatures2d LATCH", func() native.Status {
			_, st := lib.LATCHCreate(native.LATCHParams{Bytes: 32})
			return st
		}},
		{"NMSBoxes for Rect2d", func() native.Status {
			return lib.NMSBoxes(native.GeometryRect2d, 0, 0, 0, native.NMSParams{})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pin(t)
			assert.Equal(t, native.StatusException, tt.call())
			assert.Equal(t, tt.name+" is not available in the gocv backend", lib.LastError())
		})
	}
}

func TestInvalidHandles(t *testing.T) {

	pin(t)
	lib := New()

	_, st := lib.NetLayerNames(42)
	assert.Equal(t, native.StatusException, st)
	assert.Equal(t, "invalid network handle 42", lib.LastError())

	assert.Equal(t, native.StatusException, lib.MatDelete(7))
	assert.Equal(t, native.StatusException, lib.VectorDelete(native.VectorFloat32, 9))
}
