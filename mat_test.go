package cvdnn

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-cvdnn/internal/layout"
	"github.com/swdee/go-cvdnn/native"
	"github.com/swdee/go-cvdnn/native/nativetest"
	"github.com/x448/float16"
	"gocv.io/x/gocv"
)

func TestMatFloat32s(t *testing.T) {

	d, lib := newTestDNN(t)
	want := []float32{0, 0.5, -1.25, 1024, 65504}

	t.Run("CV_32F", func(t *testing.T) {

		data := append([]byte{}, layout.Bytes(want)...)
		m := d.newMat(lib.AddMat([]int{1, 5}, gocv.MatTypeCV32F, data))
		defer m.Close()

		got, err := m.Float32s()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("CV_16F", func(t *testing.T) {

		data := make([]byte, len(want)*2)

		for i, v := range want {
			binary.NativeEndian.PutUint16(data[i*2:], float16.Fromfloat32(v).Bits())
		}

		m := d.newMat(lib.AddMat([]int{1, 5}, depthCV16F, data))
		defer m.Close()

		got, err := m.Float32s()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("CV_8U", func(t *testing.T) {

		m := d.newMat(lib.AddMat([]int{1, 3}, gocv.MatTypeCV8U, []byte{0, 128, 255}))
		defer m.Close()

		got, err := m.Float32s()
		require.NoError(t, err)
		assert.Equal(t, []float32{0, 128, 255}, got)
	})

	t.Run("unsupported", func(t *testing.T) {

		m := d.newMat(lib.AddMat([]int{1, 1}, gocv.MatTypeCV64F, make([]byte, 8)))
		defer m.Close()

		_, err := m.Float32s()
		assert.Error(t, err)
	})
}

func TestFloat16LookupTable(t *testing.T) {

	tests := []struct {
		bits uint16
		want float32
	}{
		{0x0000, 0},
		{0x3c00, 1},
		{0xc000, -2},
		{0x7bff, 65504},
		{0x3555, 0.33325195},
	}

	for _, tc := range tests {
		if got := f16LookupTable[tc.bits]; got != tc.want {
			t.Errorf("f16LookupTable[%#04x] = %v, expected %v", tc.bits, got, tc.want)
		}
	}
}

func TestMatCloseIsIdempotent(t *testing.T) {

	d, lib := newTestDNN(t)

	m := d.newMat(lib.AddMat([]int{2, 2}, gocv.MatTypeCV8U, make([]byte, 4)))

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Equal(t, 1, lib.CallCount("MatDelete"))

	_, err := m.Dims()
	assert.ErrorIs(t, err, ErrClosed)

	_, err = m.Bytes()
	assert.ErrorIs(t, err, ErrClosed)

	_, err = m.Float32s()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFromGocv(t *testing.T) {

	d, lib := newTestDNN(t)

	img := gocv.NewMatWithSize(4, 6, gocv.MatTypeCV8UC3)
	defer img.Close()

	m, err := d.FromGocv(img)
	require.NoError(t, err)

	typ, err := m.Type()
	require.NoError(t, err)
	assert.Equal(t, gocv.MatTypeCV8UC3, typ)

	require.NoError(t, m.Close())
	assert.Zero(t, lib.Live())

	// the gocv Mat is untouched
	assert.False(t, img.Empty())

	_, err = d.FromGocv(gocv.Mat{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

// emptyResultLibrary reports success from the matrix producing calls
// without returning a matrix
type emptyResultLibrary struct {
	*nativetest.Library
}

func (emptyResultLibrary) BlobFromImage(native.Handle, native.BlobParams) (native.Handle, native.Status) {
	return 0, native.StatusOK
}

func (emptyResultLibrary) BlobFromImages([]native.Handle, native.BlobParams) (native.Handle, native.Status) {
	return 0, native.StatusOK
}

func (emptyResultLibrary) NetForward(native.Handle, string) (native.Handle, native.Status) {
	return 0, native.StatusOK
}

func (emptyResultLibrary) MatImport(gocv.Mat) (native.Handle, native.Status) {
	return 0, native.StatusOK
}

func TestZeroMatHandleIsNativeError(t *testing.T) {

	lib := nativetest.New()
	d := New(emptyResultLibrary{lib}, WithLogger(NoopLogger()))

	img := newTestImage(d, lib, 8, 8)
	defer img.Close()

	net, err := d.ReadNetFromONNX("model.onnx")
	require.NoError(t, err)
	defer net.Close()

	require.NoError(t, net.SetInput(img, ""))

	gimg := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC3)
	defer gimg.Close()

	tests := []struct {
		op   string
		call func() (*Mat, error)
	}{
		{"dnn_blobFromImage", func() (*Mat, error) { return d.BlobFromImage(img, DefaultBlobParams()) }},
		{"dnn_blobFromImages", func() (*Mat, error) { return d.BlobFromImages([]*Mat{img}, DefaultBlobParams()) }},
		{"dnn_Net_forward", func() (*Mat, error) { return net.Forward("") }},
		{"core_Mat_import", func() (*Mat, error) { return d.FromGocv(gimg) }},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {

			m, err := tt.call()
			assert.Nil(t, m)

			var nerr *NativeError
			require.ErrorAs(t, err, &nerr)
			assert.Equal(t, tt.op, nerr.Op)
			assert.Equal(t, native.StatusException, nerr.Status)
		})
	}
}
