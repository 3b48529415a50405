package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cvdnn "github.com/swdee/go-cvdnn"
	"github.com/swdee/go-cvdnn/native/nativetest"
)

// payload returns model like test data that compresses well
func payload() []byte {
	return bytes.Repeat([]byte("layer {\n  name: \"conv1\"\n  type: \"Convolution\"\n}\n"), 512)
}

func zstdCompress(t *testing.T, data []byte) []byte {

	var buf bytes.Buffer

	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)

	_, err = enc.Write(data)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	return buf.Bytes()
}

func lz4Compress(t *testing.T, data []byte) []byte {

	var buf bytes.Buffer

	w := lz4.NewWriter(&buf)

	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func TestZstd(t *testing.T) {

	want := payload()
	compressed := zstdCompress(t, want)
	require.Less(t, len(compressed), len(want))

	got, err := Zstd(bytes.NewReader(compressed)).Bytes()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLZ4(t *testing.T) {

	want := payload()

	got, err := LZ4(bytes.NewReader(lz4Compress(t, want))).Bytes()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecompressorErrors(t *testing.T) {

	tests := []struct {
		name string
		src  cvdnn.Source
	}{
		{"zstd nil reader", Zstd(nil)},
		{"lz4 nil reader", LZ4(nil)},
		{"zstd corrupt", Zstd(bytes.NewReader([]byte("not a zstd frame")))},
		{"lz4 corrupt", LZ4(bytes.NewReader([]byte("not an lz4 frame")))},
		{"zstd failing reader", Zstd(iotest.ErrReader(iotest.ErrTimeout))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.src.Bytes()
			assert.ErrorIs(t, err, cvdnn.ErrInvalidArgument)
		})
	}
}

func TestDecompressorNilReaderIsAbsent(t *testing.T) {

	lib := nativetest.New()
	d := cvdnn.New(lib, cvdnn.WithLogger(cvdnn.NoopLogger()))
	model := []byte("graph")

	for _, config := range []cvdnn.Source{Zstd(nil), LZ4(nil)} {

		net, err := d.ReadNetFromTensorflowSource(cvdnn.Buffer(model), config)
		require.NoError(t, err)

		call, ok := lib.Last("ReadNetFromTensorflowBuffer")
		require.True(t, ok)
		assert.Equal(t, model, call.Args[0])
		assert.Nil(t, call.Args[1])

		require.NoError(t, net.Close())
	}

	// a required nil reader is still rejected before any native call
	_, err := d.ReadNetFromONNXSource(Zstd(nil))
	assert.ErrorIs(t, err, cvdnn.ErrInvalidArgument)
	assert.Equal(t, 0, lib.CallCount("ReadNetFromONNXBuffer"))
}

func TestOpenByExtension(t *testing.T) {

	dir := t.TempDir()
	want := payload()

	files := map[string][]byte{
		"model.caffemodel": want,
		"model.pb.zst":     zstdCompress(t, want),
		"model.pb.lz4":     lz4Compress(t, want),
	}

	for name, data := range files {
		t.Run(name, func(t *testing.T) {

			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, data, 0o644))

			f, err := Open(path)
			require.NoError(t, err)
			defer f.Close()

			got, err := f.Bytes()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
