package cvdnn

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathLoadersRejectEmptyPaths(t *testing.T) {

	d, lib := newTestDNN(t)

	tests := []struct {
		name string
		load func() (*Net, error)
	}{
		{"darknet", func() (*Net, error) { return d.ReadNetFromDarknet("", "yolo.weights") }},
		{"caffe", func() (*Net, error) { return d.ReadNetFromCaffe("", "net.caffemodel") }},
		{"tensorflow", func() (*Net, error) { return d.ReadNetFromTensorflow("", "graph.pbtxt") }},
		{"torch", func() (*Net, error) { return d.ReadNetFromTorch("", true) }},
		{"onnx", func() (*Net, error) { return d.ReadNetFromONNX("") }},
		{"any", func() (*Net, error) { return d.ReadNet("", "", FrameworkAuto) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := tt.load()
			assert.Nil(t, net)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	assert.Empty(t, lib.Calls(), "no native call may be made for invalid arguments")
}

func TestPathLoaders(t *testing.T) {

	d, lib := newTestDNN(t)

	tests := []struct {
		op   string
		load func() (*Net, error)
		args []any
	}{
		{"ReadNetFromDarknet", func() (*Net, error) { return d.ReadNetFromDarknet("yolo.cfg", "yolo.weights") },
			[]any{"yolo.cfg", "yolo.weights"}},
		{"ReadNetFromCaffe", func() (*Net, error) { return d.ReadNetFromCaffe("deploy.prototxt", "") },
			[]any{"deploy.prototxt", ""}},
		{"ReadNetFromTensorflow", func() (*Net, error) { return d.ReadNetFromTensorflow("frozen.pb", "graph.pbtxt") },
			[]any{"frozen.pb", "graph.pbtxt"}},
		{"ReadNetFromTorch", func() (*Net, error) { return d.ReadNetFromTorch("net.t7", false) },
			[]any{"net.t7", false}},
		{"ReadNetFromONNX", func() (*Net, error) { return d.ReadNetFromONNX("yolov8n.onnx") },
			[]any{"yolov8n.onnx", ""}},
		{"ReadNet", func() (*Net, error) { return d.ReadNet("model.xml", "model.bin", FrameworkDLDT) },
			[]any{"model.xml", "model.bin", "dldt"}},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {

			net, err := tt.load()
			require.NoError(t, err)
			require.NotNil(t, net)

			call, ok := lib.Last(tt.op)
			require.True(t, ok)
			assert.Equal(t, tt.args, call.Args)

			require.NoError(t, net.Close())
		})
	}

	assert.Zero(t, lib.Live())
}

func TestReadNetFromSourcesByteForByte(t *testing.T) {

	d, lib := newTestDNN(t)

	proto := []byte("name: \"LeNet\"\nlayer { name: \"data\" }\n")
	weights := bytes.Repeat([]byte{0x0a, 0x05, 0xff, 0x00}, 1000)

	net, err := d.ReadNetFromCaffeSource(Stream(bytes.NewReader(proto)), Buffer(weights))
	require.NoError(t, err)
	defer net.Close()

	call, ok := lib.Last("ReadNetFromCaffeBuffer")
	require.True(t, ok)
	assert.Equal(t, proto, call.Args[0])
	assert.Equal(t, weights, call.Args[1])

	// a reader without Len is drained the same way
	net2, err := d.ReadNetFromONNXSource(Stream(iotest.OneByteReader(bytes.NewReader(weights))))
	require.NoError(t, err)
	defer net2.Close()

	call, ok = lib.Last("ReadNetFromONNXBuffer")
	require.True(t, ok)
	assert.Equal(t, weights, call.Args[0])
}

func TestReadNetFromOptionalSource(t *testing.T) {

	d, lib := newTestDNN(t)
	cfg := []byte("[net]\nwidth=416\n")

	for _, model := range []Source{nil, Buffer(nil), Stream(nil)} {

		net, err := d.ReadNetFromDarknetSource(Buffer(cfg), model)
		require.NoError(t, err)

		call, ok := lib.Last("ReadNetFromDarknetBuffer")
		require.True(t, ok)
		assert.Equal(t, cfg, call.Args[0])
		assert.Nil(t, call.Args[1])

		require.NoError(t, net.Close())
	}
}

func TestReadNetFromInvalidSources(t *testing.T) {

	d, lib := newTestDNN(t)

	tests := []struct {
		name      string
		format    Format
		primary   Source
		secondary Source
	}{
		{"nil primary", FormatTensorflow, nil, nil},
		{"nil buffer", FormatCaffe, Buffer(nil), nil},
		{"nil stream", FormatONNX, Stream(nil), nil},
		{"unreadable stream", FormatONNX, Stream(iotest.ErrReader(errors.New("disk error"))), nil},
		{"unreadable optional stream", FormatDarknet, Buffer([]byte("[net]")),
			Stream(iotest.TimeoutReader(strings.NewReader("weights")))},
		{"unknown format", Format(42), Buffer([]byte("x")), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := d.ReadNetFrom(tt.format, tt.primary, tt.secondary)
			assert.Nil(t, net)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	assert.Empty(t, lib.Calls())
}

func TestReadNetNativeFailure(t *testing.T) {

	d, lib := newTestDNN(t)
	lib.FailOn("ReadNetFromONNX", "Failed to parse ONNX model: missing.onnx")

	net, err := d.ReadNetFromONNX("missing.onnx")
	assert.Nil(t, net)

	var nerr *NativeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "dnn_readNetFromONNX", nerr.Op)
	assert.Equal(t, "Failed to parse ONNX model: missing.onnx", nerr.Message)
	assert.Zero(t, lib.Live())
}

func TestReadNetFromEmptyBuffer(t *testing.T) {

	d, lib := newTestDNN(t)

	// an empty buffer is forwarded, rejecting it is left to the native side
	net, err := d.ReadNetFromONNXSource(Buffer([]byte{}))
	assert.Nil(t, net)

	var nerr *NativeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "dnn_readNetFromONNX_buffer", nerr.Op)
	assert.Equal(t, 1, lib.CallCount("ReadNetFromONNXBuffer"))
}

func TestReadBlobsAndTensors(t *testing.T) {

	d, lib := newTestDNN(t)

	blob, err := d.ReadTorchBlob("blob.t7", true)
	require.NoError(t, err)
	require.NoError(t, blob.Close())

	tensor, err := d.ReadTensorFromONNX("input_0.pb")
	require.NoError(t, err)
	require.NotNil(t, tensor)
	require.NoError(t, tensor.Close())

	// no tensor in the file is not an error
	tensor, err = d.ReadTensorFromONNX("empty.pb")
	assert.NoError(t, err)
	assert.Nil(t, tensor)

	_, err = d.ReadTorchBlob("", true)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = d.ReadTensorFromONNX("")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Zero(t, lib.Live())
}

func TestFormatString(t *testing.T) {

	assert.Equal(t, "darknet", FormatDarknet.String())
	assert.Equal(t, "caffe", FormatCaffe.String())
	assert.Equal(t, "tensorflow", FormatTensorflow.String())
	assert.Equal(t, "onnx", FormatONNX.String())
	assert.Equal(t, "unknown format 9", Format(9).String())
}

func TestReadNetFromEmptyStream(t *testing.T) {

	d, lib := newTestDNN(t)

	// a drained empty stream is forwarded like an empty buffer
	_, err := d.ReadNetFromONNXSource(Stream(strings.NewReader("")))

	var nerr *NativeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, 1, lib.CallCount("ReadNetFromONNXBuffer"))
}

// fileSource is a caller defined Source with a pointer receiver
type fileSource struct {
	data []byte
}

func (f *fileSource) Bytes() ([]byte, error) {
	return f.data, nil
}

func TestReadNetFromTypedNilSource(t *testing.T) {

	d, lib := newTestDNN(t)

	net, err := d.ReadNetFromONNXSource((*fileSource)(nil))
	assert.Nil(t, net)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, lib.Calls())

	// an optional typed nil is treated as absent
	cfg := []byte("[net]\n")
	net, err = d.ReadNetFromDarknetSource(Buffer(cfg), (*fileSource)(nil))
	require.NoError(t, err)
	defer net.Close()

	call, ok := lib.Last("ReadNetFromDarknetBuffer")
	require.True(t, ok)
	assert.Nil(t, call.Args[1])
}
