package cvdnn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetForward(t *testing.T) {

	d, lib := newTestDNN(t)

	net, err := d.ReadNetFromONNX("yolov8n.onnx")
	require.NoError(t, err)
	defer net.Close()

	empty, err := net.Empty()
	require.NoError(t, err)
	assert.False(t, empty)

	names, err := net.LayerNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"data", "conv1", "relu1", "prob"}, names)

	img := newTestImage(d, lib, 4, 6)
	defer img.Close()

	blob, err := d.BlobFromImage(img, DefaultBlobParams())
	require.NoError(t, err)
	defer blob.Close()

	require.NoError(t, net.SetInput(blob, ""))

	out, err := net.Forward("")
	require.NoError(t, err)
	defer out.Close()

	dims, err := out.Dims()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 6}, dims)
}

func TestNetForwardWithoutInput(t *testing.T) {

	d, _ := newTestDNN(t)

	net, err := d.ReadNetFromONNX("yolov8n.onnx")
	require.NoError(t, err)
	defer net.Close()

	out, err := net.Forward("prob")
	assert.Nil(t, out)

	var nerr *NativeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "dnn_Net_forward", nerr.Op)
	assert.Equal(t, "NetForward: no input set", nerr.Message)
}

func TestNetSetInputArguments(t *testing.T) {

	d, lib := newTestDNN(t)

	net, err := d.ReadNetFromONNX("yolov8n.onnx")
	require.NoError(t, err)
	defer net.Close()

	assert.ErrorIs(t, net.SetInput(nil, "data"), ErrInvalidArgument)

	blob := newTestImage(d, lib, 2, 2)
	require.NoError(t, blob.Close())

	err = net.SetInput(blob, "data")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, ErrClosed)

	assert.Zero(t, lib.CallCount("NetSetInput"))
}

func TestNetCloseIsIdempotent(t *testing.T) {

	d, lib := newTestDNN(t)

	net, err := d.ReadNetFromCaffe("deploy.prototxt", "net.caffemodel")
	require.NoError(t, err)

	require.NoError(t, net.Close())
	require.NoError(t, net.Close())

	assert.Equal(t, 1, lib.CallCount("NetDelete"))
	assert.Zero(t, lib.Live())

	_, err = net.LayerNames()
	assert.ErrorIs(t, err, ErrClosed)

	_, err = net.Forward("")
	assert.ErrorIs(t, err, ErrClosed)

	var nilNet *Net
	assert.NoError(t, nilNet.Close())
}

func TestNetQuery(t *testing.T) {

	d, lib := newTestDNN(t)
	lib.DefaultLayers = []string{"images", "output0"}

	net, err := d.ReadNetFromONNX("yolov8n.onnx")
	require.NoError(t, err)
	defer net.Close()

	var sb strings.Builder
	require.NoError(t, net.Query(&sb))

	assert.Equal(t, "Empty: false, Layer Number: 2\nLayers:\n  1: images\n  2: output0\n", sb.String())
}
