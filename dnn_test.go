package cvdnn

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-cvdnn/native"
	"github.com/swdee/go-cvdnn/native/nativetest"
)

func TestNewDefaults(t *testing.T) {

	d := New(nil)
	require.NotNil(t, d.Library())
	require.NotNil(t, d.log)

	assert.Same(t, std, Default())

	lib := nativetest.New()
	assert.Same(t, native.Library(lib), New(lib).Library())
}

func TestInvokeLogsFailures(t *testing.T) {

	var buf bytes.Buffer

	lib := nativetest.New()
	d := New(lib, WithLogger(NewLogger(slog.NewTextHandler(&buf,
		&slog.HandlerOptions{Level: slog.LevelDebug}))))

	lib.FailOn("ReadNetFromONNX", "Can't read ONNX file")

	_, err := d.ReadNetFromONNX("missing.onnx")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "native call failed")
	assert.Contains(t, out, "op=dnn_readNetFromONNX")
	assert.Contains(t, out, "Can't read ONNX file")
}

func TestWithNilLoggerKeepsDefault(t *testing.T) {

	d := New(nativetest.New(), WithLogger(nil))
	assert.NotNil(t, d.log)
}
