package cvdnn

import (
	"testing"

	"github.com/swdee/go-cvdnn/native/nativetest"
	"gocv.io/x/gocv"
)

// newTestDNN returns a DNN backed by a recording fake library
func newTestDNN(t *testing.T) (*DNN, *nativetest.Library) {
	t.Helper()

	lib := nativetest.New()
	return New(lib, WithLogger(NoopLogger())), lib
}

// newTestImage registers a height x width 8 bit BGR image with the fake
func newTestImage(d *DNN, lib *nativetest.Library, height, width int) *Mat {
	h := lib.AddMat([]int{height, width}, gocv.MatTypeCV8UC3, make([]byte, height*width*3))
	return d.newMat(h)
}
