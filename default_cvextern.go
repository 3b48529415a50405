//go:build cvextern

package cvdnn

import (
	"github.com/swdee/go-cvdnn/native"
	"github.com/swdee/go-cvdnn/native/externlib"
)

// defaultLibrary returns the OpenCvSharpExtern backed native library
func defaultLibrary() native.Library {
	return externlib.New()
}
