//go:build !cvextern

package cvdnn

import (
	"github.com/swdee/go-cvdnn/native"
	"github.com/swdee/go-cvdnn/native/gocvlib"
)

// defaultLibrary returns the gocv backed native library
func defaultLibrary() native.Library {
	return gocvlib.New()
}
