// Package externlib implements native.Library over the C exports of the
// OpenCvSharpExtern shared library.  The cgo binding is compiled with the
// cvextern build tag, other builds get a Library whose every call fails with
// ErrNotBuilt as its diagnostic.
package externlib

import (
	"errors"

	"github.com/swdee/go-cvdnn/native"
)

// ErrNotBuilt reports that the binary was built without the cvextern tag or
// without cgo, so OpenCvSharpExtern is not linked
var ErrNotBuilt = errors.New("externlib: OpenCvSharpExtern bindings not built, rebuild with -tags cvextern and CGO_ENABLED=1")

// New returns the OpenCvSharpExtern backed library
func New() *Library {
	return newLibrary()
}

var _ native.Library = (*Library)(nil)
