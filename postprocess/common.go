package postprocess

import (
	"errors"
	"fmt"
)

// ErrOutputShape is returned when a network output blob does not have the
// shape a post processor decodes
var ErrOutputShape = errors.New("postprocess: unexpected output shape")

// matrixShape reduces the dims of an output blob to a 2D matrix, dropping
// leading dimensions of size 1 such as the batch
func matrixShape(dims []int) (int, int, error) {

	for len(dims) > 2 && dims[0] == 1 {
		dims = dims[1:]
	}

	if len(dims) != 2 || dims[0] < 1 || dims[1] < 1 {
		return 0, 0, fmt.Errorf("%w: %v", ErrOutputShape, dims)
	}

	return dims[0], dims[1], nil
}
