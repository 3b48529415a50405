package cvdnn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-cvdnn/native"
)

func TestVectorRoundTrip(t *testing.T) {

	d, lib := newTestDNN(t)

	want := []native.RotatedRect{
		{Center: native.Point2f{X: 1, Y: 2}, Size: native.Size2f{Width: 3, Height: 4}, Angle: 5},
		{Center: native.Point2f{X: 6, Y: 7}, Size: native.Size2f{Width: 8, Height: 9}, Angle: -10},
	}

	vec, err := newVector(d, native.VectorRotatedRect, want)
	require.NoError(t, err)

	got, err := vec.toSlice()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	vec.close()
	vec.close()

	assert.Equal(t, 1, lib.CallCount("VectorDelete"))
	assert.Zero(t, lib.Live())
}

func TestVectorEmpty(t *testing.T) {

	d, lib := newTestDNN(t)

	vec, err := newVector[int32](d, native.VectorInt32, nil)
	require.NoError(t, err)
	defer vec.close()

	call, ok := lib.Last("VectorNew")
	require.True(t, ok)
	assert.Equal(t, []byte{}, call.Args[1])

	got, err := vec.toSlice()
	require.NoError(t, err)
	assert.Empty(t, got)

	// nothing to copy for an empty vector
	assert.Zero(t, lib.CallCount("VectorCopy"))
}

func TestVectorElementSizes(t *testing.T) {

	tests := []struct {
		kind native.VectorKind
		size int
		name string
	}{
		{native.VectorFloat32, 4, "vector<float>"},
		{native.VectorInt32, 4, "vector<int>"},
		{native.VectorRect, 16, "vector<Rect>"},
		{native.VectorRect2d, 32, "vector<Rect2d>"},
		{native.VectorRotatedRect, 20, "vector<RotatedRect>"},
		{native.VectorKeyPoint, 28, "vector<KeyPoint>"},
	}

	for _, tc := range tests {
		if got := tc.kind.ElemSize(); got != tc.size {
			t.Errorf("%s element size = %d, expected %d", tc.name, got, tc.size)
		}

		if got := tc.kind.String(); got != tc.name {
			t.Errorf("VectorKind(%d).String() = %q, expected %q", int(tc.kind), got, tc.name)
		}
	}
}
