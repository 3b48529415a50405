package cvdnn

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swdee/go-cvdnn/native"
)

func TestNMSBoxesRect(t *testing.T) {

	d, lib := newTestDNN(t)

	boxes := []image.Rectangle{
		image.Rect(10, 10, 110, 110),
		image.Rect(12, 12, 112, 112), // overlaps box 0
		image.Rect(300, 300, 350, 350),
		image.Rect(0, 0, 5, 5), // below score threshold
	}
	scores := []float32{0.8, 0.9, 0.7, 0.1}

	indices, err := NMSBoxesWithParams(d, boxes, scores, DefaultNMSParams(0.5, 0.4))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, indices)

	call, ok := lib.Last("NMSBoxes")
	require.True(t, ok)
	assert.Equal(t, native.GeometryRect, call.Args[0])

	assert.Equal(t, 3, lib.CallCount("VectorDelete"))
	assert.Zero(t, lib.Live())
}

func TestNMSBoxesRect2dAndRotated(t *testing.T) {

	d, lib := newTestDNN(t)

	rects := []native.Rect2d{
		{X: 0.5, Y: 0.5, Width: 10, Height: 10},
		{X: 0.6, Y: 0.6, Width: 10, Height: 10},
	}

	indices, err := NMSBoxesWithParams(d, rects, []float32{0.6, 0.5}, DefaultNMSParams(0.3, 0.5))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, indices)

	rotated := []native.RotatedRect{
		{Center: native.Point2f{X: 50, Y: 50}, Size: native.Size2f{Width: 20, Height: 10}, Angle: 30},
		{Center: native.Point2f{X: 150, Y: 50}, Size: native.Size2f{Width: 20, Height: 10}, Angle: 30},
	}

	indices, err = NMSBoxesWithParams(d, rotated, []float32{0.6, 0.9}, DefaultNMSParams(0.3, 0.5))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, indices)

	call, ok := lib.Last("NMSBoxes")
	require.True(t, ok)
	assert.Equal(t, native.GeometryRotatedRect, call.Args[0])
	assert.Zero(t, lib.Live())
}

func TestNMSBoxesForwardsParams(t *testing.T) {

	d, lib := newTestDNN(t)

	p := NMSParams{ScoreThreshold: 0.25, NMSThreshold: 0.45, Eta: 0.9, TopK: 2}

	boxes := []image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(20, 20, 30, 30),
		image.Rect(40, 40, 50, 50),
	}

	indices, err := NMSBoxesWithParams(d, boxes, []float32{0.5, 0.6, 0.7}, p)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, indices)

	call, ok := lib.Last("NMSBoxes")
	require.True(t, ok)
	assert.Equal(t, p, call.Args[1])
}

func TestNMSBoxesIndicesAreUniqueAndInRange(t *testing.T) {

	d, _ := newTestDNN(t)
	rng := rand.New(rand.NewSource(7))

	for iter := 0; iter < 50; iter++ {

		n := rng.Intn(40)
		boxes := make([]image.Rectangle, n)
		scores := make([]float32, n)

		for i := range boxes {
			x, y := rng.Intn(200), rng.Intn(200)
			boxes[i] = image.Rect(x, y, x+1+rng.Intn(60), y+1+rng.Intn(60))
			scores[i] = rng.Float32()
		}

		indices, err := NMSBoxesWithParams(d, boxes, scores, DefaultNMSParams(0.2, 0.5))
		require.NoError(t, err)

		seen := make(map[int]bool)

		for _, idx := range indices {
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, n)
			assert.False(t, seen[idx], "index %d returned twice", idx)
			assert.Greater(t, scores[idx], float32(0.2))
			seen[idx] = true
		}
	}
}

func TestNMSBoxesArguments(t *testing.T) {

	d, lib := newTestDNN(t)

	_, err := NMSBoxesWithParams[image.Rectangle](d, nil, []float32{}, DefaultNMSParams(0.5, 0.4))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NMSBoxesWithParams(d, []native.Rect2d{}, nil, DefaultNMSParams(0.5, 0.4))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var aerr *ArgumentError
	_, err = NMSBoxesWithParams(nil, []image.Rectangle{}, []float32{}, DefaultNMSParams(0.5, 0.4))
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "d", aerr.Name)

	assert.Empty(t, lib.Calls())

	// empty inputs are valid and keep nothing
	indices, err := NMSBoxesWithParams(d, []image.Rectangle{}, []float32{}, DefaultNMSParams(0.5, 0.4))
	require.NoError(t, err)
	assert.Empty(t, indices)
}

func TestNMSBoxesNativeFailureReleasesVectors(t *testing.T) {

	d, lib := newTestDNN(t)
	lib.FailOn("NMSBoxes", "bboxes.size() == scores.size()")

	indices, err := NMSBoxesWithParams(d, []image.Rectangle{image.Rect(0, 0, 1, 1)},
		[]float32{0.5, 0.6}, DefaultNMSParams(0.1, 0.4))
	assert.Nil(t, indices)

	var nerr *NativeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "dnn_NMSBoxes_Rect", nerr.Op)
	assert.Equal(t, "bboxes.size() == scores.size()", nerr.Message)

	assert.Equal(t, 3, lib.CallCount("VectorNew"))
	assert.Equal(t, 3, lib.CallCount("VectorDelete"))
	assert.Zero(t, lib.Live())
}

func TestNMSBoxesVectorAllocationFailure(t *testing.T) {

	d, lib := newTestDNN(t)

	lib.FailOn("VectorNew", "out of memory")

	_, err := NMSBoxesWithParams(d, []image.Rectangle{}, []float32{}, DefaultNMSParams(0.1, 0.4))
	require.Error(t, err)

	assert.Zero(t, lib.CallCount("NMSBoxes"))
	assert.Zero(t, lib.Live())
}

func TestToNativeRects(t *testing.T) {

	got := toNativeRects([]image.Rectangle{image.Rect(5, 6, 15, 26)})
	assert.Equal(t, []native.Rect{{X: 5, Y: 6, Width: 10, Height: 20}}, got)
}
