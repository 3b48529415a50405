package cvdnn

import (
	"image"

	"github.com/swdee/go-cvdnn/native"
)

// Box is the set of bounding region geometries NMSBoxes accepts
type Box interface {
	image.Rectangle | native.Rect2d | native.RotatedRect
}

// NMSParams are the suppression thresholds and coefficients
type NMSParams = native.NMSParams

// DefaultNMSParams returns NMSParams for the given thresholds with eta 1.0
// and no cap on the number of kept boxes
func DefaultNMSParams(scoreThreshold, nmsThreshold float32) NMSParams {
	return NMSParams{
		ScoreThreshold: scoreThreshold,
		NMSThreshold:   nmsThreshold,
		Eta:            1.0,
		TopK:           0,
	}
}

// NMSBoxes performs non maximum suppression on bboxes with their parallel
// scores using the default DNN.  It returns the indices into bboxes of the
// boxes kept, in the order produced by the native library.
func NMSBoxes[B Box](bboxes []B, scores []float32, scoreThreshold, nmsThreshold float32) ([]int, error) {
	return NMSBoxesWithParams(std, bboxes, scores,
		DefaultNMSParams(scoreThreshold, nmsThreshold))
}

// NMSBoxesWithParams performs non maximum suppression using d.  d, bboxes
// and scores must not be nil, a length mismatch between bboxes and scores is
// left to the native library to detect.  Eta and TopK are forwarded verbatim.
func NMSBoxesWithParams[B Box](d *DNN, bboxes []B, scores []float32, p NMSParams) ([]int, error) {

	if d == nil {
		return nil, nilArg("d")
	}

	if bboxes == nil {
		return nil, nilArg("bboxes")
	}

	if scores == nil {
		return nil, nilArg("scores")
	}

	var (
		geometry native.Geometry
		boxVec   native.Handle
	)

	// marshal the geometry into its native vector, released on every path
	switch bb := any(bboxes).(type) {
	case []image.Rectangle:
		vec, err := newVector(d, native.VectorRect, toNativeRects(bb))

		if err != nil {
			return nil, err
		}

		defer vec.close()
		geometry, boxVec = native.GeometryRect, vec.handle()

	case []native.Rect2d:
		vec, err := newVector(d, native.VectorRect2d, bb)

		if err != nil {
			return nil, err
		}

		defer vec.close()
		geometry, boxVec = native.GeometryRect2d, vec.handle()

	case []native.RotatedRect:
		vec, err := newVector(d, native.VectorRotatedRect, bb)

		if err != nil {
			return nil, err
		}

		defer vec.close()
		geometry, boxVec = native.GeometryRotatedRect, vec.handle()
	}

	scoresVec, err := newVector(d, native.VectorFloat32, scores)

	if err != nil {
		return nil, err
	}

	defer scoresVec.close()

	indicesVec, err := newVector[int32](d, native.VectorInt32, nil)

	if err != nil {
		return nil, err
	}

	defer indicesVec.close()

	err = d.invoke("dnn_NMSBoxes_"+geometry.String(), func() native.Status {
		return d.lib.NMSBoxes(geometry, boxVec, scoresVec.handle(), indicesVec.handle(), p)
	})

	if err != nil {
		return nil, err
	}

	raw, err := indicesVec.toSlice()

	if err != nil {
		return nil, err
	}

	indices := make([]int, len(raw))

	for i, v := range raw {
		indices[i] = int(v)
	}

	return indices, nil
}

// toNativeRects converts rectangles to the native x, y, width, height layout
func toNativeRects(rects []image.Rectangle) []native.Rect {

	out := make([]native.Rect, len(rects))

	for i, r := range rects {
		out[i] = native.Rect{
			X:      int32(r.Min.X),
			Y:      int32(r.Min.Y),
			Width:  int32(r.Dx()),
			Height: int32(r.Dy()),
		}
	}

	return out
}
