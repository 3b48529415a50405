package postprocess

import (
	"fmt"
	"image"
	"sort"

	cvdnn "github.com/swdee/go-cvdnn"
	"github.com/swdee/go-cvdnn/postprocess/result"
	"github.com/swdee/go-cvdnn/preprocess"
	"gonum.org/v1/gonum/floats"
)

// Layout is the arrangement of a YOLO output blob
type Layout int

const (
	// LayoutYOLOv8 is a (1, 4+classes, anchors) blob, each row holding one
	// attribute for all anchors, with no objectness score.  YOLOv8, YOLOv9
	// and YOLO11 ONNX exports produce it.
	LayoutYOLOv8 Layout = iota
	// LayoutYOLOv5 is a (1, anchors, 5+classes) blob, each row holding one
	// anchor with its objectness at index 4.  YOLOv5 and YOLOv7 ONNX exports
	// produce it.
	LayoutYOLOv5
)

// String returns the name of the layout
func (l Layout) String() string {
	switch l {
	case LayoutYOLOv8:
		return "yolov8"
	case LayoutYOLOv5:
		return "yolov5"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// attrs is the number of non class values per anchor
func (l Layout) attrs() int {
	if l == LayoutYOLOv5 {
		return 5
	}
	return 4
}

// YOLOParams defines the parameters used to decode a YOLO output blob
type YOLOParams struct {
	// Layout of the output blob
	Layout Layout
	// BoxThreshold is the minimum confidence score required for a bounding
	// box to be considered for suppression
	BoxThreshold float32
	// NMSThreshold is the maximum Intersection over Union allowed between
	// two boxes of the same class for both to be kept
	NMSThreshold float32
	// ObjectClassNum is the number of classes the network was trained with.
	// Zero takes the count from the blob shape.
	ObjectClassNum int
	// MaxObjectNumber caps the number of results returned, zero is no cap
	MaxObjectNumber int
}

// YOLOv8COCOParams returns YOLOParams for a YOLOv8 network trained on the
// COCO dataset featuring:
// - Object Classes: 80
// - Box Threshold: 0.25
// - NMS Threshold: 0.45
// - Maximum Object Number: 64
func YOLOv8COCOParams() YOLOParams {
	return YOLOParams{
		Layout:          LayoutYOLOv8,
		BoxThreshold:    0.25,
		NMSThreshold:    0.45,
		ObjectClassNum:  80,
		MaxObjectNumber: 64,
	}
}

// YOLOv5COCOParams returns the YOLOv8 COCO parameters for the YOLOv5 layout
func YOLOv5COCOParams() YOLOParams {
	p := YOLOv8COCOParams()
	p.Layout = LayoutYOLOv5
	return p
}

// YOLO decodes the output blob of a YOLO detection network into detection
// results
type YOLO struct {
	// Params are the decoding parameters
	Params YOLOParams
	dnn    *cvdnn.DNN
	idGen  *result.IDGenerator
}

// NewYOLO returns a YOLO post processor suppressing boxes through d, or the
// default DNN when d is nil
func NewYOLO(d *cvdnn.DNN, p YOLOParams) *YOLO {

	if d == nil {
		d = cvdnn.Default()
	}

	return &YOLO{
		Params: p,
		dnn:    d,
		idGen:  result.NewIDGenerator(),
	}
}

// YOLOResult defines a struct used for object detection results
type YOLOResult struct {
	DetectResults []result.DetectResult
}

// GetDetectResults returns the object detection results containing bounding
// boxes
func (r YOLOResult) GetDetectResults() []result.DetectResult {
	return r.DetectResults
}

// candidates are the anchors that passed the box threshold, boxes are in
// network input pixels
type candidates struct {
	boxes   []image.Rectangle
	scores  []float32
	classes []int
}

// DetectObjects decodes the network output blob out.  Boxes are mapped back
// onto the source image with resizer, or left in network input pixels when
// resizer is nil.
func (y *YOLO) DetectObjects(out *cvdnn.Mat, resizer *preprocess.Resizer) (YOLOResult, error) {

	dims, err := out.Dims()

	if err != nil {
		return YOLOResult{}, fmt.Errorf("error reading output dims: %w", err)
	}

	data, err := out.Float32s()

	if err != nil {
		return YOLOResult{}, fmt.Errorf("error reading output data: %w", err)
	}

	return y.Decode(data, dims, resizer)
}

// Decode is DetectObjects over an output blob already copied out of its Mat
func (y *YOLO) Decode(data []float32, dims []int, resizer *preprocess.Resizer) (YOLOResult, error) {

	rows, cols, err := matrixShape(dims)

	if err != nil {
		return YOLOResult{}, err
	}

	if len(data) != rows*cols {
		return YOLOResult{}, fmt.Errorf("%w: %d values for shape %v",
			ErrOutputShape, len(data), dims)
	}

	// attributes per anchor and number of anchors
	width, anchors := rows, cols

	if y.Params.Layout == LayoutYOLOv5 {
		width, anchors = cols, rows
	}

	classNum := width - y.Params.Layout.attrs()

	if classNum < 1 || (y.Params.ObjectClassNum > 0 && classNum != y.Params.ObjectClassNum) {
		return YOLOResult{}, fmt.Errorf("%w: %s layout %v does not hold %d classes",
			ErrOutputShape, y.Params.Layout, dims, y.Params.ObjectClassNum)
	}

	cand := y.collect(data, width, anchors, classNum)

	if len(cand.scores) == 0 {
		// no object detected
		return YOLOResult{}, nil
	}

	kept, err := y.suppress(cand)

	if err != nil {
		return YOLOResult{}, err
	}

	group := make([]result.DetectResult, 0, len(kept))

	for _, n := range kept {

		box := cand.boxes[n]

		if resizer != nil {
			box = resizer.ScaleBox(box)
		}

		group = append(group, result.DetectResult{
			Class:       cand.classes[n],
			Box:         result.NewBoxRect(box),
			Probability: cand.scores[n],
			ID:          y.idGen.GetNext(),
		})
	}

	return YOLOResult{
		DetectResults: group,
	}, nil
}

// collect scans every anchor, keeping those whose best class score exceeds
// the box threshold
func (y *YOLO) collect(data []float32, width, anchors, classNum int) candidates {

	var cand candidates

	// at returns attribute k of anchor a
	at := func(a, k int) float32 {
		if y.Params.Layout == LayoutYOLOv5 {
			return data[a*width+k]
		}
		return data[k*anchors+a]
	}

	first := y.Params.Layout.attrs()
	classScores := make([]float64, classNum)

	for a := 0; a < anchors; a++ {

		objectness := float32(1)

		if y.Params.Layout == LayoutYOLOv5 {
			objectness = at(a, 4)

			if objectness <= y.Params.BoxThreshold {
				continue
			}
		}

		for c := range classScores {
			classScores[c] = float64(at(a, first+c) * objectness)
		}

		classID := floats.MaxIdx(classScores)
		score := float32(classScores[classID])

		if score <= y.Params.BoxThreshold {
			continue
		}

		cx, cy := at(a, 0), at(a, 1)
		w, h := at(a, 2), at(a, 3)

		cand.boxes = append(cand.boxes, image.Rect(
			int(cx-w/2), int(cy-h/2), int(cx+w/2), int(cy+h/2)))
		cand.scores = append(cand.scores, score)
		cand.classes = append(cand.classes, classID)
	}

	return cand
}

// suppress runs non maximum suppression separately for each class and
// returns the surviving candidate indices by descending score
func (y *YOLO) suppress(cand candidates) ([]int, error) {

	byClass := make(map[int][]int)

	for i, c := range cand.classes {
		byClass[c] = append(byClass[c], i)
	}

	classIDs := make([]int, 0, len(byClass))

	for c := range byClass {
		classIDs = append(classIDs, c)
	}

	sort.Ints(classIDs)

	params := cvdnn.DefaultNMSParams(y.Params.BoxThreshold, y.Params.NMSThreshold)
	params.TopK = y.Params.MaxObjectNumber

	var kept []int

	for _, c := range classIDs {

		members := byClass[c]
		boxes := make([]image.Rectangle, len(members))
		scores := make([]float32, len(members))

		for i, n := range members {
			boxes[i] = cand.boxes[n]
			scores[i] = cand.scores[n]
		}

		indices, err := cvdnn.NMSBoxesWithParams(y.dnn, boxes, scores, params)

		if err != nil {
			return nil, fmt.Errorf("error suppressing class %d: %w", c, err)
		}

		for _, i := range indices {
			kept = append(kept, members[i])
		}
	}

	sort.SliceStable(kept, func(a, b int) bool {
		return cand.scores[kept[a]] > cand.scores[kept[b]]
	})

	if y.Params.MaxObjectNumber > 0 && len(kept) > y.Params.MaxObjectNumber {
		kept = kept[:y.Params.MaxObjectNumber]
	}

	return kept, nil
}
