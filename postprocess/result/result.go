// Package result holds the detection types produced by postprocess and
// consumed by render
package result

import (
	"fmt"
	"image"
)

// DetectionResult is implemented by every post processor output carrying
// bounding boxes
type DetectionResult interface {
	GetDetectResults() []DetectResult
}

// BoxRect are the dimensions of the bounding box of a detected object in
// source image pixels
type BoxRect struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// NewBoxRect converts an image.Rectangle into a BoxRect
func NewBoxRect(r image.Rectangle) BoxRect {
	return BoxRect{
		Left:   r.Min.X,
		Top:    r.Min.Y,
		Right:  r.Max.X,
		Bottom: r.Max.Y,
	}
}

// Rect returns the box as an image.Rectangle
func (b BoxRect) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom)
}

// DetectResult defines the attributes of a single object detected
type DetectResult struct {
	// Class is the line number in the labels file the network was trained
	// on defining the class of the detected object
	Class int
	// Box is the object location
	Box BoxRect
	// Probability is the confidence score of the object detected
	Probability float32
	// ID is unique among the results of one post processor
	ID int64
}

// Label returns "name score" for the result using the class names given,
// falling back to the class number when names does not cover it
func (d DetectResult) Label(names []string) string {

	if d.Class >= 0 && d.Class < len(names) {
		return fmt.Sprintf("%s %.2f", names[d.Class], d.Probability)
	}

	return fmt.Sprintf("class%d %.2f", d.Class, d.Probability)
}
