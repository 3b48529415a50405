// Package render draws post processing results onto gocv images
package render

import (
	"image"
	"image/color"

	"github.com/swdee/go-cvdnn/postprocess/result"
	"gocv.io/x/gocv"
)

// boxLabel is a label background and text waiting to be drawn
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// DetectionBoxes draws a rectangle around each detected object and a label
// with its class name and probability above it.  classNames is indexed by
// DetectResult.Class.
func DetectionBoxes(img *gocv.Mat, detectResults []result.DetectResult,
	classNames []string, font Font, lineThickness int) {

	labels := make([]boxLabel, 0, len(detectResults))

	for _, det := range detectResults {

		clr := ClassColor(det.Class)
		rect := det.Box.Rect()

		gocv.Rectangle(img, rect, clr, lineThickness)

		labels = append(labels, font.layoutLabel(rect, det.Label(classNames),
			clr, lineThickness))
	}

	// labels go last so no box line is drawn over them
	for _, l := range labels {
		font.draw(img, l)
	}
}
