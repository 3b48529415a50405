package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Alignment places a label along the top edge of its bounding box
type Alignment int

const (
	Left   Alignment = 1
	Center Alignment = 2
	Right  Alignment = 3
)

// Padding is the space in pixels between label text and the edges of its
// background
type Padding struct {
	Left, Right, Top, Bottom int
}

// Uniform pads every side by p
func Uniform(p int) Padding {
	return Padding{Left: p, Right: p, Top: p, Bottom: p}
}

// labelRect returns the background of a label with text of textSize resting
// on top of box.  The aligned side covers half of a box outline drawn with
// lineThickness.
func (a Alignment) labelRect(box image.Rectangle, textSize image.Point,
	pad Padding, lineThickness int) image.Rectangle {

	w := textSize.X + pad.Left + pad.Right
	h := textSize.Y + pad.Top + pad.Bottom

	var x int

	switch a {
	case Center:
		x = (box.Min.X+box.Max.X)/2 - w/2
	case Right:
		x = box.Max.X + lineThickness/2 - w
	default:
		x = box.Min.X - lineThickness/2
	}

	return image.Rect(x, box.Min.Y-h, x+w, box.Min.Y)
}

// Font is the Hershey font style used for DetectionBoxes labels
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	Pad       Padding
	Alignment Alignment
}

// DefaultFont returns a small white anti aliased left aligned font
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Color:     White,
		Thickness: 1,
		LineType:  gocv.LineAA,
		Pad:       Padding{Left: 4, Right: 4, Top: 4, Bottom: 6},
		Alignment: Left,
	}
}

// layoutLabel positions text and its background on top of box
func (f Font) layoutLabel(box image.Rectangle, text string, clr color.RGBA,
	lineThickness int) boxLabel {

	size := gocv.GetTextSize(text, f.Face, f.Scale, f.Thickness)
	bg := f.Alignment.labelRect(box, size, f.Pad, lineThickness)

	return boxLabel{
		rect: bg,
		clr:  clr,
		text: text,
		// Hershey text is anchored at the left end of its baseline
		textPos: image.Pt(bg.Min.X+f.Pad.Left, bg.Max.Y-f.Pad.Bottom),
	}
}

// draw fills the label background and writes its text
func (f Font) draw(img *gocv.Mat, l boxLabel) {

	gocv.Rectangle(img, l.rect, l.clr, -1)

	gocv.PutTextWithParams(img, l.text, l.textPos, f.Face, f.Scale, f.Color,
		f.Thickness, f.LineType, false)
}
