package preprocess

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Resizer letterboxes source images into the input size of a network and
// maps regions found in network space back onto the source image
type Resizer struct {
	// srcWidth and srcHeight are the dimensions of the source image
	srcWidth  int
	srcHeight int
	// netWidth and netHeight are the dimensions of the network input
	netWidth  int
	netHeight int
	// scaled holds the aspect preserving resize before padding
	scaled gocv.Mat
	// letterbox geometry
	xPad    int
	yPad    int
	scale   float32
	resizeW int
	resizeH int
}

// NewResizer returns a Resizer scaling srcWidth x srcHeight images into a
// netWidth x netHeight network input
func NewResizer(srcWidth, srcHeight, netWidth, netHeight int) *Resizer {
	r := &Resizer{
		srcWidth:  srcWidth,
		srcHeight: srcHeight,
		netWidth:  netWidth,
		netHeight: netHeight,
		scaled:    gocv.NewMat(),
	}

	r.calcGeometry()

	return r
}

// Close frees the intermediate Mat
func (r *Resizer) Close() error {
	return r.scaled.Close()
}

// calcGeometry works out the scale factor and padding so the source fits
// inside the network input along its tighter axis
func (r *Resizer) calcGeometry() {

	scaleW := float32(r.netWidth) / float32(r.srcWidth)
	scaleH := float32(r.netHeight) / float32(r.srcHeight)

	r.resizeW = r.netWidth
	r.resizeH = r.netHeight

	if scaleW < scaleH {
		r.scale = scaleW
		r.resizeH = int(float32(r.srcHeight) * r.scale)
	} else {
		r.scale = scaleH
		r.resizeW = int(float32(r.srcWidth) * r.scale)
	}

	r.xPad = (r.netWidth - r.resizeW) / 2
	r.yPad = (r.netHeight - r.resizeH) / 2
}

// LetterBoxResize resizes src into dest at the network input size keeping
// the aspect ratio, filling the borders with pad
func (r *Resizer) LetterBoxResize(src gocv.Mat, dest *gocv.Mat, pad color.RGBA) {

	gocv.Resize(src, &r.scaled, image.Pt(r.resizeW, r.resizeH),
		0, 0, gocv.InterpolationArea)

	gocv.CopyMakeBorder(r.scaled, dest,
		r.yPad, r.netHeight-r.resizeH-r.yPad,
		r.xPad, r.netWidth-r.resizeW-r.xPad,
		gocv.BorderConstant, pad)
}

// ScaleBox maps a box given in network input coordinates onto the source
// image, removing the letterbox padding and clamping to the image bounds
func (r *Resizer) ScaleBox(box image.Rectangle) image.Rectangle {

	toSrc := func(v, pad, limit int) int {
		s := int(float32(v-pad) / r.scale)

		if s < 0 {
			return 0
		}

		if s > limit {
			return limit
		}

		return s
	}

	return image.Rect(
		toSrc(box.Min.X, r.xPad, r.srcWidth),
		toSrc(box.Min.Y, r.yPad, r.srcHeight),
		toSrc(box.Max.X, r.xPad, r.srcWidth),
		toSrc(box.Max.Y, r.yPad, r.srcHeight),
	)
}

// ScaleFactor returns the factor source pixels are multiplied by
func (r *Resizer) ScaleFactor() float32 {
	return r.scale
}

// XPad returns the horizontal letterbox padding on the left edge
func (r *Resizer) XPad() int {
	return r.xPad
}

// YPad returns the vertical letterbox padding on the top edge
func (r *Resizer) YPad() int {
	return r.yPad
}

// SrcWidth returns the width of the source image
func (r *Resizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source image
func (r *Resizer) SrcHeight() int {
	return r.srcHeight
}

// NetWidth returns the width of the network input
func (r *Resizer) NetWidth() int {
	return r.netWidth
}

// NetHeight returns the height of the network input
func (r *Resizer) NetHeight() int {
	return r.netHeight
}
