package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/swdee/go-cvdnn/postprocess/result"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// TTF draws text with a TrueType or OpenType font.  Unlike the Hershey
// fonts gocv provides it renders any glyph the font holds, such as class
// names in Chinese.  A TTF is safe for concurrent use.
type TTF struct {
	// mu guards face, which caches glyphs
	mu   sync.Mutex
	face font.Face
	// Pad and Alignment place labels as they do for Font
	Pad       Padding
	Alignment Alignment
}

// LoadTTF loads the font file at path at the given point size
func LoadTTF(path string, size float64) (*TTF, error) {

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	return ParseTTF(data, size)
}

// ParseTTF parses font data at the given point size
func ParseTTF(data []byte, size float64) (*TTF, error) {

	f, err := opentype.Parse(data)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create type face: %w", err)
	}

	return &TTF{face: face, Pad: Uniform(4), Alignment: Left}, nil
}

// Close releases the font face
func (t *TTF) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.face.Close()
}

// TextSize returns the width and line height of text
func (t *TTF) TextSize(text string) image.Point {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.textSize(text)
}

func (t *TTF) textSize(text string) image.Point {
	m := t.face.Metrics()
	return image.Pt(font.MeasureString(t.face, text).Ceil(), (m.Ascent + m.Descent).Ceil())
}

func (t *TTF) ascent() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.face.Metrics().Ascent.Ceil()
}

// PutText draws text onto an 8 bit BGR image with the left end of its
// baseline at org, clipped to the image
func (t *TTF) PutText(img *gocv.Mat, text string, org image.Point, clr color.RGBA) error {

	if img.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("PutText needs a CV_8UC3 image, got type %d", img.Type())
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	size := t.textSize(text)
	ascent := t.face.Metrics().Ascent.Ceil()

	area := image.Rect(org.X, org.Y-ascent, org.X+size.X, org.Y-ascent+size.Y).
		Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))

	if area.Empty() {
		return nil
	}

	// glyph coverage for the text area only
	mask := image.NewAlpha(image.Rect(0, 0, area.Dx(), area.Dy()))

	dr := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: t.face,
		Dot:  fixed.P(org.X-area.Min.X, org.Y-area.Min.Y),
	}
	dr.DrawString(text)

	bgr := [3]uint32{uint32(clr.B), uint32(clr.G), uint32(clr.R)}

	for y := 0; y < area.Dy(); y++ {
		for x := 0; x < area.Dx(); x++ {

			a := uint32(mask.AlphaAt(x, y).A)

			if a == 0 {
				continue
			}

			row, col := area.Min.Y+y, (area.Min.X+x)*3

			for c := 0; c < 3; c++ {
				dst := uint32(img.GetUCharAt(row, col+c))
				img.SetUCharAt(row, col+c, uint8((dst*(255-a)+bgr[c]*a)/255))
			}
		}
	}

	return nil
}

// DetectionBoxesTTF is DetectionBoxes drawing the labels with a TTF font in
// textColor
func DetectionBoxesTTF(img *gocv.Mat, detectResults []result.DetectResult,
	classNames []string, ttf *TTF, textColor color.RGBA, lineThickness int) error {

	for _, det := range detectResults {
		gocv.Rectangle(img, det.Box.Rect(), ClassColor(det.Class), lineThickness)
	}

	// labels go last so no box line is drawn over them
	for _, det := range detectResults {

		text := det.Label(classNames)
		size := ttf.TextSize(text)
		box := det.Box.Rect()

		bg := ttf.Alignment.labelRect(box, size, ttf.Pad, lineThickness)
		gocv.Rectangle(img, bg, ClassColor(det.Class), -1)

		org := image.Pt(bg.Min.X+ttf.Pad.Left, bg.Min.Y+ttf.Pad.Top+ttf.ascent())

		if err := ttf.PutText(img, text, org, textColor); err != nil {
			return err
		}
	}

	return nil
}
