package blobpaint

import "image/color"

// Edge colors. Pixels of these colors are background and never belong to a blob.
var (
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// Bitmap is a decoded, row-major pixel buffer.
type Bitmap struct {
	W, H int
	Pix  []color.NRGBA // len = W*H
}

func NewBitmap(w, h int) *Bitmap {
	w, h = max(w, 0), max(h, 0)
	return &Bitmap{W: w, H: h, Pix: make([]color.NRGBA, w*h)}
}

func (bm *Bitmap) Clone() *Bitmap {
	out := &Bitmap{W: bm.W, H: bm.H, Pix: make([]color.NRGBA, len(bm.Pix))}
	copy(out.Pix, bm.Pix)
	return out
}

func (bm *Bitmap) At(x, y int) color.NRGBA {
	return bm.Pix[labelOffset(bm.W, x, y)]
}

func (bm *Bitmap) Set(x, y int, c color.NRGBA) {
	bm.Pix[labelOffset(bm.W, x, y)] = c
}

// IsEdge reports whether c is opaque white, opaque black or fully transparent.
func IsEdge(c color.NRGBA) bool {
	if c.A == 0 {
		return true
	}
	return c == White || c == Black
}

func labelOffset(w, x, y int) int {
	return y*w + x
}

func pixOffset(stride, x, y int) int {
	return y*stride + x*4
}
