package blobpaint

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// ErrFormat matches every *FormatError with errors.Is.
var ErrFormat = errors.New("blobpaint: bad pixel buffer")

// FormatError reports a raw buffer whose shape does not match its dimensions.
type FormatError struct {
	Op     string
	Len    int
	W, H   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("blobpaint: %s %dx%d (%d bytes): %s", e.Op, e.W, e.H, e.Len, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// ChannelOrder is the byte order of one pixel in a raw buffer.
type ChannelOrder int

const (
	RGBA ChannelOrder = iota
	BGRA
)

func (o ChannelOrder) String() string {
	switch o {
	case BGRA:
		return "bgra"
	default:
		return "rgba"
	}
}

// Decode interprets buf as tightly packed 4-byte pixels.
func Decode(buf []byte, w, h int, order ChannelOrder) (*Bitmap, error) {
	if len(buf)%4 != 0 {
		return nil, &FormatError{Op: "decode", Len: len(buf), W: w, H: h, Reason: "length is not a multiple of 4"}
	}
	return DecodeStride(buf, w, h, 0, order)
}

// DecodeStride interprets buf as h rows of stride bytes each, the layout Encode writes.
// A stride of 0 means tightly packed rows. Bytes past W*4 in each row are ignored.
func DecodeStride(buf []byte, w, h, stride int, order ChannelOrder) (*Bitmap, error) {
	if w < 0 || h < 0 {
		return nil, &FormatError{Op: "decode", Len: len(buf), W: w, H: h, Reason: "negative dimension"}
	}
	if sizeOverflows(w, h, 4) {
		return nil, &FormatError{Op: "decode", Len: len(buf), W: w, H: h, Reason: "dimensions overflow"}
	}
	rowLen := w * 4
	if stride == 0 {
		stride = rowLen
	}
	if stride < rowLen {
		return nil, &FormatError{Op: "decode", Len: len(buf), W: w, H: h, Reason: fmt.Sprintf("stride %d is narrower than a row", stride)}
	}
	if sizeOverflows(stride, h, 1) {
		return nil, &FormatError{Op: "decode", Len: len(buf), W: w, H: h, Reason: "stride overflows"}
	}
	if len(buf) != stride*h {
		return nil, &FormatError{Op: "decode", Len: len(buf), W: w, H: h, Reason: fmt.Sprintf("want %d bytes", stride*h)}
	}
	bm := NewBitmap(w, h)
	for y := range h {
		row := buf[pixOffset(stride, 0, y):]
		for x := range w {
			bm.Pix[labelOffset(w, x, y)] = readPixel(row[x*4:x*4+4], order)
		}
	}
	return bm, nil
}

// Encode writes bm row by row at the given stride. A stride of 0 packs rows tightly.
// Padding bytes past W*4 in each row are left zero.
func Encode(bm *Bitmap, stride int, order ChannelOrder) ([]byte, error) {
	if bm.W < 0 || bm.H < 0 || sizeOverflows(bm.W, bm.H, 4) {
		return nil, &FormatError{Op: "encode", Len: len(bm.Pix) * 4, W: bm.W, H: bm.H, Reason: "bad dimensions"}
	}
	rowLen := bm.W * 4
	if stride == 0 {
		stride = rowLen
	}
	if stride < rowLen {
		return nil, &FormatError{Op: "encode", Len: len(bm.Pix) * 4, W: bm.W, H: bm.H, Reason: fmt.Sprintf("stride %d is narrower than a row", stride)}
	}
	if sizeOverflows(stride, bm.H, 1) {
		return nil, &FormatError{Op: "encode", Len: len(bm.Pix) * 4, W: bm.W, H: bm.H, Reason: "stride overflows"}
	}
	if len(bm.Pix) != bm.W*bm.H {
		return nil, &FormatError{Op: "encode", Len: len(bm.Pix) * 4, W: bm.W, H: bm.H, Reason: "pixel count does not match dimensions"}
	}
	out := make([]byte, stride*bm.H)
	for y := range bm.H {
		off := pixOffset(stride, 0, y)
		encodeRow(out[off:off+rowLen], bm.Pix[y*bm.W:(y+1)*bm.W], order)
	}
	return out, nil
}

// sizeOverflows reports whether a*b*unit exceeds math.MaxInt. a and b are non-negative.
func sizeOverflows(a, b, unit int) bool {
	return a != 0 && b > math.MaxInt/unit/a
}

func encodeRow(dst []byte, row []color.NRGBA, order ChannelOrder) {
	for x, c := range row {
		off := x * 4
		writePixel(dst[off:off+4], c, order)
	}
}

func readPixel(p []byte, order ChannelOrder) color.NRGBA {
	if order == BGRA {
		return color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]}
	}
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func writePixel(p []byte, c color.NRGBA, order ChannelOrder) {
	if order == BGRA {
		p[0], p[1], p[2], p[3] = c.B, c.G, c.R, c.A
		return
	}
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// FromImage copies img into a new Bitmap. *image.NRGBA sources are read row by row
// through their stride, anything else goes through draw.
func FromImage(img image.Image) *Bitmap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	src, ok := img.(*image.NRGBA)
	if !ok {
		src = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)
		b = src.Bounds()
	}
	bm := NewBitmap(w, h)
	for y := range h {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := range w {
			bm.Pix[labelOffset(w, x, y)] = readPixel(row[x*4:x*4+4], RGBA)
		}
	}
	return bm
}

// Image returns bm as an *image.NRGBA.
func (bm *Bitmap) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, bm.W, bm.H))
	pix, err := Encode(bm, img.Stride, RGBA)
	if err != nil {
		// Stride always equals W*4 here, so only a malformed Pix slice lands here.
		panic(err)
	}
	copy(img.Pix, pix)
	return img
}
