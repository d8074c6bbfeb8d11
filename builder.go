package blobpaint

import (
	"image/color"
	"math/rand/v2"
)

type Options struct {
	// Byte layout of raw input and output buffers.
	Order ChannelOrder
	// Output rows are padded to a multiple of RowAlign bytes.
	// 0 or 1 packs rows tightly (stride = width*4). GPU and UI surfaces commonly use 64.
	// Inputs are always read tightly packed, so padded output has to go through
	// DecodeStride before it is handed back to a Builder.
	RowAlign int
	// Seed for the recolor generator and the tier shuffle.
	// Equal seeds over equal inputs give equal outputs.
	Seed uint64
	// Color written by Border when the caller passes the zero color.
	BorderColor color.NRGBA
}

func DefaultOptions() Options {
	return Options{
		Order:       RGBA,
		RowAlign:    0,
		Seed:        1,
		BorderColor: color.NRGBA{R: 255, G: 0, B: 0, A: 255},
	}
}

// Stride returns the output row length in bytes for an image of width w.
func (o Options) Stride(w int) int {
	row := w * 4
	if o.RowAlign <= 1 {
		return row
	}
	return (row + o.RowAlign - 1) / o.RowAlign * o.RowAlign
}

// Builder runs the pipeline operations over raw pixel buffers. Each call decodes its
// input, fails fast on a malformed buffer, and returns a freshly encoded result.
// A Builder owns its random source and is not safe for concurrent use.
type Builder struct {
	opt    Options
	rng    *rand.Rand
	colors *RandomColors
}

// NewRand returns the PCG source used for a given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func NewBuilder(opt Options) *Builder {
	rng := NewRand(opt.Seed)
	return &Builder{
		opt:    opt,
		rng:    rng,
		colors: NewRandomColors(rng),
	}
}

// Log returns the color report of the image in buf.
func (b *Builder) Log(buf []byte, w, h int) (string, error) {
	bm, err := Decode(buf, w, h, b.opt.Order)
	if err != nil {
		return "", err
	}
	return Report(bm), nil
}

// Repaint recolors every blob of the image in buf. contiguous selects one color per
// connected blob; otherwise one color per original color.
func (b *Builder) Repaint(buf []byte, w, h int, contiguous bool) ([]byte, error) {
	bm, err := Decode(buf, w, h, b.opt.Order)
	if err != nil {
		return nil, err
	}
	mode := Grouped
	if contiguous {
		mode = Contiguous
	}
	return b.encode(Repaint(bm, mode, b.colors))
}

// Border outlines every blob of the image in buf with border. The zero color selects
// Options.BorderColor.
func (b *Builder) Border(buf []byte, w, h int, border color.NRGBA) ([]byte, error) {
	bm, err := Decode(buf, w, h, b.opt.Order)
	if err != nil {
		return nil, err
	}
	if border == (color.NRGBA{}) {
		border = b.opt.BorderColor
	}
	return b.encode(TraceBorders(bm, border))
}

// Extract renders the rarity tier image of the image in buf.
func (b *Builder) Extract(buf []byte, w, h int) ([]byte, error) {
	bm, err := Decode(buf, w, h, b.opt.Order)
	if err != nil {
		return nil, err
	}
	return b.encode(Extract(bm, b.rng))
}

func (b *Builder) encode(bm *Bitmap) ([]byte, error) {
	return Encode(bm, b.opt.Stride(bm.W), b.opt.Order)
}
