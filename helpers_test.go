package blobpaint_test

import (
	"image/color"
	"math/rand/v2"
	"unicode/utf8"

	"github.com/setanarut/blobpaint"
)

var (
	red         = color.NRGBA{R: 255, A: 255}
	green       = color.NRGBA{G: 255, A: 255}
	blue        = color.NRGBA{B: 255, A: 255}
	gold        = color.NRGBA{R: 200, G: 160, B: 20, A: 255}
	transparent = color.NRGBA{R: 12, G: 34, B: 56, A: 0}
)

var legend = map[rune]color.NRGBA{
	'.': blobpaint.White,
	'#': blobpaint.Black,
	'_': transparent,
	'R': red,
	'G': green,
	'B': blue,
	'Y': gold,
}

// makeBitmap builds a bitmap from rows of legend runes.
func makeBitmap(rows ...string) *blobpaint.Bitmap {
	if len(rows) == 0 {
		return blobpaint.NewBitmap(0, 0)
	}
	bm := blobpaint.NewBitmap(utf8.RuneCountInString(rows[0]), len(rows))
	i := 0
	for _, row := range rows {
		for _, ch := range row {
			bm.Pix[i] = legend[ch]
			i++
		}
	}
	return bm
}

// randomBitmap fills a w×h bitmap from a small palette that includes the edge colors,
// so blobs of many shapes appear.
func randomBitmap(seed uint64, w, h int) *blobpaint.Bitmap {
	rng := rand.New(rand.NewPCG(seed, seed))
	palette := []color.NRGBA{red, green, blue, blobpaint.White, blobpaint.Black, transparent}
	bm := blobpaint.NewBitmap(w, h)
	for i := range bm.Pix {
		bm.Pix[i] = palette[rng.IntN(len(palette))]
	}
	return bm
}

// seqColors hands out a fixed sequence of colors and then repeats the last one.
type seqColors struct {
	colors []color.NRGBA
	next   int
}

func (s *seqColors) Next() color.NRGBA {
	c := s.colors[min(s.next, len(s.colors)-1)]
	s.next++
	return c
}

// distinct returns the set of colors present in bm.
func distinct(bm *blobpaint.Bitmap) map[color.NRGBA]int {
	out := map[color.NRGBA]int{}
	for _, c := range bm.Pix {
		out[c]++
	}
	return out
}
