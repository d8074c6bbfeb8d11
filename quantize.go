package blobpaint

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Quantize snaps every non-edge pixel of bm to the nearest palette color in CIE Lab.
// Photographs rarely contain runs of identical pixels, so this pass makes blob detection
// useful on them. Edge pixels are copied. An empty palette returns a plain copy.
func Quantize(bm *Bitmap, palette []colorful.Color) *Bitmap {
	out := bm.Clone()
	if len(palette) == 0 {
		return out
	}
	targets := make([]color.NRGBA, len(palette))
	for i, p := range palette {
		r, g, b := p.Clamped().RGB255()
		targets[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
		// A pixel snapped onto white or black would leave its blob.
		switch targets[i] {
		case White:
			targets[i] = color.NRGBA{R: 254, G: 254, B: 254, A: 255}
		case Black:
			targets[i] = color.NRGBA{R: 1, G: 1, B: 1, A: 255}
		}
	}

	memo := make(map[color.NRGBA]color.NRGBA)
	for i, c := range bm.Pix {
		if IsEdge(c) {
			continue
		}
		q, ok := memo[c]
		if !ok {
			q = nearest(c, palette, targets)
			memo[c] = q
		}
		out.Pix[i] = q
	}
	return out
}

func nearest(c color.NRGBA, palette []colorful.Color, targets []color.NRGBA) color.NRGBA {
	src := colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
	best := 0
	bestD := math.MaxFloat64
	for i, p := range palette {
		d := src.DistanceLab(p)
		if d < bestD {
			bestD = d
			best = i
		}
	}
	q := targets[best]
	q.A = c.A
	return q
}
