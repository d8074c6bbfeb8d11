package blobpaint

import (
	"image/color"
	"math/rand/v2"
)

// RecolorMode selects how fresh colors are handed out to blobs.
type RecolorMode int

const (
	// Contiguous gives every connected blob its own color, even blobs that shared
	// an original color.
	Contiguous RecolorMode = iota
	// Grouped gives one color per distinct original color.
	Grouped
)

func (m RecolorMode) String() string {
	switch m {
	case Grouped:
		return "grouped"
	default:
		return "contiguous"
	}
}

// Channel bounds for generated colors. They keep fresh colors away from the edge colors.
const (
	MinChannel = 100
	MaxChannel = 240
)

// ColorSource yields fresh colors for recoloring.
type ColorSource interface {
	Next() color.NRGBA
}

// RandomColors draws opaque colors with every channel in [MinChannel, MaxChannel].
type RandomColors struct {
	rng *rand.Rand
}

func NewRandomColors(rng *rand.Rand) *RandomColors {
	return &RandomColors{rng: rng}
}

func (rc *RandomColors) Next() color.NRGBA {
	ch := func() uint8 {
		return uint8(MinChannel + rc.rng.IntN(MaxChannel-MinChannel+1))
	}
	return color.NRGBA{R: ch(), G: ch(), B: ch(), A: 255}
}

// Recolor paints each blob of bm with a color from src. Pixels outside every blob keep
// their value. bm is not modified.
func Recolor(bm *Bitmap, blobs []Blob, mode RecolorMode, src ColorSource) *Bitmap {
	out := bm.Clone()
	var byColor map[color.NRGBA]color.NRGBA
	if mode == Grouped {
		byColor = make(map[color.NRGBA]color.NRGBA)
	}
	for _, blob := range blobs {
		var c color.NRGBA
		if mode == Grouped {
			var ok bool
			if c, ok = byColor[blob.Color]; !ok {
				c = src.Next()
				byColor[blob.Color] = c
			}
		} else {
			c = src.Next()
		}
		for _, i := range blob.Pixels {
			out.Pix[i] = c
		}
	}
	return out
}

// Repaint detects exact-color blobs in bm and recolors them.
func Repaint(bm *Bitmap, mode RecolorMode, src ColorSource) *Bitmap {
	return Recolor(bm, FindBlobs(bm, ExactMatch), mode, src)
}
