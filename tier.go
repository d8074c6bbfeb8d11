package blobpaint

import (
	"image"
	"image/color"
	"math/rand/v2"
	"slices"

	"github.com/samber/lo"
)

// NumTiers is the length of the ladder. Colors past its cumulative capacity land in
// OverflowTier.
const (
	NumTiers     = 8
	OverflowTier = NumTiers
)

// TierCapacity holds descending powers of 3, 3^7 down to 3^0.
var TierCapacity = [NumTiers]int{2187, 729, 243, 81, 27, 9, 3, 1}

// TierGray is the output color of each tier.
var TierGray = [NumTiers]color.NRGBA{
	{R: 224, G: 224, B: 224, A: 255},
	{R: 196, G: 196, B: 196, A: 255},
	{R: 168, G: 168, B: 168, A: 255},
	{R: 140, G: 140, B: 140, A: 255},
	{R: 112, G: 112, B: 112, A: 255},
	{R: 84, G: 84, B: 84, A: 255},
	{R: 56, G: 56, B: 56, A: 255},
	{R: 28, G: 28, B: 28, A: 255},
}

// CumulativeCapacity returns the number of colors that fit in tiers 0..t.
func CumulativeCapacity(t int) int {
	t = clampInt(t, -1, NumTiers-1)
	return lo.Sum(TierCapacity[:t+1])
}

// TierOf returns the tier of the color at running index k.
func TierOf(k int) int {
	for t := range NumTiers {
		if k < CumulativeCapacity(t) {
			return t
		}
	}
	return OverflowTier
}

// AssignTiers ranks the colors of cc and buckets them into the ladder. The rank is by
// count, most frequent first; the shuffle only breaks ties between equal counts. The
// rarest colors therefore end up in the smallest tiers.
func AssignTiers(cc *ColorCounts, rng *rand.Rand) map[color.NRGBA]int {
	order := slices.Clone(cc.Colors)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	slices.SortStableFunc(order, func(a, b color.NRGBA) int {
		return cc.Count[b] - cc.Count[a]
	})

	tiers := make(map[color.NRGBA]int, len(order))
	t := 0
	for k, c := range order {
		for t < NumTiers && k >= CumulativeCapacity(t) {
			t++
		}
		tiers[c] = t
	}
	return tiers
}

// Extract renders the tier image of bm: edge pixels white, overflow black, everything
// else the gray of its color's tier.
func Extract(bm *Bitmap, rng *rand.Rand) *Bitmap {
	return RenderTiers(bm, AssignTiers(CountColors(bm), rng))
}

// RenderTiers paints bm with a precomputed tier assignment.
func RenderTiers(bm *Bitmap, tiers map[color.NRGBA]int) *Bitmap {
	out := &Bitmap{W: bm.W, H: bm.H, Pix: make([]color.NRGBA, len(bm.Pix))}
	for i, c := range bm.Pix {
		out.Pix[i] = tierColor(c, tiers)
	}
	return out
}

func tierColor(c color.NRGBA, tiers map[color.NRGBA]int) color.NRGBA {
	if IsEdge(c) {
		return White
	}
	t := tiers[c]
	if t >= NumTiers {
		return Black
	}
	return TierGray[t]
}

// TierLayers returns one mask per tier, overflow included, with 255 where a pixel's color
// falls into that tier.
func TierLayers(bm *Bitmap, tiers map[color.NRGBA]int) []*image.Gray {
	out := make([]*image.Gray, NumTiers+1)
	for t := range out {
		out[t] = image.NewGray(image.Rect(0, 0, bm.W, bm.H))
	}
	for i, c := range bm.Pix {
		if IsEdge(c) {
			continue
		}
		t, ok := tiers[c]
		if !ok {
			continue
		}
		out[t].Pix[i] = 255
	}
	return out
}

func clampInt(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
