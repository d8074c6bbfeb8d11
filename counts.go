package blobpaint

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// ColorCounts is the frequency map of the non-edge colors of one bitmap.
type ColorCounts struct {
	W      int
	Colors []color.NRGBA // first-seen order
	Count  map[color.NRGBA]int
	Points map[color.NRGBA][]int // flat indices in row-major order
}

// CountColors scans bm once and records every non-edge color with its pixels.
func CountColors(bm *Bitmap) *ColorCounts {
	cc := &ColorCounts{
		W:      bm.W,
		Count:  make(map[color.NRGBA]int),
		Points: make(map[color.NRGBA][]int),
	}
	for i, c := range bm.Pix {
		if IsEdge(c) {
			continue
		}
		if _, seen := cc.Count[c]; !seen {
			cc.Colors = append(cc.Colors, c)
		}
		cc.Count[c]++
		cc.Points[c] = append(cc.Points[c], i)
	}
	return cc
}

// Ascending returns the distinct colors sorted by pixel count, ties in first-seen order.
func (cc *ColorCounts) Ascending() []color.NRGBA {
	out := slices.Clone(cc.Colors)
	slices.SortStableFunc(out, func(a, b color.NRGBA) int {
		return cc.Count[a] - cc.Count[b]
	})
	return out
}

// Report renders the color dump, one line per distinct non-edge color, rarest first:
//
//	Color: R,G,B, Count: N, Points: (x1,y1),(x2,y2),...
func Report(bm *Bitmap) string {
	cc := CountColors(bm)
	var sb strings.Builder
	for _, c := range cc.Ascending() {
		points := lo.Map(cc.Points[c], func(i int, _ int) string {
			return fmt.Sprintf("(%d,%d)", i%cc.W, i/cc.W)
		})
		fmt.Fprintf(&sb, "Color: %d,%d,%d, Count: %d, Points: %s\n",
			c.R, c.G, c.B, cc.Count[c], strings.Join(points, ","))
	}
	return sb.String()
}

// Summary describes the distribution of per-color pixel counts.
type Summary struct {
	Distinct int
	Pixels   int
	Mean     float64
	StdDev   float64
	Median   float64
}

func Summarize(cc *ColorCounts) Summary {
	s := Summary{Distinct: len(cc.Colors)}
	if s.Distinct == 0 {
		return s
	}
	counts := make([]float64, 0, s.Distinct)
	for _, c := range cc.Colors {
		counts = append(counts, float64(cc.Count[c]))
		s.Pixels += cc.Count[c]
	}
	s.Mean, s.StdDev = stat.MeanStdDev(counts, nil)
	if s.Distinct == 1 {
		s.StdDev = 0
	}
	slices.Sort(counts)
	s.Median = stat.Quantile(0.5, stat.Empirical, counts, nil)
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d colors over %d pixels, count mean %.2f sd %.2f median %.0f",
		s.Distinct, s.Pixels, s.Mean, s.StdDev, s.Median)
}
