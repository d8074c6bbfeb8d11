package utils

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type PaletteMethod int

const (
	PaletteMethodDominantColor PaletteMethod = iota
	PaletteMethodKMeans
)

func (m PaletteMethod) String() string {
	switch m {
	case PaletteMethodKMeans:
		return "kmeans"
	default:
		return "dominantcolor"
	}
}

// ParsePaletteMethod accepts the names returned by PaletteMethod.String.
func ParsePaletteMethod(s string) (PaletteMethod, error) {
	switch strings.ToLower(s) {
	case "dominantcolor", "dominant", "":
		return PaletteMethodDominantColor, nil
	case "kmeans":
		return PaletteMethodKMeans, nil
	}
	return 0, fmt.Errorf("unknown palette method %q", s)
}

type weightedColor struct {
	Col    colorful.Color
	Weight float64
}

// SortPaletteByBrightness orders colors from darkest to brightest by relative luminance.
func SortPaletteByBrightness(palette []colorful.Color) {
	luma := func(c colorful.Color) float64 {
		r, g, b := c.LinearRgb()
		return 0.2126*r + 0.7152*g + 0.0722*b
	}
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		return cmp.Compare(luma(a), luma(b))
	})
}

// isEdgeRGBA mirrors blobpaint.IsEdge for 8-bit samples. Edge pixels are background and
// must not pull palette entries toward themselves.
func isEdgeRGBA(r, g, b, a uint8) bool {
	if a == 0 {
		return true
	}
	return a == 255 && ((r == 0 && g == 0 && b == 0) || (r == 255 && g == 255 && b == 255))
}

// awayFromEdge nudges a palette entry that rounds to pure white or pure black one step
// inward so quantized pixels never turn into edge pixels.
func awayFromEdge(c colorful.Color) colorful.Color {
	r, g, b := c.Clamped().RGB255()
	switch {
	case r == 255 && g == 255 && b == 255:
		return colorful.Color{R: 254.0 / 255, G: 254.0 / 255, B: 254.0 / 255}
	case r == 0 && g == 0 && b == 0:
		return colorful.Color{R: 1.0 / 255, G: 1.0 / 255, B: 1.0 / 255}
	}
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// ExtractDominantPalette returns up to k colors found by dominantcolor, skipping
// candidates that are edge colors.
func ExtractDominantPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	candidates := dominantcolor.FindWeight(img, max(24, k*8))
	weighted := make([]weightedColor, 0, len(candidates))
	for _, c := range candidates {
		if isEdgeRGBA(c.RGBA.R, c.RGBA.G, c.RGBA.B, c.RGBA.A) {
			continue
		}
		col, _ := colorful.MakeColor(c.RGBA)
		weighted = append(weighted, weightedColor{Col: awayFromEdge(col), Weight: max(c.Weight, 1e-6)})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

// SelectDiverseWeightedColors greedily picks k colors: the heaviest first, then each
// round the candidate maximizing Lab distance to the picked set scaled by its weight.
func SelectDiverseWeightedColors(cands []weightedColor, k int) []colorful.Color {
	k = min(k, len(cands))
	if k <= 0 {
		return nil
	}
	maxW := 0.0
	for _, c := range cands {
		maxW = max(maxW, c.Weight)
	}
	if maxW <= 0 {
		maxW = 1
	}

	picked := make([]int, 0, k)
	taken := make([]bool, len(cands))
	// Distance from each candidate to its closest picked color.
	nearest := make([]float64, len(cands))
	for i := range nearest {
		nearest[i] = math.Inf(1)
	}
	pick := func(i int) {
		picked = append(picked, i)
		taken[i] = true
		for j := range cands {
			nearest[j] = min(nearest[j], cands[j].Col.DistanceLab(cands[i].Col))
		}
	}

	heaviest := 0
	for i := range cands {
		if cands[i].Weight > cands[heaviest].Weight {
			heaviest = i
		}
	}
	pick(heaviest)

	for len(picked) < k {
		best, bestScore := -1, -1.0
		for i := range cands {
			if taken[i] {
				continue
			}
			score := nearest[i] * (0.55 + 0.45*math.Sqrt(cands[i].Weight/maxW))
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}
		pick(best)
	}

	out := make([]colorful.Color, len(picked))
	for i, idx := range picked {
		out[i] = cands[idx].Col
	}
	return out
}

// samplePixels collects at most maxSamples non-edge pixels on a regular grid as
// normalized RGB observations.
func samplePixels(img image.Image, maxSamples int) clusters.Observations {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}
	step := 1
	if width*height > maxSamples {
		step = int(math.Sqrt(float64(width*height)/float64(maxSamples))) + 1
	}
	obs := make(clusters.Observations, 0, min(width*height, maxSamples))
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if isEdgeRGBA(c.R, c.G, c.B, c.A) {
				continue
			}
			obs = append(obs, clusters.Coordinates{
				float64(c.R) / 255.0,
				float64(c.G) / 255.0,
				float64(c.B) / 255.0,
			})
		}
	}
	return obs
}

// ExtractKMeansPalette clusters a subsample of the non-edge pixels and picks k diverse
// centers, weighted by cluster population.
func ExtractKMeansPalette(img image.Image, k int) []colorful.Color {
	if k <= 0 {
		return nil
	}
	dataset := samplePixels(img, 12000)
	if len(dataset) == 0 {
		return nil
	}
	workK := min(max(k*4, k+2), len(dataset))
	cc, err := kmeans.New().Partition(dataset, workK)
	if err != nil {
		log.Printf("palette warning: kmeans: %v", err)
		return nil
	}

	weighted := make([]weightedColor, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 || len(c.Observations) == 0 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}
		weighted = append(weighted, weightedColor{
			Col:    awayFromEdge(col),
			Weight: float64(len(c.Observations)),
		})
	}
	return SelectDiverseWeightedColors(weighted, k)
}

// ExtractPalette picks k colors from img for blobpaint.Quantize. KMeans falls back to
// dominantcolor when clustering finds nothing.
func ExtractPalette(img image.Image, k int, method PaletteMethod) []colorful.Color {
	switch method {
	case PaletteMethodKMeans:
		p := ExtractKMeansPalette(img, k)
		if len(p) != 0 {
			return p
		}
		log.Println("palette warning: kmeans returned empty palette, falling back to dominantcolor")
		return ExtractDominantPalette(img, k)
	default:
		return ExtractDominantPalette(img, k)
	}
}

// ReadImage decodes the image file at path. PNG, JPEG, GIF, BMP and TIFF are recognized.
func ReadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// SaveGrayImages writes one PNG per layer as dir/gray_0N.png.
func SaveGrayImages(images []*image.Gray, dir string) error {
	for i := range images {
		if err := SaveImage(images[i], filepath.Join(dir, "gray_0"+strconv.Itoa(i)+".png")); err != nil {
			return err
		}
	}
	return nil
}

// SaveImage encodes img losslessly, picking BMP or TIFF from the file extension and PNG
// otherwise.
func SaveImage(img image.Image, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, img)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}

// SavePalette writes the palette as a strip of square swatches.
func SavePalette(palette []colorful.Color, tileSize int, filename string) error {
	if len(palette) == 0 {
		return fmt.Errorf("empty palette")
	}
	if tileSize <= 0 {
		tileSize = 64
	}

	w := tileSize * len(palette)
	h := tileSize
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for i, c := range palette {
		r, g, b := c.Clamped().RGB255()
		x0 := i * tileSize
		x1 := x0 + tileSize
		for y := range h {
			for x := x0; x < x1; x++ {
				img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
			}
		}
	}

	return SaveImage(img, filename)
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" into an NRGBA color.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
