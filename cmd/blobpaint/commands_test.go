package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/setanarut/blobpaint"
	"github.com/setanarut/blobpaint/utils"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	teal = color.NRGBA{G: 128, B: 128, A: 255}
)

// writeFixture saves a 6x4 image: two red squares and a teal bar on white.
func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for y := range 4 {
		for x := range 6 {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			switch {
			case y < 2 && (x < 2 || x >= 4):
				c = red
			case y == 3:
				c = teal
			}
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, "in.png")
	require.NoError(t, utils.SaveImage(img, path))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readBitmap(t *testing.T, path string) *blobpaint.Bitmap {
	t.Helper()
	img, err := utils.ReadImage(path)
	require.NoError(t, err)
	return blobpaint.FromImage(img)
}

func TestLogCommand(t *testing.T) {
	in := writeFixture(t, t.TempDir())
	out, err := run(t, "log", in)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "Color: 0,128,128, Count: 6, Points: (0,3),(1,3),(2,3),(3,3),(4,3),(5,3)", lines[0])
	require.Equal(t, "Color: 255,0,0, Count: 8, Points: (0,0),(1,0),(4,0),(5,0),(0,1),(1,1),(4,1),(5,1)", lines[1])
}

func TestLogCommandToFile(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	report := filepath.Join(dir, "report.txt")
	_, err := run(t, "log", in, "-o", report)
	require.NoError(t, err)
	data, err := os.ReadFile(report)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestRepaintCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	for _, tt := range []struct {
		flags []string
		fresh int
	}{
		{nil, 3},
		{[]string{"--grouped"}, 2},
	} {
		out := filepath.Join(dir, "repaint.png")
		_, err := run(t, append([]string{"repaint", in, out}, tt.flags...)...)
		require.NoError(t, err)
		bm := readBitmap(t, out)
		seen := map[color.NRGBA]bool{}
		for _, c := range bm.Pix {
			require.NotEqual(t, red, c)
			if !blobpaint.IsEdge(c) {
				seen[c] = true
			}
		}
		require.Len(t, seen, tt.fresh, "flags %v", tt.flags)
		require.Equal(t, bm.Pix[0], bm.Pix[7], "a blob keeps one color")
	}
}

func TestBorderCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	out := filepath.Join(dir, "border.bmp")
	_, err := run(t, "border", in, out, "--color", "#00ff00")
	require.NoError(t, err)
	bm := readBitmap(t, out)
	green := color.NRGBA{G: 255, A: 255}
	for i, c := range bm.Pix {
		switch {
		case i == 0 || i == 5:
			// outer corners of the red squares only touch red
			require.Equal(t, red, c, "pixel %d", i)
		case !blobpaint.IsEdge(c):
			require.Equal(t, green, c, "pixel %d", i)
		}
	}
	require.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, bm.Pix[2])
}

func TestBorderCommandBadColor(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	_, err := run(t, "border", in, filepath.Join(dir, "x.png"), "--color", "nothex")
	require.Error(t, err)
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	out := filepath.Join(dir, "tiers.png")
	layers := filepath.Join(dir, "layers")
	_, err := run(t, "extract", in, out, "--layers", layers)
	require.NoError(t, err)
	bm := readBitmap(t, out)
	require.Equal(t, blobpaint.TierGray[0], bm.Pix[0])
	require.Equal(t, blobpaint.White, bm.Pix[2])
	entries, err := os.ReadDir(layers)
	require.NoError(t, err)
	require.Len(t, entries, blobpaint.NumTiers+1)

	plain := filepath.Join(dir, "plain.tiff")
	_, err = run(t, "extract", in, plain)
	require.NoError(t, err)
	require.Equal(t, bm.Pix, readBitmap(t, plain).Pix)
}

func TestQuantizeFlag(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	out, err := run(t, "--colors", "2", "log", in)
	require.NoError(t, err)
	require.LessOrEqual(t, strings.Count(out, "\n"), 2)
}

func TestPaletteCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFixture(t, dir)
	out := filepath.Join(dir, "palette.png")
	_, err := run(t, "--colors", "2", "palette", in, out, "--tile", "4")
	require.NoError(t, err)
	img, err := utils.ReadImage(out)
	require.NoError(t, err)
	require.Equal(t, 4, img.Bounds().Dy())
}

func TestMissingInput(t *testing.T) {
	_, err := run(t, "repaint", filepath.Join(t.TempDir(), "missing.png"), "out.png")
	require.ErrorIs(t, err, os.ErrNotExist)
}
