package main

import (
	"fmt"
	"image"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/setanarut/blobpaint"
	"github.com/setanarut/blobpaint/utils"
)

type globalFlags struct {
	seed          uint64
	colors        int
	paletteMethod string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:          "blobpaint",
		Short:        "Segment and recolor flat-color raster images",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.Uint64Var(&g.seed, "seed", blobpaint.DefaultOptions().Seed, "seed for generated colors and tier shuffling")
	pf.IntVar(&g.colors, "colors", 0, "quantize to this many palette colors before processing (0 = off)")
	pf.StringVar(&g.paletteMethod, "palette-method", "dominantcolor", "palette extraction: dominantcolor or kmeans")

	root.AddCommand(
		newLogCmd(g),
		newRepaintCmd(g),
		newBorderCmd(g),
		newExtractCmd(g),
		newPaletteCmd(g),
	)
	return root
}

// loadRaw reads an image file and returns it as a packed RGBA buffer, quantized first when
// --colors is set.
func loadRaw(g *globalFlags, path string) ([]byte, int, int, error) {
	img, err := utils.ReadImage(path)
	if err != nil {
		return nil, 0, 0, err
	}
	bm := blobpaint.FromImage(img)
	log.Printf("loaded %s: %dx%d", path, bm.W, bm.H)
	if g.colors > 0 {
		method, err := utils.ParsePaletteMethod(g.paletteMethod)
		if err != nil {
			return nil, 0, 0, err
		}
		palette := utils.ExtractPalette(img, g.colors, method)
		log.Printf("quantizing to %d colors (%s)", len(palette), method)
		bm = blobpaint.Quantize(bm, palette)
	}
	buf, err := blobpaint.Encode(bm, 0, blobpaint.RGBA)
	if err != nil {
		return nil, 0, 0, err
	}
	return buf, bm.W, bm.H, nil
}

func saveRaw(buf []byte, w, h int, path string) error {
	bm, err := blobpaint.Decode(buf, w, h, blobpaint.RGBA)
	if err != nil {
		return err
	}
	if err := utils.SaveImage(bm.Image(), path); err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}

func newBuilder(g *globalFlags) *blobpaint.Builder {
	opt := blobpaint.DefaultOptions()
	opt.Seed = g.seed
	return blobpaint.NewBuilder(opt)
}

func newLogCmd(g *globalFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "log <image>",
		Short: "Print every non-edge color with its pixel count and points, rarest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, w, h, err := loadRaw(g, args[0])
			if err != nil {
				return err
			}
			bm, err := blobpaint.Decode(buf, w, h, blobpaint.RGBA)
			if err != nil {
				return err
			}
			report := blobpaint.Report(bm)
			log.Println(blobpaint.Summarize(blobpaint.CountColors(bm)))
			if out == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), report)
				return err
			}
			if err := os.WriteFile(out, []byte(report), 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			log.Printf("wrote %s", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the report to this file instead of stdout")
	return cmd
}

func newRepaintCmd(g *globalFlags) *cobra.Command {
	var grouped bool
	cmd := &cobra.Command{
		Use:   "repaint <in> <out>",
		Short: "Give every blob, or every original color with --grouped, a fresh color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, w, h, err := loadRaw(g, args[0])
			if err != nil {
				return err
			}
			res, err := newBuilder(g).Repaint(buf, w, h, !grouped)
			if err != nil {
				return err
			}
			return saveRaw(res, w, h, args[1])
		},
	}
	cmd.Flags().BoolVar(&grouped, "grouped", false, "one color per original color instead of per blob")
	return cmd
}

func newBorderCmd(g *globalFlags) *cobra.Command {
	var hex string
	cmd := &cobra.Command{
		Use:   "border <in> <out>",
		Short: "Outline blobs with a border color",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			border, err := utils.ParseColor(hex)
			if err != nil {
				return err
			}
			buf, w, h, err := loadRaw(g, args[0])
			if err != nil {
				return err
			}
			res, err := newBuilder(g).Border(buf, w, h, border)
			if err != nil {
				return err
			}
			return saveRaw(res, w, h, args[1])
		},
	}
	cmd.Flags().StringVar(&hex, "color", "#ff0000", "border color as #rrggbb or #rrggbbaa")
	return cmd
}

func newExtractCmd(g *globalFlags) *cobra.Command {
	var layers string
	cmd := &cobra.Command{
		Use:   "extract <in> <out>",
		Short: "Render colors as grayscale rarity tiers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, w, h, err := loadRaw(g, args[0])
			if err != nil {
				return err
			}
			if layers != "" {
				return extractLayers(g, buf, w, h, args[1], layers)
			}
			res, err := newBuilder(g).Extract(buf, w, h)
			if err != nil {
				return err
			}
			return saveRaw(res, w, h, args[1])
		},
	}
	cmd.Flags().StringVar(&layers, "layers", "", "also write one mask per tier into this directory")
	return cmd
}

// extractLayers works on the Bitmap directly so the tier masks and the rendered image
// share one tier assignment.
func extractLayers(g *globalFlags, buf []byte, w, h int, out, dir string) error {
	bm, err := blobpaint.Decode(buf, w, h, blobpaint.RGBA)
	if err != nil {
		return err
	}
	rng := blobpaint.NewRand(g.seed)
	tiers := blobpaint.AssignTiers(blobpaint.CountColors(bm), rng)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("layers dir: %w", err)
	}
	if err := utils.SaveGrayImages(blobpaint.TierLayers(bm, tiers), dir); err != nil {
		return err
	}
	log.Printf("wrote %d tier layers to %s", blobpaint.NumTiers+1, dir)
	if err := utils.SaveImage(blobpaint.RenderTiers(bm, tiers).Image(), out); err != nil {
		return err
	}
	log.Printf("wrote %s", out)
	return nil
}

func newPaletteCmd(g *globalFlags) *cobra.Command {
	var tile int
	cmd := &cobra.Command{
		Use:   "palette <in> <out>",
		Short: "Save the quantization palette of an image as swatches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := utils.ReadImage(args[0])
			if err != nil {
				return err
			}
			method, err := utils.ParsePaletteMethod(g.paletteMethod)
			if err != nil {
				return err
			}
			k := g.colors
			if k <= 0 {
				k = 8
			}
			palette := utils.ExtractPalette(img, k, method)
			utils.SortPaletteByBrightness(palette)
			log.Printf("%d palette colors from %s", len(palette), describe(img))
			return utils.SavePalette(palette, tile, args[1])
		},
	}
	cmd.Flags().IntVar(&tile, "tile", 64, "swatch size in pixels")
	return cmd
}

func describe(img image.Image) string {
	b := img.Bounds()
	return fmt.Sprintf("%dx%d image", b.Dx(), b.Dy())
}
