// Command blobpaint segments, recolors, outlines and tiers the colors of raster images.
package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("blobpaint: ")
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
