package blobpaint

import "image/color"

// TraceBorders marks every non-edge pixel that touches a differently colored 4-neighbor
// with border. Edge pixels and interior pixels are copied. The image frame itself is not
// a border.
func TraceBorders(bm *Bitmap, border color.NRGBA) *Bitmap {
	w, h := bm.W, bm.H
	out := &Bitmap{W: w, H: h, Pix: make([]color.NRGBA, len(bm.Pix))}
	for y := range h {
		for x := range w {
			i := labelOffset(w, x, y)
			c := bm.Pix[i]
			out.Pix[i] = c
			if IsEdge(c) {
				continue
			}
			for k := range 4 {
				nx, ny := x+dx4[k], y+dy4[k]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if bm.Pix[labelOffset(w, nx, ny)] != c {
					out.Pix[i] = border
					break
				}
			}
		}
	}
	return out
}
