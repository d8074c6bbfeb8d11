package blobpaint

import "image/color"

// Blob is a maximal 4-connected set of non-edge pixels matching one seed color.
type Blob struct {
	Color  color.NRGBA
	Pixels []int // flat indices in discovery order
}

// ExactMatch is the default sameness predicate.
func ExactMatch(a, b color.NRGBA) bool {
	return a == b
}

var (
	dx4 = [4]int{-1, 1, 0, 0}
	dy4 = [4]int{0, 0, -1, 1}
)

// FindBlobs partitions every non-edge pixel of bm into blobs. Seeds are taken in row-major
// order and grown with an explicit stack, so blob order is the order of their first pixel.
// A nil predicate means ExactMatch.
func FindBlobs(bm *Bitmap, same func(a, b color.NRGBA) bool) []Blob {
	if same == nil {
		same = ExactMatch
	}
	w, h := bm.W, bm.H
	n := w * h
	if n == 0 {
		return nil
	}
	visited := make([]bool, n)
	stack := make([]int, 0, min(n, 1024))
	var blobs []Blob

	for start := range n {
		if visited[start] || IsEdge(bm.Pix[start]) {
			continue
		}
		seed := bm.Pix[start]
		blob := Blob{Color: seed}
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[cur] {
				continue
			}
			visited[cur] = true
			blob.Pixels = append(blob.Pixels, cur)

			cx, cy := cur%w, cur/w
			for k := range 4 {
				nx, ny := cx+dx4[k], cy+dy4[k]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				nIdx := labelOffset(w, nx, ny)
				if visited[nIdx] {
					continue
				}
				c := bm.Pix[nIdx]
				if !IsEdge(c) && same(c, seed) {
					stack = append(stack, nIdx)
				}
			}
		}
		blobs = append(blobs, blob)
	}
	return blobs
}
