package raster

import "math"

// NoHit marks pixels no geometry covers. +Inf can never collide with a
// real distance, passes through the EXR float path unchanged, and
// quantizes to the PNG maximum.
var NoHit = float32(math.Inf(1))

// DepthBuffer holds per-pixel linear distance from the camera as a flat
// slice for cache locality.
type DepthBuffer struct {
	Width  int
	Height int
	Pix    []float32 // len = W*H, row-major, NoHit where nothing was drawn
}

// NewDepthBuffer allocates a buffer with every pixel set to NoHit.
func NewDepthBuffer(w, h int) *DepthBuffer {
	pix := make([]float32, w*h)
	for i := range pix {
		pix[i] = NoHit
	}
	return &DepthBuffer{Width: w, Height: h, Pix: pix}
}

// At returns the depth at (x, y).
func (b *DepthBuffer) At(x, y int) float32 {
	return b.Pix[y*b.Width+x]
}

// Set writes the depth at (x, y).
func (b *DepthBuffer) Set(x, y int, d float32) {
	b.Pix[y*b.Width+x] = d
}

// ObservedRange returns the min and max depth over all hit pixels.
// ok is false when the buffer contains no hits.
func (b *DepthBuffer) ObservedRange() (min, max float32, ok bool) {
	min = float32(math.Inf(1))
	max = float32(math.Inf(-1))
	for _, d := range b.Pix {
		if d == NoHit {
			continue
		}
		ok = true
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max, ok
}
