package raster

import "math"

// rasterizeTriangle scans one projected triangle into the depth buffer
// with a nearest-wins depth test. Pixels outside [near, far] are
// clipped.
//
// This is the HOT PATH — zero allocation in the inner loop. attr holds
// the per-vertex depth attribute: view-axis distance in orthographic
// mode (linear in screen space for a plane), its reciprocal in
// perspective mode. Perspective depth is not affine in screen space, so
// interpolating it directly would bias slanted surfaces toward their
// far vertices; 1/z is affine and inverts back per pixel.
func rasterizeTriangle(fb *DepthBuffer, px, py, attr []float64, i0, i1, i2 int, near, far float64, persp bool) {
	x0, y0, z0 := px[i0], py[i0], attr[i0]
	x1, y1, z1 := px[i1], py[i1], attr[i1]
	x2, y2, z2 := px[i2], py[i2], attr[i2]

	// Bounding box
	w, h := fb.Width, fb.Height
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * w
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			if persp {
				if z <= 0 {
					continue
				}
				z = 1 / z
			}
			if z < near || z > far {
				continue
			}

			idx := rowOff + sx
			if float32(z) >= fb.Pix[idx] {
				continue
			}
			fb.Pix[idx] = float32(z)
		}
	}
}
