// Package raster renders a mesh to a linear depth buffer with a
// software rasterizer: vertices are projected once, then each triangle
// is scanned with barycentric weights against a nearest-wins depth
// test. Depth is distance from the camera along the view axis, not
// normalized screen-space Z, so values are comparable across clip
// settings.
package raster

import (
	"errors"
	"fmt"
	"math"

	"depthmap-renderer/internal/mathutil"
	"depthmap-renderer/internal/scene"
)

// ErrRender is returned when the render pass is misconfigured or fails.
var ErrRender = errors.New("render failed")

// Options controls one still-frame render.
type Options struct {
	// Frame dims.
	Width  int
	Height int
}

// Renderer produces depth buffers. The zero value is ready to use.
type Renderer struct{}

// Render executes exactly one synchronous still-frame render of mesh
// through cam and returns the depth buffer. Geometry outside the
// camera's [near, far] range is clipped. Pixels nothing covers keep the
// NoHit sentinel.
func (Renderer) Render(mesh *scene.Mesh, cam *scene.Camera, opts Options) (*DepthBuffer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid resolution %dx%d", ErrRender, opts.Width, opts.Height)
	}
	if cam == nil {
		return nil, fmt.Errorf("%w: no camera", ErrRender)
	}
	if cam.NearClip <= 0 || cam.NearClip >= cam.FarClip {
		return nil, fmt.Errorf("%w: invalid clip range [%g, %g]", ErrRender, cam.NearClip, cam.FarClip)
	}
	if cam.Mode == scene.Orthographic && cam.OrthoScale <= 0 {
		return nil, fmt.Errorf("%w: non-positive ortho scale", ErrRender)
	}
	if cam.Mode == scene.Perspective && (cam.FOV <= 0 || cam.FOV >= 180) {
		return nil, fmt.Errorf("%w: invalid field of view %g", ErrRender, cam.FOV)
	}

	fb := NewDepthBuffer(opts.Width, opts.Height)
	if mesh == nil || len(mesh.Verts) == 0 {
		return fb, nil
	}

	px, py, attr := projectVertices(mesh, cam, opts.Width, opts.Height)
	persp := cam.Mode == scene.Perspective

	near, far := cam.NearClip, cam.FarClip
	for _, tri := range mesh.Tris {
		i0, i1, i2 := tri[0], tri[1], tri[2]
		n := len(px)
		if i0 < 0 || i0 >= n || i1 < 0 || i1 >= n || i2 < 0 || i2 >= n {
			continue
		}
		// Vertices behind the eye have no valid screen position.
		if math.IsNaN(px[i0]) || math.IsNaN(px[i1]) || math.IsNaN(px[i2]) {
			continue
		}
		rasterizeTriangle(fb, px, py, attr, i0, i1, i2, near, far, persp)
	}

	return fb, nil
}

// projectVertices maps world-space vertices to screen coordinates and a
// per-vertex depth attribute: view-axis distance in orthographic mode,
// its reciprocal in perspective mode so the rasterizer can interpolate
// it perspective-correctly. Perspective vertices at or behind the eye
// plane get NaN screen positions so their triangles are culled.
func projectVertices(mesh *scene.Mesh, cam *scene.Camera, w, h int) (px, py, attr []float64) {
	n := len(mesh.Verts)
	px = make([]float64, n)
	py = make([]float64, n)
	attr = make([]float64, n)

	view := cam.View()
	aspect := float64(w) / float64(h)

	// Half-extents of the view volume at unit distance (perspective)
	// or absolute (orthographic).
	var halfW, halfH float64
	if cam.Mode == scene.Perspective {
		halfW = math.Tan(mathutil.Deg2Rad(cam.FOV) / 2)
		halfH = halfW / aspect
	} else {
		halfW = cam.OrthoScale / 2
		halfH = halfW / aspect
	}

	for i := range mesh.Verts {
		c := view.MulPoint(mesh.WorldVert(i))
		z := -c[2]

		var ndcX, ndcY float64
		if cam.Mode == scene.Perspective {
			if z < 1e-9 {
				px[i], py[i] = math.NaN(), math.NaN()
				continue
			}
			attr[i] = 1 / z
			ndcX = c[0] / (z * halfW)
			ndcY = c[1] / (z * halfH)
		} else {
			attr[i] = z
			ndcX = c[0] / halfW
			ndcY = c[1] / halfH
		}

		px[i] = (ndcX*0.5 + 0.5) * float64(w)
		py[i] = (1 - (ndcY*0.5 + 0.5)) * float64(h) // screen Y grows downward
	}

	return px, py, attr
}
