// Package heightmap builds a terrain mesh from a grayscale image:
// one vertex per pixel, two triangles per cell, pixel luminance mapped
// to height. It is the second scene source next to OBJ files and
// handles PNG, JPEG and TGA inputs.
package heightmap

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"

	"depthmap-renderer/internal/mathutil"
	"depthmap-renderer/internal/scene"
)

// Options shape the generated terrain.
type Options struct {
	// CellSize is the world-space spacing between neighboring vertices.
	CellSize float64

	// VerticalScale is the world-space height of a full-white pixel.
	VerticalScale float64
}

// DefaultOptions returns a terrain one unit per cell and ten units tall.
func DefaultOptions() Options {
	return Options{CellSize: 1, VerticalScale: 10}
}

// Load reads an image file and returns a scene holding the terrain mesh.
func Load(path string, opts Options) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("heightmap: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("heightmap: decode %s: %w", path, err)
	}

	mesh, err := FromImage(img, opts)
	if err != nil {
		return nil, fmt.Errorf("heightmap: %s: %w", path, err)
	}

	sc := scene.New()
	sc.AddMesh(mesh)
	return sc, nil
}

// FromImage converts img to a terrain mesh centered on the origin,
// X/Z in the ground plane and height along +Y.
func FromImage(img image.Image, opts Options) (*scene.Mesh, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 2 || h < 2 {
		return nil, fmt.Errorf("image %dx%d too small for a terrain grid", w, h)
	}
	if opts.CellSize <= 0 {
		opts.CellSize = 1
	}

	m := scene.NewMesh("terrain")
	m.Verts = make([]mathutil.Vec3, 0, w*h)
	m.Tris = make([][3]int, 0, 2*(w-1)*(h-1))

	cx := float64(w-1) / 2
	cz := float64(h-1) / 2
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			gray := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+z)).(color.Gray16).Y
			height := float64(gray) / 65535 * opts.VerticalScale
			m.Verts = append(m.Verts, mathutil.Vec3{
				(float64(x) - cx) * opts.CellSize,
				height,
				(float64(z) - cz) * opts.CellSize,
			})
		}
	}

	for z := 0; z < h-1; z++ {
		for x := 0; x < w-1; x++ {
			i := z*w + x
			m.Tris = append(m.Tris,
				[3]int{i, i + w, i + 1},
				[3]int{i + 1, i + w, i + w + 1},
			)
		}
	}

	return m, nil
}
