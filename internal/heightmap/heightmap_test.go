package heightmap

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromImageGrid(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 3))
	mesh, err := FromImage(img, Options{CellSize: 2, VerticalScale: 10})
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}

	assert.Len(t, mesh.Verts, 4*3, "one vertex per pixel")
	assert.Len(t, mesh.Tris, 2*3*2, "two triangles per cell")

	// Grid centered on the origin with 2-unit spacing.
	assert.Equal(t, -3.0, mesh.Verts[0][0])
	assert.Equal(t, -2.0, mesh.Verts[0][2])
	assert.Equal(t, 3.0, mesh.Verts[len(mesh.Verts)-1][0])
	assert.Equal(t, 2.0, mesh.Verts[len(mesh.Verts)-1][2])
}

func TestFromImageHeightScaling(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.Pix[0] = 255 // top-left full white
	img.Pix[1] = 0
	img.Pix[2] = 0
	img.Pix[3] = 0

	mesh, err := FromImage(img, Options{CellSize: 1, VerticalScale: 10})
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}

	assert.InDelta(t, 10, mesh.Verts[0][1], 1e-9, "white pixel maps to full vertical scale")
	assert.InDelta(t, 0, mesh.Verts[1][1], 1e-9)
}

func TestFromImageTooSmall(t *testing.T) {
	_, err := FromImage(image.NewGray(image.Rect(0, 0, 1, 5)), DefaultOptions())
	assert.Error(t, err)
}

func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hm.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 3, 3))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	sc, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assert.Len(t, sc.Meshes(), 1)
	assert.Equal(t, "terrain", sc.Meshes()[0].Name)
	assert.Len(t, sc.Meshes()[0].Verts, 9)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"), DefaultOptions())
	assert.Error(t, err)
}
