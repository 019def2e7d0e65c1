package depthimage

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"depthmap-renderer/internal/exr"
	"depthmap-renderer/internal/raster"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"PNG", FormatPNG, false},
		{"EXR", FormatEXR, false},
		{"JPG", "", true},
		{"png", "", true}, // case-sensitive
		{"exr", "", true},
		{"", "", true},
		{"WEBP", "", true}, // preview format is not an artifact format
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q): %v", tt.in, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func testBuffer() *raster.DepthBuffer {
	b := raster.NewDepthBuffer(2, 2)
	b.Set(0, 0, 1)
	b.Set(1, 0, 2)
	b.Set(0, 1, 3)
	// (1,1) keeps the NoHit sentinel
	return b
}

func decodePNG(t *testing.T, path string) *image.Gray16 {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	g, ok := img.(*image.Gray16)
	if !ok {
		t.Fatalf("decoded %T, want *image.Gray16", img)
	}
	return g
}

func TestWritePNGQuantization(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth.png")
	if err := WritePNG(testBuffer(), path, nil); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	img := decodePNG(t, path)

	// Observed range is [1, 3]; one quantization step is 1/65535 of it.
	assert.Equal(t, uint16(0), img.Gray16At(0, 0).Y, "minimum maps to black")
	assert.Equal(t, uint16(65535), img.Gray16At(0, 1).Y, "maximum maps to white")
	assert.InDelta(t, 32768, int(img.Gray16At(1, 0).Y), 1, "midpoint within one step")
	assert.Equal(t, uint16(65535), img.Gray16At(1, 1).Y, "sentinel maps to the boundary value")
}

func TestWritePNGFixedRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth.png")
	if err := WritePNG(testBuffer(), path, &Range{Min: 0, Max: 4}); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	img := decodePNG(t, path)
	assert.InDelta(t, 16384, int(img.Gray16At(0, 0).Y), 1)
	assert.InDelta(t, 32768, int(img.Gray16At(1, 0).Y), 1)
	assert.InDelta(t, 49151, int(img.Gray16At(0, 1).Y), 1)
}

func TestWritePNGOutOfRangeClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth.png")
	if err := WritePNG(testBuffer(), path, &Range{Min: 1.5, Max: 2.5}); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	img := decodePNG(t, path)
	assert.Equal(t, uint16(0), img.Gray16At(0, 0).Y, "below range clamps to black")
	assert.Equal(t, uint16(65535), img.Gray16At(0, 1).Y, "above range clamps to white")
}

func TestWriteEXRRoundTrip(t *testing.T) {
	buf := testBuffer()
	path := filepath.Join(t.TempDir(), "depth.exr")
	if err := WriteEXR(buf, path); err != nil {
		t.Fatalf("WriteEXR: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w, h, pix, err := exr.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	assert.Equal(t, buf.Width, w)
	assert.Equal(t, buf.Height, h)
	assert.Equal(t, buf.Pix, pix, "EXR path is exact, sentinel included")
}

func TestWriteDispatch(t *testing.T) {
	dir := t.TempDir()
	buf := testBuffer()

	assert.NoError(t, Write(buf, filepath.Join(dir, "d.png"), FormatPNG, nil))
	assert.NoError(t, Write(buf, filepath.Join(dir, "d.exr"), FormatEXR, nil))
	assert.ErrorIs(t, Write(buf, filepath.Join(dir, "d.jpg"), Format("JPG"), nil), ErrUnsupportedFormat)
}

func TestWriteFilesystemFailure(t *testing.T) {
	buf := testBuffer()
	missing := filepath.Join(t.TempDir(), "no", "such", "dir", "depth.png")

	assert.ErrorIs(t, WritePNG(buf, missing, nil), ErrWrite)
	assert.ErrorIs(t, WriteEXR(buf, missing), ErrWrite)
	assert.ErrorIs(t, WritePreview(buf, missing, 2, 2), ErrWrite)
}

func TestPreviewImageInverts(t *testing.T) {
	img := PreviewImage(testBuffer())

	// Nearest pixel is brightest, farthest hit is darkest, background black.
	assert.Equal(t, uint8(255), img.Pix[0], "depth 1 at (0,0)")
	assert.Equal(t, uint8(0), img.Pix[img.Stride], "depth 3 at (0,1)")
	assert.Equal(t, uint8(0), img.Pix[img.Stride+4], "sentinel at (1,1)")
	assert.Equal(t, uint8(255), img.Pix[3], "opaque alpha")
}

func TestDownsample(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	dst := Downsample(src, 4, 4)
	assert.Equal(t, 4, dst.Bounds().Dx())
	assert.Equal(t, 4, dst.Bounds().Dy())

	same := Downsample(src, 8, 8)
	assert.Same(t, src, same, "no-op when already at target size")
}
