package depthimage

import (
	"image"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"depthmap-renderer/internal/raster"
)

// PreviewImage converts buf to an 8-bit view for humans: depth is
// normalized to the observed range and inverted, so near geometry reads
// white and the background black. The depth artifacts themselves stay
// un-inverted; this view is cosmetic only.
func PreviewImage(buf *raster.DepthBuffer) *image.NRGBA {
	min, max, ok := buf.ObservedRange()
	span := float64(max) - float64(min)
	if !ok || span <= 0 {
		span = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		off := y * buf.Width
		row := y * img.Stride
		for x := 0; x < buf.Width; x++ {
			var g uint8
			if d := buf.Pix[off+x]; d != raster.NoHit {
				t := (float64(d) - float64(min)) / span
				g = uint8((1-t)*255 + 0.5)
			}
			i := row + x*4
			img.Pix[i] = g
			img.Pix[i+1] = g
			img.Pix[i+2] = g
			img.Pix[i+3] = 255
		}
	}
	return img
}

// Downsample scales img to w×h with CatmullRom filtering.
// Used to resolve a supersampled preview render.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// WritePreview renders buf to an inverted grayscale WebP at path,
// downsampling to w×h when buf was rendered at a higher resolution.
func WritePreview(buf *raster.DepthBuffer, path string, w, h int) error {
	img := Downsample(PreviewImage(buf), w, h)

	f, err := os.Create(path)
	if err != nil {
		return writeErr(path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return writeErr(path, err)
	}
	if err := f.Close(); err != nil {
		return writeErr(path, err)
	}
	return nil
}
