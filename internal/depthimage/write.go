package depthimage

import (
	"image"
	"image/png"
	"os"

	"depthmap-renderer/internal/exr"
	"depthmap-renderer/internal/raster"
)

// Range fixes the depth interval mapped onto the PNG's numeric range.
// When nil, the buffer's observed min/max is used.
type Range struct {
	Min float32
	Max float32
}

// Write serializes buf to path in the given format.
func Write(buf *raster.DepthBuffer, path string, format Format, rng *Range) error {
	switch format {
	case FormatPNG:
		return WritePNG(buf, path, rng)
	case FormatEXR:
		return WriteEXR(buf, path)
	}
	_, err := ParseFormat(string(format))
	return err
}

// WritePNG quantizes buf to 16-bit grayscale and writes it. Depth is
// normalized into rng (observed min/max when rng is nil): values below
// the range clamp to 0, values above — including the NoHit sentinel —
// clamp to 65535 (white). This transform is lossy and irreversible.
func WritePNG(buf *raster.DepthBuffer, path string, rng *Range) error {
	min, max := rangeFor(buf, rng)
	span := float64(max) - float64(min)

	img := image.NewGray16(image.Rect(0, 0, buf.Width, buf.Height))
	for y := 0; y < buf.Height; y++ {
		off := y * buf.Width
		row := y * img.Stride
		for x := 0; x < buf.Width; x++ {
			d := buf.Pix[off+x]
			var q uint16
			switch {
			case d == raster.NoHit, float64(d) >= float64(min)+span:
				q = 65535
			case d <= min:
				q = 0
			default:
				q = uint16((float64(d)-float64(min))/span*65535 + 0.5)
			}
			// Gray16.Pix is big-endian
			img.Pix[row+x*2] = uint8(q >> 8)
			img.Pix[row+x*2+1] = uint8(q)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return writeErr(path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return writeErr(path, err)
	}
	if err := f.Close(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

// WriteEXR writes buf as unquantized float32 depth. Reading the file
// back reproduces the buffer exactly, sentinel pixels included.
func WriteEXR(buf *raster.DepthBuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return writeErr(path, err)
	}
	defer f.Close()

	if err := exr.Encode(f, buf.Width, buf.Height, buf.Pix); err != nil {
		return writeErr(path, err)
	}
	if err := f.Close(); err != nil {
		return writeErr(path, err)
	}
	return nil
}

// rangeFor resolves the normalization interval, guarding against an
// empty or flat buffer where the span would collapse to zero.
func rangeFor(buf *raster.DepthBuffer, rng *Range) (min, max float32) {
	if rng != nil && rng.Max > rng.Min {
		return rng.Min, rng.Max
	}
	min, max, ok := buf.ObservedRange()
	if !ok {
		return 0, 1
	}
	if max <= min {
		max = min + 1
	}
	return min, max
}
