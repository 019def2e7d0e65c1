// Package exr reads and writes a minimal subset of OpenEXR: single-part
// scanline images with one 32-bit float channel named "Z" and no
// compression. That subset is exactly what a depth artifact needs —
// unquantized values that round-trip bit-exactly — while staying
// readable by any standard EXR consumer.
package exr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// MagicNumber is the four-byte OpenEXR file signature.
const MagicNumber uint32 = 20000630

const versionField uint32 = 2 // single-part scanline, no long names

// Pixel type and compression codes from the OpenEXR format.
const (
	pixelTypeFloat  = 2
	compressionNone = 0
	lineOrderIncY   = 0
)

// ChannelName is the single channel written and required when reading.
const ChannelName = "Z"

var (
	// ErrBadMagic is returned when the input is not an EXR file.
	ErrBadMagic = errors.New("exr: bad magic number")

	// ErrUnsupported is returned for EXR files outside the subset this
	// package handles (compressed, multi-channel, tiled, ...).
	ErrUnsupported = errors.New("exr: unsupported feature")
)

// Encode writes pix as a single-channel float scanline EXR.
// len(pix) must be width*height, row-major, top row first.
func Encode(w io.Writer, width, height int, pix []float32) error {
	if width <= 0 || height <= 0 || len(pix) != width*height {
		return fmt.Errorf("exr: dimensions %dx%d do not match %d pixels", width, height, len(pix))
	}

	header := buildHeader(width, height)

	// Offset table: one chunk per scanline with compression NONE.
	chunkSize := 8 + width*4
	base := 8 + len(header) + 8*height // magic+version, header, offset table
	offsets := make([]byte, 8*height)
	for y := 0; y < height; y++ {
		binary.LittleEndian.PutUint64(offsets[y*8:], uint64(base+y*chunkSize))
	}

	out := make([]byte, 0, base+height*chunkSize)
	out = binary.LittleEndian.AppendUint32(out, MagicNumber)
	out = binary.LittleEndian.AppendUint32(out, versionField)
	out = append(out, header...)
	out = append(out, offsets...)

	for y := 0; y < height; y++ {
		out = binary.LittleEndian.AppendUint32(out, uint32(y))
		out = binary.LittleEndian.AppendUint32(out, uint32(width*4))
		row := pix[y*width : (y+1)*width]
		for _, d := range row {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(d))
		}
	}

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("exr: write: %w", err)
	}
	return nil
}

// buildHeader serializes the attribute list, alphabetically as is
// conventional, terminated by an empty name.
func buildHeader(width, height int) []byte {
	var b []byte

	// channels: one entry (name, int32 type, uchar pLinear, char[3]
	// reserved, int32 xSampling, int32 ySampling), then a null byte.
	var ch []byte
	ch = append(ch, ChannelName...)
	ch = append(ch, 0)
	ch = binary.LittleEndian.AppendUint32(ch, pixelTypeFloat)
	ch = append(ch, 0, 0, 0, 0) // pLinear + reserved
	ch = binary.LittleEndian.AppendUint32(ch, 1)
	ch = binary.LittleEndian.AppendUint32(ch, 1)
	ch = append(ch, 0)
	b = appendAttr(b, "channels", "chlist", ch)

	b = appendAttr(b, "compression", "compression", []byte{compressionNone})

	var box [16]byte
	binary.LittleEndian.PutUint32(box[8:], uint32(width-1))
	binary.LittleEndian.PutUint32(box[12:], uint32(height-1))
	b = appendAttr(b, "dataWindow", "box2i", box[:])
	b = appendAttr(b, "displayWindow", "box2i", box[:])

	b = appendAttr(b, "lineOrder", "lineOrder", []byte{lineOrderIncY})

	var f4 [4]byte
	binary.LittleEndian.PutUint32(f4[:], math.Float32bits(1))
	b = appendAttr(b, "pixelAspectRatio", "float", f4[:])

	b = appendAttr(b, "screenWindowCenter", "v2f", make([]byte, 8))
	b = appendAttr(b, "screenWindowWidth", "float", f4[:])

	b = append(b, 0) // end of header
	return b
}

func appendAttr(b []byte, name, typ string, value []byte) []byte {
	b = append(b, name...)
	b = append(b, 0)
	b = append(b, typ...)
	b = append(b, 0)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(value)))
	return append(b, value...)
}

// Decode reads an EXR written by Encode (or any uncompressed
// single-part scanline file whose only channel is a float "Z").
func Decode(r io.Reader) (width, height int, pix []float32, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("exr: read: %w", err)
	}
	c := &cursor{data: raw}

	if c.uint32() != MagicNumber {
		return 0, 0, nil, ErrBadMagic
	}
	version := c.uint32()
	if version&0xff != 2 || version&0x200 != 0 { // reject tiled
		return 0, 0, nil, fmt.Errorf("%w: version 0x%x", ErrUnsupported, version)
	}

	var xMin, yMin, xMax, yMax int32
	haveWindow := false
	for {
		name := c.cstring()
		if c.err != nil {
			return 0, 0, nil, c.fail()
		}
		if name == "" {
			break
		}
		typ := c.cstring()
		size := int(c.uint32())
		value := c.bytes(size)
		if c.err != nil {
			return 0, 0, nil, c.fail()
		}

		switch name {
		case "compression":
			if len(value) != 1 || value[0] != compressionNone {
				return 0, 0, nil, fmt.Errorf("%w: compression %d", ErrUnsupported, value[0])
			}
		case "dataWindow":
			if typ != "box2i" || len(value) != 16 {
				return 0, 0, nil, fmt.Errorf("exr: malformed dataWindow")
			}
			xMin = int32(binary.LittleEndian.Uint32(value[0:]))
			yMin = int32(binary.LittleEndian.Uint32(value[4:]))
			xMax = int32(binary.LittleEndian.Uint32(value[8:]))
			yMax = int32(binary.LittleEndian.Uint32(value[12:]))
			haveWindow = true
		case "channels":
			if err := checkChannels(value); err != nil {
				return 0, 0, nil, err
			}
		}
	}
	if !haveWindow {
		return 0, 0, nil, fmt.Errorf("exr: missing dataWindow")
	}

	w64 := int64(xMax) - int64(xMin) + 1
	h64 := int64(yMax) - int64(yMin) + 1
	if w64 <= 0 || h64 <= 0 {
		return 0, 0, nil, fmt.Errorf("exr: empty data window")
	}
	// The data window sizes the pixel allocation, so it cannot be
	// trusted: the remaining input must hold the offset table plus one
	// uncompressed chunk (8-byte header, width*4 bytes) per scanline.
	remaining := int64(len(c.data) - c.off)
	perLine := 16 + w64*4 // offset-table entry plus chunk header and pixels
	if h64 > remaining/perLine {
		return 0, 0, nil, fmt.Errorf("exr: data window %dx%d larger than file", w64, h64)
	}
	width = int(w64)
	height = int(h64)

	c.bytes(8 * height) // offset table; chunks follow in line order anyway

	pix = make([]float32, width*height)
	for i := 0; i < height; i++ {
		y := int(int32(c.uint32())) - int(yMin)
		n := int(c.uint32())
		if c.err != nil {
			return 0, 0, nil, c.fail()
		}
		if n != width*4 || y < 0 || y >= height {
			return 0, 0, nil, fmt.Errorf("exr: malformed scanline chunk (y=%d, %d bytes)", y, n)
		}
		row := c.bytes(n)
		if c.err != nil {
			return 0, 0, nil, c.fail()
		}
		for x := 0; x < width; x++ {
			pix[y*width+x] = math.Float32frombits(binary.LittleEndian.Uint32(row[x*4:]))
		}
	}

	return width, height, pix, nil
}

// checkChannels verifies the channel list holds exactly one float
// channel with the expected name.
func checkChannels(value []byte) error {
	c := &cursor{data: value}
	name := c.cstring()
	typ := c.uint32()
	c.bytes(12) // pLinear, reserved, sampling
	if c.err != nil {
		return fmt.Errorf("exr: malformed channel list")
	}
	if name != ChannelName || typ != pixelTypeFloat {
		return fmt.Errorf("%w: channel %q type %d", ErrUnsupported, name, typ)
	}
	if len(c.data)-c.off != 1 || c.data[c.off] != 0 {
		return fmt.Errorf("%w: more than one channel", ErrUnsupported)
	}
	return nil
}

// cursor is a bounds-checked reader over a byte slice.
type cursor struct {
	data []byte
	off  int
	err  error
}

func (c *cursor) bytes(n int) []byte {
	if c.err != nil || n < 0 || c.off+n > len(c.data) {
		c.err = io.ErrUnexpectedEOF
		return nil
	}
	b := c.data[c.off : c.off+n]
	c.off += n
	return b
}

func (c *cursor) uint32() uint32 {
	b := c.bytes(4)
	if c.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (c *cursor) cstring() string {
	start := c.off
	for c.off < len(c.data) {
		if c.data[c.off] == 0 {
			s := string(c.data[start:c.off])
			c.off++
			return s
		}
		c.off++
	}
	c.err = io.ErrUnexpectedEOF
	return ""
}

func (c *cursor) fail() error {
	return fmt.Errorf("exr: truncated file: %w", c.err)
}
