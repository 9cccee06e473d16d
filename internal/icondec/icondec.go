// Package icondec converts raw icon bitmap descriptions (DIB color data,
// AND mask, optional palette) into ARGB pixel words.
package icondec

import (
	"fmt"

	"github.com/ItsNotGoodName/x-railview/internal/rail"
)

// Decode implements rail.IconDecoder. Color data is bottom-up with rows
// padded to 32 bits; the mask is 1bpp, also bottom-up and 32-bit padded.
// Output is top-down row-major ARGB.
func Decode(info rail.IconInfo) ([]uint32, error) {
	w, h := int(info.Width), int(info.Height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("icondec: bad dimensions %dx%d", w, h)
	}

	colorStride := ((w*int(info.BPP) + 31) / 32) * 4
	if len(info.BitsColor) < colorStride*h {
		return nil, fmt.Errorf("icondec: color data %d bytes, want %d", len(info.BitsColor), colorStride*h)
	}

	pixels := make([]uint32, w*h)

	for y := 0; y < h; y++ {
		row := info.BitsColor[(h-1-y)*colorStride:]
		for x := 0; x < w; x++ {
			argb, err := readPixel(row, x, info)
			if err != nil {
				return nil, err
			}
			pixels[y*w+x] = argb
		}
	}

	// 32bpp data may carry its own alpha channel; the mask only applies when
	// it does not.
	if info.BPP == 32 && hasAlpha(pixels) {
		return pixels, nil
	}

	if len(info.BitsMask) > 0 {
		maskStride := ((w + 31) / 32) * 4
		if len(info.BitsMask) < maskStride*h {
			return nil, fmt.Errorf("icondec: mask data %d bytes, want %d", len(info.BitsMask), maskStride*h)
		}

		for y := 0; y < h; y++ {
			row := info.BitsMask[(h-1-y)*maskStride:]
			for x := 0; x < w; x++ {
				// Mask bit set means transparent.
				if row[x/8]&(0x80>>uint(x%8)) != 0 {
					pixels[y*w+x] &= 0x00FFFFFF
				} else {
					pixels[y*w+x] |= 0xFF000000
				}
			}
		}
	} else {
		for i := range pixels {
			pixels[i] |= 0xFF000000
		}
	}

	return pixels, nil
}

func readPixel(row []byte, x int, info rail.IconInfo) (uint32, error) {
	switch info.BPP {
	case 32:
		p := row[x*4:]
		return uint32(p[3])<<24 | uint32(p[2])<<16 | uint32(p[1])<<8 | uint32(p[0]), nil
	case 24:
		p := row[x*3:]
		return uint32(p[2])<<16 | uint32(p[1])<<8 | uint32(p[0]), nil
	case 16:
		// RGB555.
		v := uint32(row[x*2]) | uint32(row[x*2+1])<<8
		r := (v >> 10 & 0x1F) << 3
		g := (v >> 5 & 0x1F) << 3
		b := (v & 0x1F) << 3
		return r<<16 | g<<8 | b, nil
	case 8:
		return paletteColor(info, int(row[x]))
	case 4:
		idx := int(row[x/2])
		if x%2 == 0 {
			idx >>= 4
		}
		return paletteColor(info, idx&0x0F)
	case 1:
		if row[x/8]&(0x80>>uint(x%8)) != 0 {
			return paletteColor(info, 1)
		}
		return paletteColor(info, 0)
	default:
		return 0, fmt.Errorf("icondec: unsupported bpp %d", info.BPP)
	}
}

func paletteColor(info rail.IconInfo, idx int) (uint32, error) {
	// RGBQUAD palette entries.
	off := idx * 4
	if off+3 > len(info.ColorTable) {
		return 0, fmt.Errorf("icondec: palette index %d out of range", idx)
	}
	p := info.ColorTable[off:]
	return uint32(p[2])<<16 | uint32(p[1])<<8 | uint32(p[0]), nil
}

func hasAlpha(pixels []uint32) bool {
	for _, p := range pixels {
		if p&0xFF000000 != 0 {
			return true
		}
	}
	return false
}
