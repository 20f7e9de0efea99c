// Package colormap converts Moon+ Reader highlight color codes to RGB.
//
// The reader stores colors as signed 32-bit integers. A handful of codes
// correspond to the app's stock palette and are mapped through a fixed
// table; every other code is decomposed into channels arithmetically, so
// the mapping is a total, pure function over all int32 values.
package colormap

// RGB is a color with channels in [0, 1].
type RGB struct {
	R, G, B float64
}

// Stock palette colors.
var (
	Yellow  = RGB{1, 1, 0}
	Green   = RGB{0, 1, 0}
	Blue    = RGB{0, 0, 1}
	Red     = RGB{1, 0, 0}
	Magenta = RGB{1, 0, 1}
)

// knownColors maps the reader's stock color codes to their colors. The
// keys are the exact stored int32 values, including the negative
// encodings; they must match bit-for-bit, never after normalization.
var knownColors = map[int32]RGB{
	1996532479:  Yellow,
	-1996554240: Green,
	2013265664:  Blue,
	-256:        Red,
	16711680:    Magenta,
}

// Map returns the color for a stored highlight color code.
//
// Codes outside the known table are decomposed channel-wise:
// r = abs(code) mod 256, g = abs(code >> 8) mod 256,
// b = abs(code >> 16) mod 256, each scaled to [0, 1]. Shifts are
// arithmetic on the 32-bit signed value and abs is taken in 64-bit
// arithmetic, so the result is identical on every platform, including
// for the minimum int32.
func Map(code int32) RGB {
	if c, ok := knownColors[code]; ok {
		return c
	}

	return RGB{
		R: float64(abs32(code)%256) / 255,
		G: float64(abs32(code>>8)%256) / 255,
		B: float64(abs32(code>>16)%256) / 255,
	}
}

// Encode packs 8-bit channels into a code that Map's fallback decomposes
// back into the same color. Used by sources that carry literal RGB values
// (e.g. XFDF) instead of reader color codes.
func Encode(r, g, b uint8) int32 {
	return int32(r) | int32(g)<<8 | int32(b)<<16
}

func abs32(v int32) int64 {
	n := int64(v)
	if n < 0 {
		n = -n
	}
	return n
}
