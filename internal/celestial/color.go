package celestial

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type RGB struct {
	R, G, B uint8
}

// ParseHex reads "#rrggbb". Malformed input yields mid grey.
func ParseHex(s string) RGB {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{128, 128, 128}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{128, 128, 128}
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Shift adds per-channel deltas, saturating at 0 and 255.
func (c RGB) Shift(dr, dg, db float64) RGB {
	return RGB{R: shiftChannel(c.R, dr), G: shiftChannel(c.G, dg), B: shiftChannel(c.B, db)}
}

func shiftChannel(v uint8, d float64) uint8 {
	out := math.Round(float64(v) + d)
	if math.IsNaN(out) || out < 0 {
		return 0
	}
	if out > 255 {
		return 255
	}
	return uint8(out)
}
