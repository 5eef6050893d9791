package render

import (
	"math"
	"strconv"
	"strings"
)

// TextColor returns black or white, whichever contrasts better with the hex
// background bg. Unparseable colors are treated as black backgrounds.
func TextColor(bg string) string {
	r, g, b, ok := parseHex(bg)
	if !ok {
		return "#FFFFFF"
	}
	if luminance(r, g, b) > 0.5 {
		return "#000000"
	}
	return "#FFFFFF"
}

func parseHex(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// luminance is the WCAG relative luminance of an sRGB color.
func luminance(r, g, b uint8) float64 {
	linear := func(c uint8) float64 {
		v := float64(c) / 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*linear(r) + 0.7152*linear(g) + 0.0722*linear(b)
}
