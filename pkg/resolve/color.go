package resolve

import (
	"fmt"
	"strconv"
	"strings"
)

// RGBA is an 8-bit-per-channel color with straight (non-premultiplied) alpha.
// The zero value is fully transparent, which is the default for both the
// shadow color and the background.
type RGBA struct {
	R, G, B, A uint8
}

// Transparent is the default color for shadow_color and background.
var Transparent = RGBA{}

// String renders the color as #rrggbbaa.
func (c RGBA) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// namedColors covers the handful of CSS keywords clients actually send.
var namedColors = map[string]RGBA{
	"transparent": {},
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"orange":      {255, 165, 0, 255},
	"purple":      {128, 0, 128, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
}

// ParseColor parses a color specification. Accepted forms are hex strings
// with an optional leading '#' (rgb, rgba, rrggbb, rrggbbaa) and a small set
// of CSS color keywords. Alpha defaults to 255 when not given.
func ParseColor(s string) (RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RGBA{}, fmt.Errorf("empty color")
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 4:
		var channels [4]uint8
		channels[3] = 255
		for i := 0; i < len(hex); i++ {
			v, err := strconv.ParseUint(hex[i:i+1], 16, 8)
			if err != nil {
				return RGBA{}, fmt.Errorf("invalid hex color %q", s)
			}
			// Expand the single digit: "f" -> 0xff.
			channels[i] = uint8(v*16 + v)
		}
		return RGBA{channels[0], channels[1], channels[2], channels[3]}, nil
	case 6, 8:
		var channels [4]uint8
		channels[3] = 255
		for i := 0; i*2 < len(hex); i++ {
			v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return RGBA{}, fmt.Errorf("invalid hex color %q", s)
			}
			channels[i] = uint8(v)
		}
		return RGBA{channels[0], channels[1], channels[2], channels[3]}, nil
	default:
		return RGBA{}, fmt.Errorf("invalid color %q", s)
	}
}
