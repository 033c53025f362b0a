package render

import (
	"image/color"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// lookupTheme resolves a theme name against the chroma style registry.
// Registry names are lowercase; callers may say "Dracula".
func lookupTheme(name string) (*chroma.Style, bool) {
	name = strings.TrimSpace(name)
	for _, candidate := range styles.Names() {
		if strings.EqualFold(candidate, name) {
			return styles.Get(candidate), true
		}
	}
	return nil, false
}

func themeNames() []string {
	names := append([]string(nil), styles.Names()...)
	sort.Strings(names)
	return names
}

// palette carries the colors a chroma style leaves implicit: window chrome,
// gutter digits, and the highlight row. Everything derives from the style's
// base foreground and background so any registry style produces a coherent
// window.
type palette struct {
	background    color.RGBA
	foreground    color.RGBA
	lineNumber    color.RGBA
	highlightLine color.RGBA
	windowBar     color.RGBA
	windowTitle   color.RGBA
}

func newPalette(style *chroma.Style) palette {
	background := entryColor(style.Get(chroma.Background).Background, color.RGBA{40, 42, 54, 255})
	foreground := entryColor(style.Get(chroma.Text).Colour, color.RGBA{248, 248, 242, 255})
	return palette{
		background:    background,
		foreground:    foreground,
		lineNumber:    entryColor(style.Get(chroma.LineNumbers).Colour, mix(foreground, background, 128)),
		highlightLine: entryColor(style.Get(chroma.LineHighlight).Background, shade(background, 18)),
		windowBar:     shade(background, 12),
		windowTitle:   foreground,
	}
}

// tokenColor resolves a token type through the style's inheritance chain,
// falling back to the base foreground for types the style does not color.
func tokenColor(style *chroma.Style, pal palette, t chroma.TokenType) color.RGBA {
	return entryColor(style.Get(t).Colour, pal.foreground)
}

func entryColor(c chroma.Colour, fallback color.RGBA) color.RGBA {
	if !c.IsSet() {
		return fallback
	}
	return color.RGBA{R: c.Red(), G: c.Green(), B: c.Blue(), A: 255}
}

// shade lightens dark colors and darkens light ones by delta, so derived
// chrome stays visible against any base background.
func shade(c color.RGBA, delta int) color.RGBA {
	luma := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
	if luma > 127 {
		delta = -delta
	}
	return color.RGBA{
		R: clampByte(int(c.R) + delta),
		G: clampByte(int(c.G) + delta),
		B: clampByte(int(c.B) + delta),
		A: 255,
	}
}

// mix blends a toward b by weight out of 255.
func mix(a, b color.RGBA, weight int) color.RGBA {
	blend := func(x, y uint8) uint8 {
		return uint8((int(x)*(255-weight) + int(y)*weight) / 255)
	}
	return color.RGBA{R: blend(a.R, b.R), G: blend(a.G, b.G), B: blend(a.B, b.B), A: 255}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
