package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
	"unicode/utf8"

	// Background images may arrive in formats other than PNG.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/alecthomas/chroma/v2"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/watzon/inkify/pkg/resolve"
)

// ImageFetcher retrieves the bytes behind a background_image URL. The engine
// treats fetch failures as caller-attributable: the caller chose the URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageEngine renders jobs with the built-in bitmap face. All state is
// immutable after construction; the engine is safe for concurrent use.
type ImageEngine struct {
	fetcher ImageFetcher
}

// NewImageEngine builds the engine. fetcher may be nil, in which case jobs
// carrying a background_image fail with an internal error.
func NewImageEngine(fetcher ImageFetcher) *ImageEngine {
	return &ImageEngine{fetcher: fetcher}
}

// Themes lists the theme catalog, sorted.
func (e *ImageEngine) Themes() []string { return themeNames() }

// Fonts lists the font catalog, sorted.
func (e *ImageEngine) Fonts() []string { return fontNames() }

// Languages lists the language catalog, sorted.
func (e *ImageEngine) Languages() []string { return languageNames() }

// Glyph metrics for basicfont.Face7x13.
const (
	glyphWidth  = 7
	glyphHeight = 13
	glyphAscent = 11
)

const (
	innerPad       = 16
	titleBarHeight = 36
	cornerRadius   = 8
	controlRadius  = 6
	controlSpacing = 22
)

var controlColors = []color.RGBA{
	{255, 95, 86, 255},  // close
	{255, 189, 46, 255}, // minimize
	{39, 201, 63, 255},  // zoom
}

// Render draws the job and encodes it as PNG.
func (e *ImageEngine) Render(ctx context.Context, job *resolve.Job) ([]byte, error) {
	lexer, err := e.resolveLanguage(job)
	if err != nil {
		return nil, err
	}

	theme, ok := lookupTheme(job.Theme)
	if !ok {
		return nil, ClientErrorf("unknown theme %q", job.Theme)
	}
	for _, spec := range job.Fonts {
		if _, ok := lookupFont(spec.Name); !ok {
			return nil, ClientErrorf("unknown font %q", spec.Name)
		}
	}

	lines := splitLines(job.Code, job.TabWidth)
	if n := len(job.HighlightLines); n > 0 {
		if last := job.HighlightLines[n-1]; last > len(lines) {
			return nil, ClientErrorf("highlight line %d is past the end of the snippet (%d lines)", last, len(lines))
		}
	}
	tokenLines, err := tokenizeLines(lexer, strings.Join(lines, "\n"))
	if err != nil {
		return nil, InternalErrorf("tokenizing snippet: %v", err)
	}

	var background image.Image
	if job.BackgroundImage != "" {
		if e.fetcher == nil {
			return nil, InternalErrorf("background images are not enabled on this server")
		}
		data, err := e.fetcher.Fetch(ctx, job.BackgroundImage)
		if err != nil {
			return nil, ClientErrorf("fetching background image: %v", err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, ClientErrorf("background image is not a decodable image: %v", err)
		}
		background = img
	}

	canvas := e.compose(job, theme, tokenLines, lines, background)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, InternalErrorf("encoding png: %v", err)
	}
	return buf.Bytes(), nil
}

// resolveLanguage maps the job's language to a lexer. An explicit but
// unknown name is the caller's mistake; an empty one falls back to the
// engine's detection heuristics and finally to plain text.
func (e *ImageEngine) resolveLanguage(job *resolve.Job) (chroma.Lexer, error) {
	if job.Language == "" {
		return detectLanguage(job.Code), nil
	}
	lexer, ok := lookupLanguage(job.Language)
	if !ok {
		return nil, ClientErrorf("unknown language %q", job.Language)
	}
	return lexer, nil
}

func (e *ImageEngine) compose(job *resolve.Job, style *chroma.Style, tokenLines [][]chroma.Token, lines []string, background image.Image) *image.RGBA {
	pal := newPalette(style)
	lineHeight := glyphHeight + 2*job.LinePad

	maxCols := 1
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxCols {
			maxCols = n
		}
	}

	gutterWidth := 0
	if !job.NoLineNumber {
		digits := len(strconv.Itoa(job.LineOffset + len(lines) - 1))
		gutterWidth = digits*glyphWidth + innerPad
	}

	barHeight := 0
	if !job.NoWindowControls || job.WindowTitle != "" {
		barHeight = titleBarHeight
	}

	panelWidth := 2*innerPad + gutterWidth + maxCols*glyphWidth
	panelHeight := barHeight + 2*innerPad + len(lines)*lineHeight
	canvasWidth := panelWidth + 2*job.PadHoriz
	canvasHeight := panelHeight + 2*job.PadVert

	canvas := image.NewRGBA(image.Rect(0, 0, canvasWidth, canvasHeight))

	if background != nil {
		xdraw.ApproxBiLinear.Scale(canvas, canvas.Bounds(), background, background.Bounds(), draw.Src, nil)
	} else {
		bg := job.Background
		draw.Draw(canvas, canvas.Bounds(), &image.Uniform{color.RGBA{bg.R, bg.G, bg.B, bg.A}}, image.Point{}, draw.Src)
	}

	radius := cornerRadius
	if job.NoRoundCorner {
		radius = 0
	}
	panelRect := image.Rect(job.PadHoriz, job.PadVert, job.PadHoriz+panelWidth, job.PadVert+panelHeight)
	mask := roundedRectMask(panelWidth, panelHeight, radius)

	if job.ShadowColor.A > 0 {
		e.drawShadow(canvas, panelRect, mask, job)
	}

	draw.DrawMask(canvas, panelRect, &image.Uniform{pal.background}, image.Point{}, mask, image.Point{}, draw.Over)

	if barHeight > 0 {
		barRect := image.Rect(panelRect.Min.X, panelRect.Min.Y, panelRect.Max.X, panelRect.Min.Y+barHeight)
		draw.DrawMask(canvas, barRect, &image.Uniform{pal.windowBar}, image.Point{}, mask, image.Point{}, draw.Over)

		titleX := panelRect.Min.X + innerPad
		if !job.NoWindowControls {
			centerY := panelRect.Min.Y + barHeight/2
			for i, c := range controlColors {
				fillCircle(canvas, panelRect.Min.X+innerPad+controlRadius+i*controlSpacing, centerY, controlRadius, c)
			}
			titleX += 3*controlSpacing + innerPad/2
		}
		if job.WindowTitle != "" {
			drawString(canvas, titleX, panelRect.Min.Y+(barHeight+glyphAscent)/2, job.WindowTitle, pal.windowTitle)
		}
	}

	codeTop := panelRect.Min.Y + barHeight + innerPad
	codeLeft := panelRect.Min.X + innerPad

	highlighted := make(map[int]bool, len(job.HighlightLines))
	for _, line := range job.HighlightLines {
		highlighted[line] = true
	}

	for i := range lines {
		rowTop := codeTop + i*lineHeight
		if highlighted[i+1] {
			rowRect := image.Rect(panelRect.Min.X, rowTop, panelRect.Max.X, rowTop+lineHeight)
			draw.Draw(canvas, rowRect, &image.Uniform{pal.highlightLine}, image.Point{}, draw.Over)
		}

		baseline := rowTop + job.LinePad + glyphAscent

		if !job.NoLineNumber {
			number := strconv.Itoa(job.LineOffset + i)
			numberX := codeLeft + gutterWidth - innerPad - len(number)*glyphWidth
			drawString(canvas, numberX, baseline, number, pal.lineNumber)
		}

		if i >= len(tokenLines) {
			continue
		}
		x := codeLeft + gutterWidth
		for _, token := range tokenLines[i] {
			text := strings.TrimRight(token.Value, "\n")
			if text == "" {
				continue
			}
			drawString(canvas, x, baseline, text, tokenColor(style, pal, token.Type))
			x += utf8.RuneCountInString(text) * glyphWidth
		}
	}

	return canvas
}

// drawShadow composites a blurred copy of the panel silhouette offset by the
// job's shadow offsets, before the panel itself is drawn over it.
func (e *ImageEngine) drawShadow(canvas *image.RGBA, panelRect image.Rectangle, mask *image.Alpha, job *resolve.Job) {
	blurred := mask
	if job.ShadowBlurRadius > 0 {
		blurred = blurAlpha(mask, job.ShadowBlurRadius)
	}
	sc := job.ShadowColor
	offset := image.Pt(job.ShadowOffsetX, job.ShadowOffsetY)
	target := blurred.Bounds().
		Add(panelRect.Min).
		Sub(image.Pt((blurred.Bounds().Dx()-panelRect.Dx())/2, (blurred.Bounds().Dy()-panelRect.Dy())/2)).
		Add(offset)
	draw.DrawMask(canvas, target, &image.Uniform{color.RGBA{sc.R, sc.G, sc.B, sc.A}}, image.Point{}, blurred, blurred.Bounds().Min, draw.Over)
}

// splitLines normalizes newlines and expands tabs to the configured width.
func splitLines(code string, tabWidth int) []string {
	code = strings.ReplaceAll(code, "\r\n", "\n")
	lines := strings.Split(code, "\n")
	// A single trailing newline should not produce a phantom empty line.
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = expandTabs(line, tabWidth)
	}
	return lines
}

func expandTabs(line string, tabWidth int) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}
	if tabWidth < 1 {
		tabWidth = 1
	}
	var out strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			spaces := tabWidth - col%tabWidth
			out.WriteString(strings.Repeat(" ", spaces))
			col += spaces
			continue
		}
		out.WriteRune(r)
		col++
	}
	return out.String()
}

func drawString(dst *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func fillCircle(dst *image.RGBA, cx, cy, r int, c color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				dst.SetRGBA(cx+dx, cy+dy, c)
			}
		}
	}
}

// roundedRectMask builds an opaque w x h alpha mask with quarter-circle
// corners cut out.
func roundedRectMask(w, h, radius int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if insideRounded(x, y, w, h, radius) {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}
	return mask
}

func insideRounded(x, y, w, h, radius int) bool {
	if radius <= 0 {
		return true
	}
	cx, cy := -1, -1
	switch {
	case x < radius && y < radius:
		cx, cy = radius-1, radius-1
	case x >= w-radius && y < radius:
		cx, cy = w-radius, radius-1
	case x < radius && y >= h-radius:
		cx, cy = radius-1, h-radius
	case x >= w-radius && y >= h-radius:
		cx, cy = w-radius, h-radius
	default:
		return true
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

// blurAlpha box-blurs a mask, growing the bounds by the radius on every side
// so the shadow can bleed past the panel edges. Two passes approximate a
// Gaussian closely enough for a drop shadow.
func blurAlpha(src *image.Alpha, radius int) *image.Alpha {
	w := src.Bounds().Dx() + 2*radius
	h := src.Bounds().Dy() + 2*radius
	padded := image.NewAlpha(image.Rect(0, 0, w, h))
	draw.Draw(padded, image.Rect(radius, radius, radius+src.Bounds().Dx(), radius+src.Bounds().Dy()), src, src.Bounds().Min, draw.Src)

	for pass := 0; pass < 2; pass++ {
		padded = boxBlurPass(padded, radius)
	}
	return padded
}

func boxBlurPass(src *image.Alpha, radius int) *image.Alpha {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	window := 2*radius + 1

	horizontal := image.NewAlpha(bounds)
	for y := 0; y < h; y++ {
		sum := 0
		for x := -radius; x <= radius; x++ {
			sum += alphaAt(src, x, y)
		}
		for x := 0; x < w; x++ {
			horizontal.SetAlpha(x, y, color.Alpha{A: uint8(sum / window)})
			sum += alphaAt(src, x+radius+1, y) - alphaAt(src, x-radius, y)
		}
	}

	vertical := image.NewAlpha(bounds)
	for x := 0; x < w; x++ {
		sum := 0
		for y := -radius; y <= radius; y++ {
			sum += alphaAt(horizontal, x, y)
		}
		for y := 0; y < h; y++ {
			vertical.SetAlpha(x, y, color.Alpha{A: uint8(sum / window)})
			sum += alphaAt(horizontal, x, y+radius+1) - alphaAt(horizontal, x, y-radius)
		}
	}
	return vertical
}

func alphaAt(img *image.Alpha, x, y int) int {
	if x < 0 || y < 0 || x >= img.Bounds().Dx() || y >= img.Bounds().Dy() {
		return 0
	}
	return int(img.AlphaAt(x, y).A)
}
