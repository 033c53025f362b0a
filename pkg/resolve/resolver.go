package resolve

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Options overrides the built-in defaults for deployment-level configuration.
// Zero fields fall back to the documented constants.
type Options struct {
	DefaultTheme string
	DefaultFont  string

	// MaxCodeBytes rejects snippets longer than this many bytes.
	// Zero means no limit.
	MaxCodeBytes int
}

// maxHighlightLines bounds how many line numbers highlight_lines may expand
// to, so a single range like "1-30000000" cannot balloon a request.
const maxHighlightLines = 10000

// Resolve validates raw and produces a Job with every field either parsed
// from the request or set to its documented default. The Language field is
// passed through exactly as the caller supplied it (empty when absent);
// resolving it is the orchestrator's job. Unknown keys in raw are ignored.
func Resolve(raw RawRequest, opts Options) (*Job, error) {
	code := strings.TrimSpace(raw["code"])
	if code == "" {
		return nil, MissingField("code")
	}
	if opts.MaxCodeBytes > 0 && len(code) > opts.MaxCodeBytes {
		return nil, InvalidField("code", "must not exceed %d bytes, got %d", opts.MaxCodeBytes, len(code))
	}

	defaultTheme := opts.DefaultTheme
	if defaultTheme == "" {
		defaultTheme = DefaultTheme
	}
	defaultFont := opts.DefaultFont
	if defaultFont == "" {
		defaultFont = DefaultFont
	}

	job := &Job{
		Code:        code,
		Language:    strings.TrimSpace(raw["language"]),
		Theme:       defaultTheme,
		Fonts:       []FontSpec{{Name: defaultFont, Size: DefaultFontSize}},
		TabWidth:    DefaultTabWidth,
		LinePad:     DefaultLinePad,
		LineOffset:  DefaultLineOffset,
		PadHoriz:    DefaultPadHoriz,
		PadVert:     DefaultPadVert,
		WindowTitle: DefaultWindowTitle,
		ShadowColor: Transparent,
		Background:  Transparent,
	}

	if v, ok := raw["theme"]; ok && strings.TrimSpace(v) != "" {
		job.Theme = strings.TrimSpace(v)
	}
	if v, ok := raw["window_title"]; ok && v != "" {
		job.WindowTitle = v
	}

	var err error
	if job.Fonts, err = fontField(raw, "font", job.Fonts); err != nil {
		return nil, err
	}
	if job.TabWidth, err = uintField(raw, "tab_width", job.TabWidth); err != nil {
		return nil, err
	}
	if job.LinePad, err = uintField(raw, "line_pad", job.LinePad); err != nil {
		return nil, err
	}
	if job.LineOffset, err = uintField(raw, "line_offset", job.LineOffset); err != nil {
		return nil, err
	}
	if job.PadHoriz, err = uintField(raw, "pad_horiz", job.PadHoriz); err != nil {
		return nil, err
	}
	if job.PadVert, err = uintField(raw, "pad_vert", job.PadVert); err != nil {
		return nil, err
	}
	if job.ShadowBlurRadius, err = uintField(raw, "shadow_blur_radius", job.ShadowBlurRadius); err != nil {
		return nil, err
	}
	if job.ShadowOffsetX, err = intField(raw, "shadow_offset_x", job.ShadowOffsetX); err != nil {
		return nil, err
	}
	if job.ShadowOffsetY, err = intField(raw, "shadow_offset_y", job.ShadowOffsetY); err != nil {
		return nil, err
	}
	if job.NoLineNumber, err = boolField(raw, "no_line_number", false); err != nil {
		return nil, err
	}
	if job.NoRoundCorner, err = boolField(raw, "no_round_corner", false); err != nil {
		return nil, err
	}
	if job.NoWindowControls, err = boolField(raw, "no_window_controls", false); err != nil {
		return nil, err
	}
	if job.ShadowColor, err = colorField(raw, "shadow_color", Transparent); err != nil {
		return nil, err
	}
	if job.Background, err = colorField(raw, "background", Transparent); err != nil {
		return nil, err
	}
	if job.HighlightLines, err = highlightField(raw, "highlight_lines"); err != nil {
		return nil, err
	}
	if job.BackgroundImage, err = urlField(raw, "background_image"); err != nil {
		return nil, err
	}

	return job, nil
}

// uintField parses a non-negative integer parameter.
func uintField(raw RawRequest, key string, def int) (int, error) {
	v, ok := raw[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, InvalidField(key, "must be an integer, got %q", v)
	}
	if n < 0 {
		return 0, InvalidField(key, "must not be negative, got %d", n)
	}
	return n, nil
}

// intField parses a signed integer parameter (shadow offsets).
func intField(raw RawRequest, key string, def int) (int, error) {
	v, ok := raw[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, InvalidField(key, "must be an integer, got %q", v)
	}
	return n, nil
}

// boolField accepts a small enumerated token set and rejects everything else.
func boolField(raw RawRequest, key string, def bool) (bool, error) {
	v, ok := raw[key]
	if !ok || v == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, InvalidField(key, "must be a boolean, got %q", v)
	}
}

func colorField(raw RawRequest, key string, def RGBA) (RGBA, error) {
	v, ok := raw[key]
	if !ok || v == "" {
		return def, nil
	}
	c, err := ParseColor(v)
	if err != nil {
		return RGBA{}, InvalidField(key, "%s", err)
	}
	return c, nil
}

// fontField parses the font fallback list, e.g. "Hack;SimSun=31". Entries
// without an explicit size use the default size.
func fontField(raw RawRequest, key string, def []FontSpec) ([]FontSpec, error) {
	v, ok := raw[key]
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	var fonts []FontSpec
	for _, entry := range strings.Split(v, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, sizeStr, hasSize := strings.Cut(entry, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, InvalidField(key, "font entry %q has no name", entry)
		}
		size := DefaultFontSize
		if hasSize {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(sizeStr), 64)
			if err != nil || parsed <= 0 {
				return nil, InvalidField(key, "font size %q must be a positive number", sizeStr)
			}
			size = parsed
		}
		fonts = append(fonts, FontSpec{Name: name, Size: size})
	}
	if len(fonts) == 0 {
		return nil, InvalidField(key, "no font entries in %q", v)
	}
	return fonts, nil
}

// highlightField parses "3,5-7" (commas or semicolons) into a sorted,
// deduplicated list of 1-based line numbers.
func highlightField(raw RawRequest, key string) ([]int, error) {
	v, ok := raw[key]
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	tokens := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' })
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		first, second, isRange := strings.Cut(token, "-")
		start, err := strconv.Atoi(strings.TrimSpace(first))
		if err != nil || start < 1 {
			return nil, InvalidField(key, "line number %q must be a positive integer", first)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(second))
			if err != nil || end < 1 {
				return nil, InvalidField(key, "line number %q must be a positive integer", second)
			}
			if end < start {
				return nil, InvalidField(key, "range %q is inverted", token)
			}
		}
		if end-start+1 > maxHighlightLines-len(seen) {
			return nil, InvalidField(key, "expands to more than %d lines", maxHighlightLines)
		}
		for line := start; line <= end; line++ {
			seen[line] = true
		}
	}
	if len(seen) == 0 {
		return nil, nil
	}

	lines := make([]int, 0, len(seen))
	for line := range seen {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines, nil
}

// urlField validates background_image as a well-formed http(s) URL. The
// resolver never fetches it.
func urlField(raw RawRequest, key string) (string, error) {
	v, ok := raw[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", nil
	}
	v = strings.TrimSpace(v)
	u, err := url.Parse(v)
	if err != nil {
		return "", InvalidField(key, "must be a valid URL: %s", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", InvalidField(key, "must be an absolute http(s) URL, got %q", v)
	}
	return v, nil
}
