package resolve

import "net/url"

// Default values applied when the corresponding parameter is absent.
const (
	DefaultTheme       = "Dracula"
	DefaultFont        = "Fira Code"
	DefaultFontSize    = 26.0
	DefaultTabWidth    = 4
	DefaultLinePad     = 2
	DefaultLineOffset  = 1
	DefaultPadHoriz    = 80
	DefaultPadVert     = 100
	DefaultWindowTitle = "Inkify"
)

// RawRequest is the untrusted parameter mapping taken from the query string.
// All values are strings at this boundary; nothing is validated yet.
type RawRequest map[string]string

// FromQuery flattens url.Values into a RawRequest. When a parameter is
// repeated only the first value is used, matching net/url.Values.Get.
func FromQuery(values url.Values) RawRequest {
	raw := make(RawRequest, len(values))
	for key := range values {
		raw[key] = values.Get(key)
	}
	return raw
}

// FontSpec is one entry of the font fallback list, e.g. "Hack;SimSun=31"
// resolves to two specs with sizes 26 and 31.
type FontSpec struct {
	Name string
	Size float64
}

// Job is the fully resolved specification for one image generation. It is
// built fresh per request and never mutated after construction, except for
// the single language-resolution step performed by the orchestrator when
// Language is empty.
type Job struct {
	// Code is the snippet to render. Required, non-empty after trimming.
	Code string

	// Language is the syntax to highlight with. Empty means the caller did
	// not supply one; after language resolution an empty value means the
	// rendering engine should fall back to its own detection heuristics.
	Language string

	Theme string
	Fonts []FontSpec

	TabWidth   int
	LinePad    int
	LineOffset int
	PadHoriz   int
	PadVert    int

	ShadowBlurRadius int
	ShadowOffsetX    int
	ShadowOffsetY    int

	NoLineNumber     bool
	NoRoundCorner    bool
	NoWindowControls bool

	ShadowColor RGBA
	Background  RGBA

	WindowTitle string

	// HighlightLines holds 1-based line numbers, sorted and deduplicated.
	HighlightLines []int

	// BackgroundImage is a well-formed http(s) URL or empty. It is not
	// fetched during resolution; the rendering engine fetches it.
	BackgroundImage string
}
