package api

// helpResponse is the GET / body.
type helpResponse struct {
	Name   string            `json:"name"`
	Routes map[string]string `json:"routes"`
	Params map[string]string `json:"params"`
}

// helpRoutes documents the HTTP surface for GET /.
var helpRoutes = map[string]string{
	"GET /":          "this document",
	"GET /generate":  "render a code snippet to a PNG image",
	"GET /themes":    "list available syntax themes",
	"GET /languages": "list supported languages",
	"GET /fonts":     "list available fonts",
}

// helpParams documents the /generate query parameters for GET /.
var helpParams = map[string]string{
	"code":               "required; the code snippet to render",
	"language":           "language to highlight with; guessed when omitted",
	"theme":              "syntax theme name (default Dracula)",
	"font":               "font list with optional sizes, e.g. \"Fira Code;SimSun=31\"",
	"tab_width":          "spaces per tab (default 4)",
	"line_pad":           "extra vertical padding per line (default 2)",
	"line_offset":        "first line number (default 1)",
	"pad_horiz":          "horizontal padding (default 80)",
	"pad_vert":           "vertical padding (default 100)",
	"shadow_blur_radius": "shadow blur radius (default 0)",
	"shadow_offset_x":    "shadow x offset (default 0)",
	"shadow_offset_y":    "shadow y offset (default 0)",
	"shadow_color":       "shadow color, hex RGB(A)",
	"background":         "background color, hex RGB(A)",
	"background_image":   "http(s) URL of a background image",
	"no_line_number":     "hide line numbers (default false)",
	"no_round_corner":    "square corners (default false)",
	"no_window_controls": "hide window controls (default false)",
	"window_title":       "title bar text (default Inkify)",
	"highlight_lines":    "lines to highlight, e.g. \"3,5-7\"",
}
