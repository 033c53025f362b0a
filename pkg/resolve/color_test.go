package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  RGBA
	}{
		{input: "#ff0000", want: RGBA{255, 0, 0, 255}},
		{input: "ff0000", want: RGBA{255, 0, 0, 255}},
		{input: "#ff000080", want: RGBA{255, 0, 0, 128}},
		{input: "#f00", want: RGBA{255, 0, 0, 255}},
		{input: "#f00c", want: RGBA{255, 0, 0, 204}},
		{input: "transparent", want: RGBA{}},
		{input: "Black", want: RGBA{0, 0, 0, 255}},
		{input: "  white  ", want: RGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "#", "#12345", "notacolor", "#gggggg", "rgb(1,2,3)"} {
		_, err := ParseColor(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestRGBAString(t *testing.T) {
	assert.Equal(t, "#ff000080", RGBA{255, 0, 0, 128}.String())
	assert.Equal(t, "#00000000", Transparent.String())
}
