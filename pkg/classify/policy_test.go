package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLanguage(t *testing.T) {
	confident := Result{{Language: "python", Confidence: 0.92}, {Language: "ruby", Confidence: 0.08}}
	hesitant := Result{{Language: "python", Confidence: 0.41}, {Language: "ruby", Confidence: 0.39}}

	tests := []struct {
		name      string
		userValue string
		result    Result
		floor     float64
		want      string
	}{
		{name: "explicit value wins", userValue: "rust", result: confident, floor: 0.6, want: "rust"},
		{name: "explicit value wins over empty result", userValue: "rust", result: nil, floor: 0.6, want: "rust"},
		{name: "explicit value trimmed", userValue: "  rust  ", result: nil, floor: 0.6, want: "rust"},
		{name: "confident guess used", userValue: "", result: confident, floor: 0.6, want: "python"},
		{name: "guess at exactly the floor", userValue: "", result: confident, floor: 0.92, want: "python"},
		{name: "hesitant guess dropped", userValue: "", result: hesitant, floor: 0.6, want: ""},
		{name: "empty result falls through", userValue: "", result: nil, floor: 0.6, want: ""},
		{name: "whitespace user value is absent", userValue: "   ", result: confident, floor: 0.6, want: "python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveLanguage(tt.userValue, tt.result, tt.floor)
			assert.Equal(t, tt.want, got)

			// Pure: a second identical call gives an identical answer.
			assert.Equal(t, got, ResolveLanguage(tt.userValue, tt.result, tt.floor))
		})
	}
}
