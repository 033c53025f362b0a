package classify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testModel = `
version: 1
languages:
  - name: python
    tokens:
      def: 50
      self: 40
      import: 30
      print: 25
  - name: rust
    tokens:
      fn: 50
      let: 40
      mut: 30
      "::": 45
  - name: go
    tokens:
      func: 50
      package: 30
      err: 40
      ":=": 45
`

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	model, err := ParseModel([]byte(testModel))
	require.NoError(t, err)
	return New(model, 0)
}

func TestClassifyRanksObviousSnippets(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "python", code: "def main():\n    print(self)\n", want: "python"},
		{name: "rust", code: "fn main() { let mut x = std::env::args(); }", want: "rust"},
		{name: "go", code: "package main\nfunc main() { err := run() }", want: "go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Classify(tt.code)
			top, ok := result.Top()
			require.True(t, ok)
			assert.Equal(t, tt.want, top.Language)
			assert.Greater(t, top.Confidence, 0.0)
			assert.LessOrEqual(t, top.Confidence, 1.0)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := newTestClassifier(t)
	code := "def run():\n    import os\n    print(os)\n"

	first := c.Classify(code)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Classify(code))
	}
}

func TestClassifyConfidencesSumToOne(t *testing.T) {
	c := newTestClassifier(t)
	result := c.Classify("def f(): print(1)")
	require.NotEmpty(t, result)

	var total float64
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].Confidence, result[i].Confidence, "result must be sorted")
	}
	for _, candidate := range result {
		total += candidate.Confidence
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestClassifyEmptyCases(t *testing.T) {
	c := newTestClassifier(t)

	assert.Empty(t, c.Classify(""), "empty input")
	assert.Empty(t, c.Classify("   \n\t  "), "no tokens")
	assert.Empty(t, c.Classify("+++ --- *** ((( )))"), "no word or symbol tokens")
	assert.Empty(t, c.Classify("zebra quagga okapi"), "no vocabulary overlap")
}

func TestClassifySkipsOversizedInput(t *testing.T) {
	model, err := ParseModel([]byte(testModel))
	require.NoError(t, err)
	c := New(model, 16)

	assert.NotEmpty(t, c.Classify("def f(): pass"))
	assert.Empty(t, c.Classify(strings.Repeat("def ", 100)), "over the input cap")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testModel), 0o644))

	c, err := LoadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "python", "rust"}, c.Languages())
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), 0)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 2\nlanguages: []"), 0o644))
	_, err = LoadFile(path, 0)
	assert.Error(t, err)
}

func TestParseModelValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "wrong version", yaml: "version: 7\nlanguages:\n  - name: x\n    tokens: {a: 1}"},
		{name: "no languages", yaml: "version: 1\nlanguages: []"},
		{name: "unnamed language", yaml: "version: 1\nlanguages:\n  - tokens: {a: 1}"},
		{name: "duplicate language", yaml: "version: 1\nlanguages:\n  - name: x\n    tokens: {a: 1}\n  - name: x\n    tokens: {b: 1}"},
		{name: "no tokens", yaml: "version: 1\nlanguages:\n  - name: x\n    tokens: {}"},
		{name: "negative count", yaml: "version: 1\nlanguages:\n  - name: x\n    tokens: {a: -3}"},
		{name: "not yaml", yaml: "{{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModel([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadEmbedded(t *testing.T) {
	c, err := LoadEmbedded(0)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Languages())

	top, ok := c.Classify("def hello():\n    print('hi')\n").Top()
	require.True(t, ok)
	assert.Equal(t, "python", top.Language)
}

func TestClassifierIsConcurrencySafe(t *testing.T) {
	c := newTestClassifier(t)
	snippets := []string{
		"def a(): print(1)",
		"fn main() { let x = 1; }",
		"package main\nfunc main() {}",
	}

	done := make(chan struct{})
	for i := 0; i < 24; i++ {
		go func(code string) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				c.Classify(code)
			}
		}(snippets[i%len(snippets)])
	}
	for i := 0; i < 24; i++ {
		<-done
	}
}
