package render

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"sort"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watzon/inkify/pkg/resolve"
)

func defaultJob(code string) *resolve.Job {
	job, err := resolve.Resolve(resolve.RawRequest{"code": code}, resolve.Options{})
	if err != nil {
		panic(err)
	}
	return job
}

func TestRenderProducesPNG(t *testing.T) {
	engine := NewImageEngine(nil)

	data, err := engine.Render(context.Background(), defaultJob("def main():\n    print('hi')\n"))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err, "output must be a decodable PNG")

	// Panel plus default padding on both axes.
	assert.Greater(t, img.Bounds().Dx(), 2*resolve.DefaultPadHoriz)
	assert.Greater(t, img.Bounds().Dy(), 2*resolve.DefaultPadVert)
}

func TestRenderUnknownTheme(t *testing.T) {
	engine := NewImageEngine(nil)
	job := defaultJob("x")
	job.Theme = "NoSuchTheme"

	_, err := engine.Render(context.Background(), job)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindClient, rerr.Kind)
	assert.Contains(t, rerr.Message, "NoSuchTheme")
}

func TestRenderUnknownFont(t *testing.T) {
	engine := NewImageEngine(nil)
	job := defaultJob("x")
	job.Fonts = []resolve.FontSpec{{Name: "Comic Sans", Size: 26}}

	_, err := engine.Render(context.Background(), job)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindClient, rerr.Kind)
}

func TestRenderUnknownExplicitLanguage(t *testing.T) {
	engine := NewImageEngine(nil)
	job := defaultJob("x")
	job.Language = "klingon"

	_, err := engine.Render(context.Background(), job)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindClient, rerr.Kind)
}

func TestRenderHighlightPastEnd(t *testing.T) {
	engine := NewImageEngine(nil)
	job := defaultJob("one\ntwo\n")
	job.HighlightLines = []int{1, 9}

	_, err := engine.Render(context.Background(), job)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindClient, rerr.Kind)
	assert.Contains(t, rerr.Message, "9")
}

func TestRenderCaseInsensitiveLookups(t *testing.T) {
	engine := NewImageEngine(nil)
	job := defaultJob("fn main() {}")
	job.Theme = "dracula"
	job.Language = "RUST"
	job.Fonts = []resolve.FontSpec{{Name: "fira code", Size: 26}}

	_, err := engine.Render(context.Background(), job)
	assert.NoError(t, err)
}

func TestRenderVariants(t *testing.T) {
	engine := NewImageEngine(nil)

	variants := []func(*resolve.Job){
		func(j *resolve.Job) { j.NoLineNumber = true },
		func(j *resolve.Job) { j.NoRoundCorner = true },
		func(j *resolve.Job) { j.NoWindowControls = true; j.WindowTitle = "" },
		func(j *resolve.Job) { j.HighlightLines = []int{1} },
		func(j *resolve.Job) {
			j.ShadowColor = resolve.RGBA{R: 0, G: 0, B: 0, A: 180}
			j.ShadowBlurRadius = 5
			j.ShadowOffsetX = 3
			j.ShadowOffsetY = 3
		},
		func(j *resolve.Job) { j.Background = resolve.RGBA{R: 30, G: 30, B: 60, A: 255} },
		func(j *resolve.Job) { j.TabWidth = 8; j.Code = "a\tb" },
	}

	for i, mutate := range variants {
		t.Run(fmt.Sprintf("variant_%d", i), func(t *testing.T) {
			job := defaultJob("let x = 1;\nlet y = 2;\n")
			mutate(job)
			data, err := engine.Render(context.Background(), job)
			require.NoError(t, err)
			_, err = png.Decode(bytes.NewReader(data))
			assert.NoError(t, err)
		})
	}
}

func TestRenderBackgroundImageWithoutFetcher(t *testing.T) {
	engine := NewImageEngine(nil)
	job := defaultJob("x")
	job.BackgroundImage = "https://example.com/bg.png"

	_, err := engine.Render(context.Background(), job)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindInternal, rerr.Kind)
}

type stubFetcher struct {
	data []byte
	err  error
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	return f.data, f.err
}

func TestRenderBackgroundImage(t *testing.T) {
	// Encode a small solid image to serve as the background.
	bg, err := NewImageEngine(nil).Render(context.Background(), defaultJob("x"))
	require.NoError(t, err)

	engine := NewImageEngine(&stubFetcher{data: bg})
	job := defaultJob("print(1)")
	job.BackgroundImage = "https://example.com/bg.png"

	data, err := engine.Render(context.Background(), job)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRenderBackgroundImageFetchFailure(t *testing.T) {
	engine := NewImageEngine(&stubFetcher{err: fmt.Errorf("connection refused")})
	job := defaultJob("x")
	job.BackgroundImage = "https://example.com/bg.png"

	_, err := engine.Render(context.Background(), job)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindClient, rerr.Kind)
}

func TestRenderBackgroundImageNotAnImage(t *testing.T) {
	engine := NewImageEngine(&stubFetcher{data: []byte("<html>not an image</html>")})
	job := defaultJob("x")
	job.BackgroundImage = "https://example.com/bg.png"

	_, err := engine.Render(context.Background(), job)
	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindClient, rerr.Kind)
}

func TestCatalogsAreSortedAndNonEmpty(t *testing.T) {
	engine := NewImageEngine(nil)

	for name, list := range map[string][]string{
		"themes":    engine.Themes(),
		"fonts":     engine.Fonts(),
		"languages": engine.Languages(),
	} {
		assert.NotEmpty(t, list, name)
		assert.True(t, sort.StringsAreSorted(list), "%s must be sorted", name)
	}

	assert.Contains(t, engine.Themes(), "dracula")
	assert.Contains(t, engine.Fonts(), "Fira Code")
	assert.Contains(t, engine.Languages(), "Go")
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "python shebang", code: "#!/usr/bin/env python3\nprint(1)", want: "Python"},
		{name: "bash shebang", code: "#!/bin/bash\necho hi", want: "Bash"},
		{name: "node shebang", code: "#!/usr/bin/env node\nconsole.log(1)", want: "JavaScript"},
		{name: "php open tag", code: "<?php\necho 'hi';", want: "PHP"},
		{name: "html doctype", code: "<!DOCTYPE html>\n<html></html>", want: "HTML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectLanguage(tt.code).Config().Name)
		})
	}

	// Unrecognizable snippets render as plain text.
	assert.Equal(t, lexers.Fallback, detectLanguage("hello world"))
	assert.Equal(t, lexers.Fallback, detectLanguage(""))
}

func TestLexUnterminatedBlockComment(t *testing.T) {
	lexer, ok := lookupLanguage("go")
	require.True(t, ok)

	// "/*/" opens a block comment and does not close it, so everything
	// after it, including the whole second line, must lex as comment text.
	tokenLines, err := tokenizeLines(lexer, "a /*/ still inside\nb := 2")
	require.NoError(t, err)
	require.Len(t, tokenLines, 2)

	for _, token := range tokenLines[1] {
		assert.True(t, token.Type.InCategory(chroma.Comment),
			"token %q lexed as %s", token.Value, token.Type)
	}
}

func TestTokenizeLinesMatchesSource(t *testing.T) {
	lexer, ok := lookupLanguage("python")
	require.True(t, ok)

	code := "def f():\n    return 1\n"
	lines := splitLines(code, resolve.DefaultTabWidth)
	tokenLines, err := tokenizeLines(lexer, strings.Join(lines, "\n"))
	require.NoError(t, err)
	assert.Len(t, tokenLines, len(lines))
}
