package render

import (
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// detectLanguage picks a lexer for a snippet with no language from the
// caller or the classifier. Shebangs and document signatures on the opening
// line are checked first because chroma's content analysers cover only a
// handful of languages; after that chroma gets a shot at the whole snippet,
// and anything unrecognized renders as plain text.
func detectLanguage(code string) chroma.Lexer {
	firstLine := code
	if idx := strings.IndexByte(code, '\n'); idx >= 0 {
		firstLine = code[:idx]
	}
	firstLine = strings.TrimSpace(firstLine)

	if name := signatureLexer(firstLine); name != "" {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer
	}
	return lexers.Fallback
}

func signatureLexer(firstLine string) string {
	lower := strings.ToLower(firstLine)
	switch {
	case strings.HasPrefix(lower, "<?php"):
		return "php"
	case strings.HasPrefix(lower, "<!doctype html"), strings.HasPrefix(lower, "<html"):
		return "html"
	case strings.HasPrefix(firstLine, "#!"):
		return shebangLexer(firstLine)
	}
	return ""
}

// shebangLexer maps "#!/usr/bin/env python3" style interpreter lines to a
// lexer name, dropping env indirection and trailing version digits.
func shebangLexer(shebang string) string {
	fields := strings.Fields(strings.TrimPrefix(shebang, "#!"))
	if len(fields) == 0 {
		return ""
	}
	prog := path.Base(fields[0])
	if prog == "env" && len(fields) > 1 {
		prog = path.Base(fields[1])
	}
	prog = strings.TrimRightFunc(prog, func(r rune) bool {
		return r >= '0' && r <= '9' || r == '.'
	})

	switch prog {
	case "python":
		return "python"
	case "sh", "bash", "zsh", "ksh", "dash":
		return "bash"
	case "node", "nodejs":
		return "javascript"
	case "ruby":
		return "ruby"
	case "perl":
		return "perl"
	}
	return ""
}
