package render

import (
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// lookupLanguage resolves an explicit language name or alias to a lexer.
// chroma's registry matches case-insensitively.
func lookupLanguage(name string) (chroma.Lexer, bool) {
	lexer := lexers.Get(strings.TrimSpace(name))
	if lexer == nil {
		return nil, false
	}
	return lexer, true
}

func languageNames() []string {
	names := append([]string(nil), lexers.Names(false)...)
	sort.Strings(names)
	return names
}

// tokenizeLines runs the lexer over the already tab-expanded snippet and
// regroups the token stream per source line.
func tokenizeLines(lexer chroma.Lexer, text string) ([][]chroma.Token, error) {
	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return nil, err
	}
	return chroma.SplitTokensIntoLines(it.Tokens()), nil
}
