package classify

// Symbol digraphs that carry strong language signal on their own. Checked
// before single characters so "->" never splits into "-" and ">".
var symbolPairs = map[string]bool{
	"::": true,
	"->": true,
	"=>": true,
	":=": true,
	"<-": true,
	"#!": true,
	"<?": true,
	"?>": true,
	"</": true,
	"/>": true,
}

// Single symbols worth keeping as tokens. Braces and parens are deliberately
// excluded: nearly every language uses them, so they only add noise.
var symbolSingles = map[byte]bool{
	'$': true,
	'#': true,
	'@': true,
	';': true,
	'!': true,
}

// Tokenize splits code into the word and symbol tokens the model is trained
// on. Words are identifier-shaped runs ([A-Za-z_][A-Za-z0-9_]*); everything
// else is dropped except the symbol sets above. Tokenization is deterministic
// and case-sensitive.
func Tokenize(code string) []string {
	var tokens []string
	for i := 0; i < len(code); {
		c := code[i]
		if isWordStart(c) {
			j := i + 1
			for j < len(code) && isWordPart(code[j]) {
				j++
			}
			tokens = append(tokens, code[i:j])
			i = j
			continue
		}
		if i+1 < len(code) && symbolPairs[code[i:i+2]] {
			tokens = append(tokens, code[i:i+2])
			i += 2
			continue
		}
		if symbolSingles[c] {
			tokens = append(tokens, string(c))
		}
		i++
	}
	return tokens
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordPart(c byte) bool {
	return isWordStart(c) || (c >= '0' && c <= '9')
}
