package command

import "unicode"

// token is one whitespace-delimited word with its byte offsets into the
// original text. Offsets let free-text captures span the raw input so
// internal spacing survives.
type token struct {
	text  string
	start int
	end   int
}

func tokenize(s string) []token {
	var tokens []token
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{text: s[start:i], start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text: s[start:], start: start, end: len(s)})
	}
	return tokens
}
