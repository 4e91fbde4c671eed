package analyzer

import (
	"slices"
	"strings"
)

const (
	defaultMaxKeywords = 50
	minKeywordLength   = 4
)

// TopKeywords strips comments and string literals from JavaScript-like source,
// splits the rest into identifier-like words longer than three characters and
// returns the limit most frequent ones, lowercased. Words with equal counts keep
// the order of their first occurrence.
func TopKeywords(source string, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, word := range identifierWords(stripCommentsAndStrings(source)) {
		if len(word) < minKeywordLength {
			continue
		}
		word = strings.ToLower(word)
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	return order
}

// identifierWords splits text into runs of [A-Za-z0-9_], dropping runs that
// start with a digit.
func identifierWords(text string) []string {
	var words []string
	start := -1
	for i := 0; i <= len(text); i++ {
		if i < len(text) && isWordByte(text[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if !isDigit(text[start]) {
				words = append(words, text[start:i])
			}
			start = -1
		}
	}
	return words
}

func isWordByte(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// stripCommentsAndStrings replaces block comments, line comments and the
// contents of quoted and template literals with spaces. Newlines are kept.
// Regular expression literals are not recognized.
func stripCommentsAndStrings(source string) string {
	const (
		code = iota
		lineComment
		blockComment
		quoted
	)

	var b strings.Builder
	b.Grow(len(source))
	state := code
	var quote byte
	for i := 0; i < len(source); i++ {
		c := source[i]
		switch state {
		case code:
			switch {
			case c == '/' && i+1 < len(source) && source[i+1] == '/':
				state = lineComment
				i++
				b.WriteString("  ")
			case c == '/' && i+1 < len(source) && source[i+1] == '*':
				state = blockComment
				i++
				b.WriteString("  ")
			case c == '\'' || c == '"' || c == '`':
				state = quoted
				quote = c
				b.WriteByte(' ')
			default:
				b.WriteByte(c)
			}
		case lineComment:
			if c == '\n' {
				state = code
				b.WriteByte(c)
			} else {
				b.WriteByte(' ')
			}
		case blockComment:
			if c == '*' && i+1 < len(source) && source[i+1] == '/' {
				state = code
				i++
				b.WriteString("  ")
			} else {
				b.WriteByte(blank(c))
			}
		case quoted:
			switch {
			case c == '\\' && i+1 < len(source):
				i++
				b.WriteByte(' ')
				b.WriteByte(blank(source[i]))
			case c == quote:
				state = code
				b.WriteByte(' ')
			case c == '\n' && quote != '`':
				// Unterminated single-line string.
				state = code
				b.WriteByte(c)
			default:
				b.WriteByte(blank(c))
			}
		}
	}
	return b.String()
}

func blank(c byte) byte {
	if c == '\n' {
		return '\n'
	}
	return ' '
}
