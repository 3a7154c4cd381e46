// SPDX-License-Identifier: MPL-2.0

package cmdchain

import "strings"

// SplitTokens splits a raw command line into whitespace-delimited tokens with
// quote awareness: a double quote opens a quoted run in which whitespace does
// not split, a doubled quote inside a quoted run yields one literal quote,
// and the delimiting quotes are stripped from the final token.
func SplitTokens(line string) []string {
	var tokens []string
	var buf strings.Builder
	inQuote := false
	inToken := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inToken = true
			if inQuote && i+1 < len(line) && line[i+1] == '"' {
				buf.WriteByte('"')
				i++
			} else {
				inQuote = !inQuote
			}
		case isSpace(c) && !inQuote:
			if inToken {
				tokens = append(tokens, buf.String())
				buf.Reset()
				inToken = false
			}
		default:
			inToken = true
			buf.WriteByte(c)
		}
	}
	if inToken {
		tokens = append(tokens, buf.String())
	}
	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
