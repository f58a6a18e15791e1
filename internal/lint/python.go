// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package lint

import (
	"strings"
	"unicode"
)

// pyToken is a lexeme of Python source with the line it starts on (1-based).
type pyToken struct {
	text string
	line int
}

// tokenize splits Python source into names, numbers, strings and single
// character operators. Comments and whitespace are dropped, and every newline
// outside brackets becomes a "\n" token so statements stay separated.
func tokenize(src string) []pyToken {
	var toks []pyToken
	line := 1
	depth := 0
	rs := []rune(src)

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == '\n':
			if depth == 0 {
				toks = append(toks, pyToken{"\n", line})
			}
			line++
			i++
		case unicode.IsSpace(r):
			i++
		case r == '#':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
		case r == '\\' && i+1 < len(rs) && rs[i+1] == '\n':
			line++
			i += 2
		case r == '"' || r == '\'':
			start, startLine := i, line
			i, line = scanString(rs, i, line)
			toks = append(toks, pyToken{string(rs[start:i]), startLine})
		case isIdentStart(r):
			start := i
			for i < len(rs) && isIdentPart(rs[i]) {
				i++
			}
			// String prefixes such as f"..." or rb'...'.
			if i < len(rs) && (rs[i] == '"' || rs[i] == '\'') && i-start <= 2 && isStringPrefix(string(rs[start:i])) {
				startLine := line
				i, line = scanString(rs, i, line)
				toks = append(toks, pyToken{string(rs[start:i]), startLine})
				continue
			}
			toks = append(toks, pyToken{string(rs[start:i]), line})
		case unicode.IsDigit(r):
			start := i
			for i < len(rs) && (isIdentPart(rs[i]) || rs[i] == '.') {
				i++
			}
			toks = append(toks, pyToken{string(rs[start:i]), line})
		default:
			switch r {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth = max(0, depth-1)
			}
			toks = append(toks, pyToken{string(r), line})
			i++
		}
	}
	return toks
}

// scanString consumes a quoted literal starting at rs[i], single or triple
// quoted, and returns the index after it and the updated line.
func scanString(rs []rune, i, line int) (int, int) {
	q := rs[i]
	triple := i+2 < len(rs) && rs[i+1] == q && rs[i+2] == q
	if triple {
		i += 3
		for i < len(rs) {
			if rs[i] == '\\' {
				if i+1 < len(rs) && rs[i+1] == '\n' {
					line++
				}
				i += 2
				continue
			}
			if rs[i] == '\n' {
				line++
			}
			if rs[i] == q && i+2 < len(rs) && rs[i+1] == q && rs[i+2] == q {
				return i + 3, line
			}
			i++
		}
		return i, line
	}

	i++
	for i < len(rs) && rs[i] != '\n' {
		switch rs[i] {
		case '\\':
			i += 2
			continue
		case q:
			return i + 1, line
		}
		i++
	}
	return i, line
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return isIdentStart(r) || unicode.IsDigit(r) }

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "u", "f", "b", "br", "rb", "fr", "rf":
		return true
	}
	return false
}

// decoratorCall is one "@name(...)" occurrence: the tokens inside its outer
// brackets (nested brackets removed) and the line of the "@".
type decoratorCall struct {
	inner []pyToken
	line  int
}

// decoratorCalls finds every call of the decorator in the token stream. The
// tokens between the outermost brackets are kept, bracket tokens themselves
// are dropped.
func decoratorCalls(toks []pyToken, decorator string) []decoratorCall {
	var calls []decoratorCall
	for i := 1; i < len(toks); i++ {
		if toks[i].text != decorator || toks[i-1].text != "@" {
			continue
		}
		call := decoratorCall{line: toks[i-1].line}
		depth := 0
		j := i + 1
		for ; j < len(toks); j++ {
			t := toks[j].text
			if t == "(" || t == "[" {
				depth++
				continue
			}
			if t == ")" || t == "]" {
				depth--
				if depth == 0 {
					break
				}
				continue
			}
			if depth == 0 {
				break
			}
			call.inner = append(call.inner, toks[j])
		}
		calls = append(calls, call)
		i = j
	}
	return calls
}

// names splits the call arguments on commas. Quotes are stripped and keyword
// arguments are ignored.
func (c decoratorCall) names() []string {
	var out []string
	var parts [][]pyToken
	var cur []pyToken
	for _, t := range c.inner {
		if t.text == "," {
			parts = append(parts, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	parts = append(parts, cur)

	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		if len(p) > 1 && p[1].text == "=" {
			continue
		}
		var sb strings.Builder
		for _, t := range p {
			sb.WriteString(unquote(t.text))
		}
		out = append(out, sb.String())
	}
	return out
}

func unquote(s string) string {
	i := strings.IndexAny(s, `"'`)
	if i < 0 || (i > 0 && !isStringPrefix(s[:i])) {
		return s
	}
	body := s[i:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(body) >= 2*len(q) && strings.HasPrefix(body, q) && strings.HasSuffix(body, q) {
			return body[len(q) : len(body)-len(q)]
		}
	}
	return s
}
