// Semestra - Academic Knowledge Graph Advisor
// Copyright 2026 Semestra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/semestra/semestra

package sparql

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokVar           // ?name
	tokIRI           // <...>
	tokPName         // prefix:local or :local
	tokWord          // bare identifier or keyword, also 'a'
	tokInt           // integer literal
	tokString        // quoted string literal
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokDot
	tokSemicolon
	tokComma
	tokOp // = != < <= > >= && || !
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of query"
	}
	return fmt.Sprintf("%q", t.text)
}

// isKeyword reports whether the token is the given keyword, compared
// case-insensitively.
func (t token) isKeyword(kw string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, kw)
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) errorf(line, col int, format string, args ...any) error {
	return &ParseError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		ch := l.peek()
		switch {
		case ch == '#':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		default:
			return
		}
	}
}

func isNameByte(ch byte) bool {
	return ch == '_' || ch == '-' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// next returns the next token. Errors carry the position of the
// offending byte.
func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	line, col := l.line, l.col
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: line, col: col}, nil
	}

	ch := l.peek()
	switch ch {
	case '{':
		l.advance()
		return token{kind: tokLBrace, text: "{", line: line, col: col}, nil
	case '}':
		l.advance()
		return token{kind: tokRBrace, text: "}", line: line, col: col}, nil
	case '(':
		l.advance()
		return token{kind: tokLParen, text: "(", line: line, col: col}, nil
	case ')':
		l.advance()
		return token{kind: tokRParen, text: ")", line: line, col: col}, nil
	case ';':
		l.advance()
		return token{kind: tokSemicolon, text: ";", line: line, col: col}, nil
	case ',':
		l.advance()
		return token{kind: tokComma, text: ",", line: line, col: col}, nil
	case '.':
		l.advance()
		return token{kind: tokDot, text: ".", line: line, col: col}, nil
	case '?', '$':
		l.advance()
		start := l.pos
		for l.pos < len(l.src) && isNameByte(l.peek()) {
			l.advance()
		}
		if l.pos == start {
			return token{}, l.errorf(line, col, "empty variable name")
		}
		return token{kind: tokVar, text: l.src[start:l.pos], line: line, col: col}, nil
	case '<':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '=' {
			l.advance()
			l.advance()
			return token{kind: tokOp, text: "<=", line: line, col: col}, nil
		}
		// Disambiguate IRIREF from the less-than operator: an IRI has
		// no whitespace before its closing '>'.
		if end, ok := l.iriEnd(); ok {
			l.advance() // consume '<'
			start := l.pos
			for l.pos < end {
				l.advance()
			}
			l.advance() // consume '>'
			return token{kind: tokIRI, text: l.src[start:end], line: line, col: col}, nil
		}
		l.advance()
		return token{kind: tokOp, text: "<", line: line, col: col}, nil
	case '>':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return token{kind: tokOp, text: ">=", line: line, col: col}, nil
		}
		return token{kind: tokOp, text: ">", line: line, col: col}, nil
	case '=':
		l.advance()
		return token{kind: tokOp, text: "=", line: line, col: col}, nil
	case '*':
		l.advance()
		return token{kind: tokOp, text: "*", line: line, col: col}, nil
	case '!':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return token{kind: tokOp, text: "!=", line: line, col: col}, nil
		}
		return token{kind: tokOp, text: "!", line: line, col: col}, nil
	case '&':
		l.advance()
		if l.peek() != '&' {
			return token{}, l.errorf(line, col, "unexpected '&'")
		}
		l.advance()
		return token{kind: tokOp, text: "&&", line: line, col: col}, nil
	case '|':
		l.advance()
		if l.peek() != '|' {
			return token{}, l.errorf(line, col, "unexpected '|'")
		}
		l.advance()
		return token{kind: tokOp, text: "||", line: line, col: col}, nil
	case '"', '\'':
		return l.lexString()
	}

	if ch >= '0' && ch <= '9' || ch == '+' || ch == '-' {
		start := l.pos
		l.advance()
		for l.pos < len(l.src) && l.peek() >= '0' && l.peek() <= '9' {
			l.advance()
		}
		return token{kind: tokInt, text: l.src[start:l.pos], line: line, col: col}, nil
	}

	if isNameByte(ch) || ch == ':' {
		start := l.pos
		for l.pos < len(l.src) && isNameByte(l.peek()) {
			l.advance()
		}
		if l.peek() == ':' {
			l.advance()
			for l.pos < len(l.src) && isNameByte(l.peek()) {
				l.advance()
			}
			return token{kind: tokPName, text: l.src[start:l.pos], line: line, col: col}, nil
		}
		return token{kind: tokWord, text: l.src[start:l.pos], line: line, col: col}, nil
	}

	r := []rune(l.src[l.pos:])[0]
	if unicode.IsPrint(r) {
		return token{}, l.errorf(line, col, "unexpected character %q", r)
	}
	return token{}, l.errorf(line, col, "unexpected byte 0x%02x", ch)
}

// iriEnd scans forward from a '<' for the matching '>' and reports
// whether the span is an IRIREF rather than a less-than operator. The
// span must be free of whitespace and IRI-illegal bytes, and must
// contain a ':': without BASE support every IRIREF is absolute, so a
// colon-free span such as "3&&?v" is an expression, not an IRI.
func (l *lexer) iriEnd() (int, bool) {
	colon := false
	for i := l.pos + 1; i < len(l.src); i++ {
		switch l.src[i] {
		case '>':
			return i, colon
		case ':':
			colon = true
		case ' ', '\t', '\r', '\n', '<', '"', '{', '}', '|', '^', '`', '\\':
			return 0, false
		}
	}
	return 0, false
}

func (l *lexer) lexString() (token, error) {
	line, col := l.line, l.col
	quote := l.advance()
	var sb strings.Builder
	for l.pos < len(l.src) {
		ch := l.advance()
		switch ch {
		case quote:
			return token{kind: tokString, text: sb.String(), line: line, col: col}, nil
		case '\\':
			if l.pos >= len(l.src) {
				return token{}, l.errorf(line, col, "unterminated string literal")
			}
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '"', '\'':
				sb.WriteByte(esc)
			default:
				return token{}, l.errorf(line, col, "unsupported escape \\%c", esc)
			}
		case '\n':
			return token{}, l.errorf(line, col, "unterminated string literal")
		default:
			sb.WriteByte(ch)
		}
	}
	return token{}, l.errorf(line, col, "unterminated string literal")
}
