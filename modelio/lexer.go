package modelio

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenKind classifies lexer output.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokName
	tokNumber
	tokString
	tokOp
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of file"
	case tokNewline:
		return "end of line"
	case tokName:
		return "name"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	default:
		return "operator"
	}
}

// token is one lexeme. For strings, text holds the decoded value.
type token struct {
	kind      tokenKind
	text      string
	line, col int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func (t token) String() string {
	switch t.kind {
	case tokEOF, tokNewline:
		return t.kind.String()
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// lexer splits python-shaped source into logical-line tokens: newlines
// inside brackets and after a backslash are joined, comments are dropped.
type lexer struct {
	src       string
	pos       int
	line, col int
	depth     int
}

func newLexer(src []byte) *lexer {
	return &lexer{src: string(src), line: 1, col: 1}
}

// tokenize returns all tokens up to and including tokEOF.
func (lx *lexer) tokenize() ([]token, error) {
	var out []token
	for {
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		// Collapse blank lines.
		if t.kind == tokNewline && (len(out) == 0 || out[len(out)-1].kind == tokNewline) {
			continue
		}
		out = append(out, t)
		if t.kind == tokEOF {
			return out, nil
		}
	}
}

func (lx *lexer) errorf(line, col int, format string, args ...any) error {
	return &ParseError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) peekRune() rune {
	if lx.pos >= len(lx.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	return r
}

func (lx *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *lexer) next() (token, error) {
	for lx.pos < len(lx.src) {
		line, col := lx.line, lx.col
		r := lx.peekRune()
		switch {
		case r == '\n':
			lx.advance()
			if lx.depth == 0 {
				return token{kind: tokNewline, line: line, col: col}, nil
			}
		case r == '\r' || r == ' ' || r == '\t' || r == '\f':
			lx.advance()
		case r == '#':
			for lx.pos < len(lx.src) && lx.peekRune() != '\n' {
				lx.advance()
			}
		case r == '\\':
			lx.advance()
			if lx.peekRune() == '\r' {
				lx.advance()
			}
			if lx.peekRune() != '\n' {
				return token{}, lx.errorf(line, col, "unexpected character after line continuation")
			}
			lx.advance()
		case r == '_' || unicode.IsLetter(r):
			return lx.name(line, col), nil
		case unicode.IsDigit(r) || (r == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1])):
			return lx.number(line, col)
		case r == '\'' || r == '"':
			return lx.str(line, col)
		case strings.ContainsRune("()[]{}", r):
			lx.advance()
			if strings.ContainsRune("([{", r) {
				lx.depth++
			} else if lx.depth > 0 {
				lx.depth--
			}
			return token{kind: tokOp, text: string(r), line: line, col: col}, nil
		case strings.ContainsRune(",:.=+-*/", r):
			lx.advance()
			return token{kind: tokOp, text: string(r), line: line, col: col}, nil
		default:
			return token{}, lx.errorf(line, col, "unexpected character %q", r)
		}
	}
	return token{kind: tokEOF, line: lx.line, col: lx.col}, nil
}

func (lx *lexer) name(line, col int) token {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r := lx.peekRune()
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		lx.advance()
	}
	return token{kind: tokName, text: lx.src[start:lx.pos], line: line, col: col}
}

// number scans a python int or float literal: digits, one dot, an exponent.
func (lx *lexer) number(line, col int) (token, error) {
	start := lx.pos
	digits := func() {
		for lx.pos < len(lx.src) && (isDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
			lx.advance()
		}
	}
	digits()
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' {
		lx.advance()
		digits()
	}
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == 'e' || lx.src[lx.pos] == 'E') {
		lx.advance()
		if lx.pos < len(lx.src) && (lx.src[lx.pos] == '+' || lx.src[lx.pos] == '-') {
			lx.advance()
		}
		if lx.pos >= len(lx.src) || !isDigit(lx.src[lx.pos]) {
			return token{}, lx.errorf(line, col, "malformed exponent in %q", lx.src[start:lx.pos])
		}
		digits()
	}
	text := strings.ReplaceAll(lx.src[start:lx.pos], "_", "")
	return token{kind: tokNumber, text: text, line: line, col: col}, nil
}

// str scans a single- or double-quoted string with backslash escapes.
func (lx *lexer) str(line, col int) (token, error) {
	quote := lx.advance()
	var b strings.Builder
	for {
		if lx.pos >= len(lx.src) {
			return token{}, lx.errorf(line, col, "unterminated string")
		}
		r := lx.advance()
		switch r {
		case quote:
			return token{kind: tokString, text: b.String(), line: line, col: col}, nil
		case '\n':
			return token{}, lx.errorf(line, col, "unterminated string")
		case '\\':
			if lx.pos >= len(lx.src) {
				return token{}, lx.errorf(line, col, "unterminated string")
			}
			switch e := lx.advance(); e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteRune(e)
			case '\n':
				// escaped newline continues the string
			default:
				b.WriteByte('\\')
				b.WriteRune(e)
			}
		default:
			b.WriteRune(r)
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
