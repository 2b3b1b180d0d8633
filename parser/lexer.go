package parser

import (
	"fmt"
	"go/token"

	"github.com/slicelab/winnow/ast"
	"github.com/slicelab/winnow/diag"
)

type tokenKind uint8

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenChar
	tokenString
	tokenSymbol
)

// lexToken is a lexical token. pos and end are byte offsets into the source.
type lexToken struct {
	kind tokenKind
	text string
	pos  token.Pos
	end  token.Pos
}

// describe renders the token for error messages.
func (t lexToken) describe() string {
	if t.kind == tokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", t.text)
}

// twoCharSymbols are matched before single characters.
var twoCharSymbols = []string{"==", "!=", "<=", ">=", "&&", "||"}

const singleCharSymbols = "()[]{},.:=+-*/%<>!~^"

// lex scans src into tokens. The returned slice always ends with an EOF
// token so the parser can peek without bounds checks.
func lex(src string) ([]lexToken, *diag.Errors) {
	var toks []lexToken
	var errs *diag.Errors

	i := 0
scan:
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case isDigit(c):
			start := i
			i = scanNumber(src, i)
			toks = append(toks, lexToken{tokenNumber, src[start:i], token.Pos(start), token.Pos(i)})
		case isAlpha(c):
			start := i
			for i < len(src) && isAlphaNum(src[i]) {
				i++
			}
			toks = append(toks, lexToken{tokenIdent, src[start:i], token.Pos(start), token.Pos(i)})
		case c == '"' || c == '\'':
			start := i
			i++
			closed := false
			for i < len(src) {
				if src[i] == '\\' && i+1 < len(src) {
					i += 2
					continue
				}
				if src[i] == c {
					i++
					closed = true
					break
				}
				if src[i] == '\n' {
					break
				}
				i++
			}
			kind := tokenString
			what := "string"
			if c == '\'' {
				kind = tokenChar
				what = "character"
			}
			if !closed {
				errs = errs.With(diag.New(diag.NewSyntax{
					Positioner:    ast.Range{PosStart: token.Pos(start), PosEnd: token.Pos(i)},
					ParserMessage: fmt.Sprintf("unterminated %s literal", what),
				}))
			}
			toks = append(toks, lexToken{kind, src[start:i], token.Pos(start), token.Pos(i)})
		default:
			for _, sym := range twoCharSymbols {
				if len(src)-i >= 2 && src[i:i+2] == sym {
					toks = append(toks, lexToken{tokenSymbol, sym, token.Pos(i), token.Pos(i + 2)})
					i += 2
					continue scan
				}
			}
			if isSingleCharSymbol(c) {
				toks = append(toks, lexToken{tokenSymbol, string(c), token.Pos(i), token.Pos(i + 1)})
				i++
				continue
			}
			errs = errs.With(diag.New(diag.NewSyntax{
				Positioner:    ast.Range{PosStart: token.Pos(i), PosEnd: token.Pos(i + 1)},
				ParserMessage: fmt.Sprintf("unexpected character %q", c),
			}))
			i++
		}
	}

	toks = append(toks, lexToken{kind: tokenEOF, pos: token.Pos(len(src)), end: token.Pos(len(src))})
	return toks, errs
}

// scanNumber consumes a numeric literal starting at i: decimal or 0x hex,
// with optional fraction, exponent, and a single l/f/d suffix letter.
func scanNumber(src string, i int) int {
	if src[i] == '0' && i+1 < len(src) && (src[i+1] == 'x' || src[i+1] == 'X') {
		i += 2
		for i < len(src) && (isHex(src[i]) || src[i] == '_') {
			i++
		}
	} else {
		for i < len(src) && (isDigit(src[i]) || src[i] == '_') {
			i++
		}
		if i+1 < len(src) && src[i] == '.' && isDigit(src[i+1]) {
			i++
			for i < len(src) && (isDigit(src[i]) || src[i] == '_') {
				i++
			}
		}
		if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
			j := i + 1
			if j < len(src) && (src[j] == '+' || src[j] == '-') {
				j++
			}
			if j < len(src) && isDigit(src[j]) {
				i = j
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
		}
	}
	if i < len(src) {
		switch src[i] {
		case 'l', 'L', 'f', 'F', 'd', 'D':
			i++
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }

func isSingleCharSymbol(b byte) bool {
	for j := 0; j < len(singleCharSymbols); j++ {
		if singleCharSymbols[j] == b {
			return true
		}
	}
	return false
}
