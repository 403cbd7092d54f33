// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanner tokenizes Duals source into the token stream the parser
// consumes.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"go/scanner"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/duals-lang/dualc/lang/token"
)

type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

var PrintError = scanner.PrintError

// TokenAndValue combines the token type with the token value type in the
// same struct.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanFile is a helper that tokenizes the named source file and returns the
// list of tokens it produced along with any scanning errors. The returned
// error, if non-nil, is either the error from reading the file or an
// ErrorList.
func ScanFile(_ context.Context, filename string) ([]TokenAndValue, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ScanSource(filename, b)
}

// ScanSource tokenizes src, attributing positions to filename in any error
// message.
func ScanSource(filename string, src []byte) ([]TokenAndValue, error) {
	var (
		s      Scanner
		tokVal token.Value
		el     ErrorList
	)
	s.Init(filename, src, el.Add)

	var toks []TokenAndValue
	for {
		tok := s.Scan(&tokVal)
		toks = append(toks, TokenAndValue{Token: tok, Value: tokVal})
		if tok == token.EOF {
			break
		}
	}
	el.Sort()
	return toks, el.Err()
}

// Scanner tokenizes a single source file.
type Scanner struct {
	filename string
	src      []byte
	err      func(token.Position, string)

	sb               strings.Builder
	pendingSurrogate rune // first half of a pending UTF-16 surrogate pair in a string literal
	invalidByte      byte // when cur==RuneError due to failed utf8 decode, the offending byte
	cur              rune // current character
	off              int  // byte offset of cur in src
	roff             int  // byte offset just past cur
	line, col        int  // 1-based line/column of cur
}

// Init initializes the scanner to tokenize src, attributed to filename for
// position reporting. errHandler is called for every scanning error found;
// it may be nil.
func (s *Scanner) Init(filename string, src []byte, errHandler func(token.Position, string)) {
	s.filename = filename
	s.src = src
	s.err = errHandler

	s.sb.Reset()
	s.pendingSurrogate = 0
	s.invalidByte = 0
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.line = 1
	s.col = 0

	s.advance()
}

// peek returns the byte following the most recently read character without
// advancing the scanner. Returns 0 at EOF.
func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

// advance reads the next Unicode character into s.cur and updates the
// line/column bookkeeping; s.cur < 0 means end-of-file.
func (s *Scanner) advance() {
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}

	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		s.col++
		return
	}

	s.off = s.roff
	s.invalidByte = 0
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, s.line, s.col+1, "illegal UTF-8 encoding")
			s.invalidByte = s.src[s.roff]
		}
	}
	s.roff += w
	s.cur = r
	s.col++
}

func (s *Scanner) error(off, line, col int, msg string) {
	if s.err != nil {
		s.err(token.Position{Filename: s.filename, Line: line, Column: col, Offset: off}, msg)
	}
}

func (s *Scanner) errorf(off, line, col int, format string, args ...any) {
	s.error(off, line, col, fmt.Sprintf(format, args...))
}

// advanceIf advances only if the current char matches one of the given
// bytes.
func (s *Scanner) advanceIf(matches ...byte) bool {
	for _, m := range matches {
		if s.cur == rune(m) {
			s.advance()
			return true
		}
	}
	return false
}

// Scan returns the next token in the source, filling tokVal with its
// literal text and, for INT/FLOAT/STRING, its decoded value.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	s.skipWhitespaceAndComments()

	pos := token.MakePos(s.line, s.col)
	start := s.off

	switch cur := s.cur; {
	case isLetter(cur):
		lit := s.ident()
		tok = token.LookupIdent(lit)
		*tokVal = token.Value{Raw: lit, Pos: pos}
		return tok

	case isDecimal(cur) || (cur == '.' && isDecimal(rune(s.peek()))):
		var lit string
		tok, lit = s.number()
		*tokVal = token.Value{Raw: lit, Pos: pos}
		line, col := pos.LineCol()
		switch tok {
		case token.INT:
			v, err := numberToInt(lit)
			if err != nil && errors.Is(err, strconv.ErrRange) {
				s.error(start, line, col, "integer literal value out of range")
			}
			tokVal.Int = v
		case token.FLOAT:
			v, err := numberToFloat(lit)
			if err != nil && errors.Is(err, strconv.ErrRange) {
				s.error(start, line, col, "float literal value out of range")
			}
			tokVal.Float = v
		}
		return tok
	}

	s.advance()
	return s.scanPunct(start, pos, tokVal)
}

// scanPunct handles every token that is not an identifier/keyword or a
// number literal: operators, punctuation and string literals. The current
// character (already advanced past) is recovered from s.src[start].
func (s *Scanner) scanPunct(start int, pos token.Pos, tokVal *token.Value) (tok token.Token) {
	line, col := pos.LineCol()
	cur := rune(s.src[start])
	switch cur {
	case '"', '\'':
		tok = token.STRING
		lit, val := s.shortString(cur)
		*tokVal = token.Value{Raw: lit, Pos: pos, String: val}

	case '+':
		tok = token.PLUS
	case '-':
		tok = token.MINUS
	case '*':
		tok = token.STAR
	case '/':
		tok = token.SLASH
	case '%':
		tok = token.PERCENT
	case '&':
		tok = token.AMP
		if s.advanceIf('&') {
			tok = token.AND_AND
		}
	case '|':
		tok = token.PIPE
		if s.advanceIf('|') {
			tok = token.OR_OR
		}
	case '=':
		tok = token.ASSIGN
		if s.advanceIf('=') {
			tok = token.EQL
		}
	case '!':
		tok = token.ILLEGAL
		if s.advanceIf('=') {
			tok = token.NEQ
		} else {
			s.errorf(start, line, col, "illegal character %#U, expected '!='", cur)
		}
	case '<':
		tok = token.LT
		if s.advanceIf('=') {
			tok = token.LE
		}
	case '>':
		tok = token.GT
		if s.advanceIf('=') {
			tok = token.GE
		}
	case ',':
		tok = token.COMMA
	case ';':
		tok = token.SEMI
	case '(':
		tok = token.LPAREN
	case ')':
		tok = token.RPAREN
	case '{':
		tok = token.LBRACE
	case '}':
		tok = token.RBRACE
	case '[':
		tok = token.LBRACK
	case ']':
		tok = token.RBRACK
	case ':':
		tok = token.COLON
	case -1:
		tok = token.EOF
	default:
		if cur == utf8.RuneError && s.invalidByte > 0 {
			cur = rune(s.invalidByte)
			s.invalidByte = 0
		}
		s.errorf(start, line, col, "illegal character %#U", cur)
		tok = token.ILLEGAL
	}

	if tok != token.STRING {
		*tokVal = token.Value{Raw: tok.String(), Pos: pos}
	}
	return tok
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		for isWhitespace(s.cur) {
			s.advance()
		}
		if s.cur == '/' && s.peek() == '/' {
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
			continue
		}
		if s.cur == '/' && s.peek() == '*' {
			startLine, startCol := s.line, s.col
			s.advance()
			s.advance()
			for {
				if s.cur == -1 {
					s.error(s.off, startLine, startCol, "comment not terminated")
					break
				}
				if s.cur == '*' && s.peek() == '/' {
					s.advance()
					s.advance()
					break
				}
				s.advance()
			}
			continue
		}
		break
	}
}

func isWhitespace(rn rune) bool {
	return rn == ' ' || rn == '\t' || rn == '\n' || rn == '\r'
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return '0' <= rn && rn <= '9' ||
		rn >= utf8.RuneSelf && unicode.IsDigit(rn)
}
