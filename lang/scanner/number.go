package scanner

import (
	"strconv"

	"github.com/duals-lang/dualc/lang/token"
)

// number scans an INT or FLOAT literal: a run of decimal digits, optionally
// followed by a '.' and a further run of decimal digits. There is no
// support for hex/octal/binary prefixes, digit separators or exponents;
// spec.md's literal grammar is plain decimal integer and fixed-point float
// syntax only.
func (s *Scanner) number() (tok token.Token, lit string) {
	start := s.off
	tok = token.INT

	for isDecimal(s.cur) {
		s.advance()
	}
	if s.cur == '.' && isDecimal(rune(s.peek())) {
		tok = token.FLOAT
		s.advance()
		for isDecimal(s.cur) {
			s.advance()
		}
	}

	return tok, string(s.src[start:s.off])
}

func isDecimal(rn rune) bool {
	return '0' <= rn && rn <= '9'
}

func isHexadecimal(rn rune) bool {
	return isDecimal(rn) ||
		'a' <= rn && rn <= 'f' ||
		'A' <= rn && rn <= 'F'
}

func numberToInt(lit string) (int64, error) {
	return strconv.ParseInt(lit, 10, 64)
}

func numberToFloat(lit string) (float64, error) {
	return strconv.ParseFloat(lit, 64)
}
