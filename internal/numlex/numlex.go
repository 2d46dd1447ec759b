// Package numlex validates Verilog numeric literals: unsized and sized
// decimals, based values with x/z/? digits and underscores, and reals.
package numlex

import (
	"errors"
	"fmt"

	"vlxref/internal/token"
)

// Kind is the radix class of a literal.
type Kind uint8

const (
	Unknown Kind = iota
	Real
	Decimal
	Octal
	Binary
	Hex
)

func (k Kind) String() string {
	switch k {
	case Real:
		return "Real"
	case Decimal:
		return "Decimal"
	case Octal:
		return "Octal"
	case Binary:
		return "Binary"
	case Hex:
		return "Hex"
	}
	return "?"
}

var (
	ErrExpectingDigit = errors.New("expecting digit")
	ErrBaseFormat     = errors.New("invalid base format")
	ErrTrailing       = errors.New("invalid number")
)

// Number is the decomposition of a literal. Value keeps the digits without
// underscores; reals are normalised to "<int>.<frac>e[-]<exp>".
type Number struct {
	Kind          Kind
	Size          string
	Value         string
	Signed        bool
	HasSize       bool
	HasBaseFormat bool
	HasValue      bool
}

// TokenKind classifies the literal the way a lexer would report it.
func (n Number) TokenKind() token.Kind {
	switch {
	case n.Kind == Unknown:
		return token.Invalid
	case n.Kind == Real:
		return token.Realnum
	case n.HasSize && n.HasBaseFormat && n.HasValue:
		return token.SizedBased
	case n.HasBaseFormat && n.HasValue:
		return token.BasedInt
	case n.HasBaseFormat:
		return token.BaseFormat
	case n.HasValue:
		return token.BaseValue
	}
	return token.Natural
}

// Validate parses s with full validation: the literal must be complete and
// nothing may follow it.
func Validate(s string) error {
	_, err := Parse(s, true)
	return err
}

// Parse decomposes s. Without full validation a lone base format is
// accepted and parsing stops at the first character that does not belong
// to the literal, like a lexer would.
func Parse(s string, full bool) (Number, error) {
	l := lexer{s: s}
	if err := l.parse(); err != nil {
		return l.n, err
	}
	if full {
		if l.n.HasBaseFormat && !l.n.HasValue {
			return l.n, ErrExpectingDigit
		}
		l.skipWhiteSpace()
		if l.off < len(l.s) {
			return l.n, ErrTrailing
		}
	}
	return l.n, nil
}

type lexer struct {
	s   string
	off int
	n   Number
}

func (l *lexer) peek() byte {
	if l.off < len(l.s) {
		return l.s[l.off]
	}
	return 0
}

func (l *lexer) parse() error {
	if l.peek() == '\'' {
		if err := l.baseFormat(); err != nil {
			return err
		}
		l.skipWhiteSpace()
		l.basedValue()
		return nil
	}
	if err := l.unsignedNumber(); err != nil {
		return err
	}
	if ch := l.peek(); ch == '.' || ch == 'e' || ch == 'E' {
		return l.real()
	}
	save := l.off
	l.skipWhiteSpace()
	if l.peek() != '\'' {
		l.off = save
		l.n.Kind = Decimal
		return nil
	}
	// the first number was the size
	l.n.Size, l.n.Value = l.n.Value, ""
	l.n.HasSize = true
	if l.n.Size[0] == '0' {
		return fmt.Errorf("invalid size '%s'", l.n.Size)
	}
	if err := l.baseFormat(); err != nil {
		return err
	}
	l.skipWhiteSpace()
	l.basedValue()
	return nil
}

// '[s|S](d|b|o|h) case insensitive
func (l *lexer) baseFormat() error {
	l.off++
	if ch := l.peek(); ch == 's' || ch == 'S' {
		l.off++
		l.n.Signed = true
	}
	switch l.peek() {
	case 'd', 'D':
		l.n.Kind = Decimal
	case 'b', 'B':
		l.n.Kind = Binary
	case 'o', 'O':
		l.n.Kind = Octal
	case 'h', 'H':
		l.n.Kind = Hex
	default:
		return ErrBaseFormat
	}
	l.off++
	l.n.HasBaseFormat = true
	return nil
}

func (l *lexer) skipWhiteSpace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			l.off++
		default:
			return
		}
	}
}

func (l *lexer) basedValue() {
	if !l.extendedDigit(l.peek()) {
		return
	}
	val := make([]byte, 0, len(l.s)-l.off)
	for {
		ch := l.peek()
		switch {
		case ch == '_' && len(val) > 0:
			l.off++
		case l.extendedDigit(ch):
			l.off++
			val = append(val, ch)
		default:
			l.n.Value = string(val)
			l.n.HasValue = len(val) > 0
			return
		}
	}
}

func (l *lexer) extendedDigit(ch byte) bool {
	switch ch {
	case '0', '1', 'x', 'X', 'z', 'Z', '?':
		return true
	case '2', '3', '4', '5', '6', '7':
		return l.n.Kind == Octal || l.n.Kind == Hex || l.n.Kind == Decimal
	case '8', '9':
		return l.n.Kind == Hex || l.n.Kind == Decimal
	case 'a', 'A', 'b', 'B', 'c', 'C', 'd', 'D', 'e', 'E', 'f', 'F':
		return l.n.Kind == Hex
	}
	return false
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

// unsignedNumber appends decimal digits (underscores allowed after the
// first digit) to Value.
func (l *lexer) unsignedNumber() error {
	if !isDigit(l.peek()) {
		return ErrExpectingDigit
	}
	start := len(l.n.Value)
	buf := []byte(l.n.Value)
	for {
		ch := l.peek()
		switch {
		case ch == '_' && len(buf) > start:
			l.off++
		case isDigit(ch):
			l.off++
			buf = append(buf, ch)
		default:
			l.n.Value = string(buf)
			return nil
		}
	}
}

func (l *lexer) real() error {
	l.n.Kind = Real
	if l.peek() == '.' {
		l.n.Value += "."
		l.off++
		if err := l.unsignedNumber(); err != nil {
			return err
		}
		if ch := l.peek(); ch != 'e' && ch != 'E' {
			return nil
		}
	}
	// exponent
	l.n.Value += "e"
	l.off++
	switch l.peek() {
	case '-':
		l.n.Value += "-"
		l.off++
	case '+':
		l.off++
	}
	return l.unsignedNumber()
}
