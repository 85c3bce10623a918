/*
Package keypad maps lowercase latin letters to the digits of a standard phone keypad.

	2 abc   3 def   4 ghi
	5 jkl   6 mno   7 pqrs
	8 tuv   9 wxyz

The table is fixed at init and never changes afterwards. Encode does no filtering:
callers tokenize their input first, anything outside a-z is rejected.
*/
package keypad

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCharacter is matched by every *InvalidCharError.
	ErrInvalidCharacter = errors.New("invalid character")
	// ErrInvalidDigit is matched by every *InvalidDigitError.
	ErrInvalidDigit = errors.New("invalid digit")
	// ErrEmptyQuery is returned by ValidateQuery for "".
	ErrEmptyQuery = errors.New("empty query")
)

// keys holds the letters of each key, starting at digit 2.
var keys = [...]string{"abc", "def", "ghi", "jkl", "mno", "pqrs", "tuv", "wxyz"}

// letterDigit is indexed by letter - 'a'.
var letterDigit [26]byte

func init() {
	for i, letters := range keys {
		d := byte('2' + i)
		for j := 0; j < len(letters); j++ {
			letterDigit[letters[j]-'a'] = d
		}
	}
}

// InvalidCharError reports a byte that has no key.
type InvalidCharError struct {
	Word string
	Pos  int
	Char byte
}

func (e *InvalidCharError) Error() string {
	return fmt.Sprintf("keypad: invalid character %q at %d in %q", e.Char, e.Pos, e.Word)
}

func (e *InvalidCharError) Is(target error) bool {
	return target == ErrInvalidCharacter
}

// InvalidDigitError reports a query digit outside 2-9.
type InvalidDigitError struct {
	Query string
	Pos   int
	Char  byte
}

func (e *InvalidDigitError) Error() string {
	return fmt.Sprintf("keypad: invalid digit %q at %d in %q", e.Char, e.Pos, e.Query)
}

func (e *InvalidDigitError) Is(target error) bool {
	return target == ErrInvalidDigit
}

// Digit returns the key digit for a single lowercase letter.
func Digit(c byte) (byte, bool) {
	if c < 'a' || c > 'z' {
		return 0, false
	}
	return letterDigit[c-'a'], true
}

// Encode returns the digit string for word, one digit per letter.
func Encode(word string) (string, error) {
	buf := make([]byte, len(word))
	for i := 0; i < len(word); i++ {
		d, ok := Digit(word[i])
		if !ok {
			return "", &InvalidCharError{Word: word, Pos: i, Char: word[i]}
		}
		buf[i] = d
	}
	return string(buf), nil
}

// Letters returns the letters printed on key d, or "" for keys without letters.
func Letters(d byte) string {
	if d < '2' || d > '9' {
		return ""
	}
	return keys[d-'2']
}

// ValidateQuery checks that q is a non-empty run of digits 2-9.
// Search itself never validates; 0 and 1 simply have no key.
func ValidateQuery(q string) error {
	if q == "" {
		return ErrEmptyQuery
	}
	for i := 0; i < len(q); i++ {
		if q[i] < '2' || q[i] > '9' {
			return &InvalidDigitError{Query: q, Pos: i, Char: q[i]}
		}
	}
	return nil
}
