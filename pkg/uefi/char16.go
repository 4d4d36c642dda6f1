package uefi

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var ErrInvalidUTF8 = errors.New("invalid UTF-8 string")

// utf16le is the CHAR16 encoding used by firmware strings: little endian,
// no byte order mark.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeString converts s to UTF-16LE bytes without a terminator.
func EncodeString(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidUTF8
	}
	b, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", s, err)
	}
	return b, nil
}

// EncodeStringZ is EncodeString with a trailing CHAR16 NUL.
func EncodeStringZ(s string) ([]byte, error) {
	b, err := EncodeString(s)
	if err != nil {
		return nil, err
	}
	return append(b, 0, 0), nil
}

// DecodeString converts UTF-16LE bytes to a Go string, stopping at the
// first CHAR16 NUL if any.
func DecodeString(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("odd CHAR16 byte length %d", len(b))
	}
	for i := 0; i < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			b = b[:i]
			break
		}
	}
	s, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(s), nil
}
