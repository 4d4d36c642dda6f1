// Package cmdline produces the kernel command line handed to the loaded
// image as its load options.
package cmdline

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/costinm/zebrafish-stub/pkg/uefi"
)

const (
	// MaxUnits is the command line buffer capacity in CHAR16 units.
	MaxUnits = 16384

	// MaxContentUnits leaves room for the terminator.
	MaxContentUnits = MaxUnits - 2

	// DefaultPath is the optional command line file at the volume root.
	DefaultPath = `\cmdline.txt`

	// DefaultFallback is used whenever DefaultPath can not be used.
	DefaultFallback = `initrd=\zebrafish-initrd`
)

// CommandLine is a NUL terminated UTF-16LE string of at most
// MaxContentUnits units.
type CommandLine struct {
	// content units followed by a CHAR16 NUL
	b        []byte
	fallback bool
}

// New encodes s, which must be valid UTF-8. Longer strings are cut at the
// last code point that fits MaxContentUnits.
func New(s string) (CommandLine, error) {
	if !utf8.ValidString(s) {
		return CommandLine{}, fmt.Errorf("command line: %w", uefi.ErrInvalidUTF8)
	}

	s = truncateUnits(s, MaxContentUnits)

	b, err := uefi.EncodeStringZ(s)
	if err != nil {
		return CommandLine{}, fmt.Errorf("command line: %w", err)
	}

	return CommandLine{b: b}, nil
}

// Fallback returns the command line for s, flagged as a fallback.
func Fallback(s string) (CommandLine, error) {
	cl, err := New(s)
	cl.fallback = true
	return cl, err
}

// truncateUnits returns the longest prefix of s encoding to at most limit
// UTF-16 units.
func truncateUnits(s string, limit int) string {
	n := 0
	for i, r := range s {
		w := utf16.RuneLen(r)
		if n+w > limit {
			return s[:i]
		}
		n += w
	}
	return s
}

// String decodes the content.
func (c CommandLine) String() string {
	s, _ := uefi.DecodeString(c.b)
	return s
}

// Len returns the number of content units, terminator excluded.
func (c CommandLine) Len() int {
	if len(c.b) < 2 {
		return 0
	}
	return len(c.b)/2 - 1
}

// ByteLen returns the content size in bytes, terminator excluded. This is
// the LoadOptionsSize handed to the loaded image.
func (c CommandLine) ByteLen() int {
	return 2 * c.Len()
}

// Units returns the content followed by the NUL terminator.
func (c CommandLine) Units() []uint16 {
	u := make([]uint16, len(c.b)/2)
	for i := range u {
		u[i] = binary.LittleEndian.Uint16(c.b[2*i:])
	}
	return u
}

// LoadOptions returns the UTF-16LE buffer, terminator included. The slice
// is the command line storage itself: it stays valid as long as c is
// reachable and must not be modified.
func (c CommandLine) LoadOptions() []byte {
	return c.b
}

// IsFallback reports whether the command line is the fallback string.
func (c CommandLine) IsFallback() bool {
	return c.fallback
}
