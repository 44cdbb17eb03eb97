package types

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// FourCC is a four-character code stored as its big-endian uint32 value.
// Box type tags, brands and handler types all use it.
type FourCC uint32

// NewFourCC packs the first four bytes of s. Shorter strings are padded with spaces.
func NewFourCC(s string) FourCC {
	var b [4]byte
	for i := range b {
		if i < len(s) {
			b[i] = s[i]
		} else {
			b[i] = ' '
		}
	}
	return FourCC(binary.BigEndian.Uint32(b[:]))
}

// ParseFourCC parses s as a four-character code. It accepts exactly four
// bytes, or a 0x-prefixed hexadecimal value for codes that are not printable.
func ParseFourCC(s string) (FourCC, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		var v uint32
		if _, err := fmt.Sscanf(s[2:], "%x", &v); err != nil {
			return 0, fmt.Errorf("fourcc %q: %w", s, err)
		}
		return FourCC(v), nil
	}
	if len(s) != 4 {
		return 0, fmt.Errorf("fourcc %q: need exactly 4 bytes, got %d", s, len(s))
	}
	return NewFourCC(s), nil
}

// Bytes returns the code as four bytes in stream order.
func (f FourCC) Bytes() [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(f))
	return b
}

// String renders printable codes as text and anything else as hex.
func (f FourCC) String() string {
	b := f.Bytes()
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08X", uint32(f))
		}
	}
	return string(b[:])
}

// MarshalText implements encoding.TextMarshaler.
func (f FourCC) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FourCC) UnmarshalText(text []byte) error {
	v, err := ParseFourCC(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
