package mp4

import (
	"encoding/json"
	"fmt"

	"github.com/joshuapare/mp4kit/internal/format"
)

// Fixed16 is an unsigned 16.16 fixed-point number.
type Fixed16 uint32

// Int returns the integer part.
func (f Fixed16) Int() uint16 { return uint16(f >> 16) }

// Float64 returns the value as a float.
func (f Fixed16) Float64() float64 { return float64(f) / (1 << 16) }

func (f Fixed16) String() string { return fmt.Sprintf("%g", f.Float64()) }

// MarshalJSON renders the value as a number.
func (f Fixed16) MarshalJSON() ([]byte, error) { return json.Marshal(f.Float64()) }

// Fixed8 is an unsigned 8.8 fixed-point number.
type Fixed8 uint16

// Int returns the integer part.
func (f Fixed8) Int() uint8 { return uint8(f >> 8) }

// Float64 returns the value as a float.
func (f Fixed8) Float64() float64 { return float64(f) / (1 << 8) }

func (f Fixed8) String() string { return fmt.Sprintf("%g", f.Float64()) }

// MarshalJSON renders the value as a number.
func (f Fixed8) MarshalJSON() ([]byte, error) { return json.Marshal(f.Float64()) }

// SignedFixed8 is a signed 8.8 fixed-point number.
type SignedFixed8 int16

// Float64 returns the value as a float.
func (f SignedFixed8) Float64() float64 { return float64(f) / (1 << 8) }

func (f SignedFixed8) String() string { return fmt.Sprintf("%g", f.Float64()) }

// MarshalJSON renders the value as a number.
func (f SignedFixed8) MarshalJSON() ([]byte, error) { return json.Marshal(f.Float64()) }

// Matrix is the 3x3 transformation matrix of mvhd and tkhd, in stream order
// {a, b, u, c, d, v, x, y, w}. All entries are 16.16 except u, v and w, which are 2.30.
type Matrix [9]int32

// IdentityMatrix is the unity transform.
var IdentityMatrix = Matrix{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000}

// IsIdentity reports whether m is the unity transform.
func (m Matrix) IsIdentity() bool { return m == IdentityMatrix }

func (m Matrix) String() string {
	if m.IsIdentity() {
		return "identity"
	}
	return fmt.Sprintf("[%d %d %d %d %d %d %d %d %d]", m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

func readMatrix(r *format.Reader) Matrix {
	var m Matrix
	for i := range m {
		m[i] = r.I32()
	}
	return m
}
