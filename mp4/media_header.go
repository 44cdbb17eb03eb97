package mp4

import (
	"fmt"

	"github.com/joshuapare/mp4kit/internal/format"
)

// VmhdBox is the video media header.
type VmhdBox struct {
	FullBox
	GraphicsMode uint16    `json:"graphics_mode"`
	OpColor      [3]uint16 `json:"opcolor"`
}

func (*VmhdBox) Kind() Kind       { return KindVmhd }
func (*VmhdBox) DataSize() uint64 { return 8 }

func (b *VmhdBox) Summary() string {
	return fmt.Sprintf("graphics_mode=%d opcolor=%d,%d,%d",
		b.GraphicsMode, b.OpColor[0], b.OpColor[1], b.OpColor[2])
}

func decodeVmhd(r *format.Reader, _ Header) (Payload, error) {
	b := &VmhdBox{FullBox: readFullBox(r)}
	b.GraphicsMode = r.U16()
	for i := range b.OpColor {
		b.OpColor[i] = r.U16()
	}
	return b, r.Err()
}

// SmhdBox is the sound media header.
type SmhdBox struct {
	FullBox
	Balance SignedFixed8 `json:"balance"`
}

func (*SmhdBox) Kind() Kind       { return KindSmhd }
func (*SmhdBox) DataSize() uint64 { return 4 }

func (b *SmhdBox) Summary() string { return "balance=" + b.Balance.String() }

func decodeSmhd(r *format.Reader, _ Header) (Payload, error) {
	b := &SmhdBox{FullBox: readFullBox(r)}
	b.Balance = SignedFixed8(r.I16())
	r.Skip(2) // reserved
	return b, r.Err()
}
