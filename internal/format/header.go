package format

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/joshuapare/mp4kit/internal/buf"
	"github.com/joshuapare/mp4kit/pkg/types"
)

// Header is a decoded box header. Size is the declared size including the
// header itself; Offset is the absolute stream position of the first header byte.
type Header struct {
	Code     types.FourCC
	Size     uint64
	Offset   uint64
	Extended bool // header used the 16-byte largesize form
}

// Len returns the number of bytes the header occupied in the stream.
func (h Header) Len() uint64 {
	if h.Extended {
		return LargeHeaderSize
	}
	return HeaderSize
}

// End returns the absolute position one past the last byte of the box.
func (h Header) End() uint64 {
	return h.Offset + h.Size
}

// ParseHeader reads a box header from r, which must be positioned at offset.
//
// A 32-bit size of 1 escapes to a following 64-bit largesize. A largesize of 0
// is returned verbatim; callers decide what a zero size means. Largesize values
// 1..15 cannot hold their own header and fail with ErrLargeSizeTooSmall.
func ParseHeader(r io.Reader, offset uint64) (Header, error) {
	var b [HeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Header{}, fmt.Errorf("box header at %d: %w", offset, err)
	}
	size := buf.U32BE(b[0:])
	code := types.FourCC(buf.U32BE(b[4:]))

	if size != LargeSizeEscape {
		return Header{Code: code, Size: uint64(size), Offset: offset}, nil
	}

	if _, err := io.ReadFull(r, b[:]); err != nil {
		return Header{}, fmt.Errorf("box largesize at %d: %w", offset, err)
	}
	large := buf.U64BE(b[:])
	if large > 0 && large < LargeHeaderSize {
		return Header{}, fmt.Errorf("box %s at %d: %w", code, offset, ErrLargeSizeTooSmall)
	}
	return Header{Code: code, Size: large, Offset: offset, Extended: true}, nil
}

// ParseHeaderExt reads the version+flags prefix of a full box.
func ParseHeaderExt(r io.Reader) (version uint8, flags uint32, err error) {
	var b [HeaderExtSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, 0, fmt.Errorf("full box header: %w", err)
	}
	return b[0], buf.U24BE(b[1:]), nil
}

// WriteHeader writes a box header for a box of the given total size. The
// 16-byte largesize form is used only when size does not fit in 32 bits.
// It returns the number of header bytes written.
func WriteHeader(w io.Writer, code types.FourCC, size uint64) (int, error) {
	if size > math.MaxUint32 {
		var b [LargeHeaderSize]byte
		binary.BigEndian.PutUint32(b[0:], LargeSizeEscape)
		binary.BigEndian.PutUint32(b[4:], uint32(code))
		binary.BigEndian.PutUint64(b[8:], size)
		return w.Write(b[:])
	}
	var b [HeaderSize]byte
	binary.BigEndian.PutUint32(b[0:], uint32(size))
	binary.BigEndian.PutUint32(b[4:], uint32(code))
	return w.Write(b[:])
}

// WriteHeaderExt writes the version+flags prefix of a full box. Flags are
// truncated to 24 bits.
func WriteHeaderExt(w io.Writer, version uint8, flags uint32) (int, error) {
	var b [HeaderExtSize]byte
	b[0] = version
	buf.PutU24BE(b[1:], flags&FlagsMask)
	return w.Write(b[:])
}
