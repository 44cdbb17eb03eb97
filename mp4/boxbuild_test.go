package mp4

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// Helpers for synthesising box streams in tests.

func u8(v uint8) []byte { return []byte{v} }

func u16(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }

func u32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

func u64(v uint64) []byte { return binary.BigEndian.AppendUint64(nil, v) }

func i32(v int32) []byte { return u32(uint32(v)) }

func zeros(n int) []byte { return make([]byte, n) }

func cat(parts ...[]byte) []byte { return bytes.Join(parts, nil) }

// box builds a box with a compact 8-byte header around the concatenated parts.
func box(code string, parts ...[]byte) []byte {
	body := cat(parts...)
	return cat(u32(uint32(8+len(body))), []byte(code), body)
}

// largeBox builds a box using the 16-byte largesize header.
func largeBox(code string, parts ...[]byte) []byte {
	body := cat(parts...)
	return cat(u32(1), []byte(code), u64(uint64(16+len(body))), body)
}

// fullBox builds a box whose payload starts with version and flags.
func fullBox(code string, version uint8, flags uint32, parts ...[]byte) []byte {
	vf := u32(uint32(version)<<24 | flags&0xffffff)
	return box(code, append([][]byte{vf}, parts...)...)
}

// rawBox builds a header declaring size followed by body, whatever the body length.
func rawBox(size uint32, code string, body ...[]byte) []byte {
	return cat(u32(size), []byte(code), cat(body...))
}

func decode(t *testing.T, data []byte) Forest {
	t.Helper()
	forest, err := DecodeTree(bytes.NewReader(data), uint64(len(data)), Options{})
	require.NoError(t, err)
	return forest
}

func decodeErr(data []byte) error {
	_, err := DecodeTree(bytes.NewReader(data), uint64(len(data)), Options{})
	return err
}

// kinds flattens a forest into its kinds in pre-order.
func kinds(f Forest) []Kind {
	var out []Kind
	_ = f.Walk(func(t *Tree, _ int) error {
		out = append(out, t.Kind())
		return nil
	})
	return out
}

// mvhdV0 builds a version 0 movie header.
func mvhdV0(timescale, duration uint32) []byte {
	return fullBox("mvhd", 0, 0,
		u32(1), u32(2), u32(timescale), u32(duration),
		u32(0x00010000), u16(0x0100), zeros(10),
		matrixBytes(IdentityMatrix), zeros(24), u32(3))
}

func matrixBytes(m Matrix) []byte {
	var out []byte
	for _, v := range m {
		out = append(out, i32(v)...)
	}
	return out
}

// tkhdV0 builds a version 0 track header.
func tkhdV0(trackID uint32, width, height uint16) []byte {
	return fullBox("tkhd", 0, TrackEnabled|TrackInMovie,
		u32(10), u32(20), u32(trackID), zeros(4), u32(1000),
		zeros(8), u16(0), u16(0), u16(0), zeros(2),
		matrixBytes(IdentityMatrix), u32(uint32(width)<<16), u32(uint32(height)<<16))
}

// ftypScenario is a 20-byte ftyp box: major isom, minor 0x200, brands [isom].
var ftypScenario = []byte{
	0x00, 0x00, 0x00, 0x14, 0x66, 0x74, 0x79, 0x70,
	0x69, 0x73, 0x6F, 0x6D, 0x00, 0x00, 0x02, 0x00,
	0x69, 0x73, 0x6F, 0x6D,
}

func bytesReader(data []byte) *bytes.Reader { return bytes.NewReader(data) }
