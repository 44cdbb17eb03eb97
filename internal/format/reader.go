package format

import (
	"fmt"
	"io"

	"github.com/joshuapare/mp4kit/internal/buf"
	"github.com/joshuapare/mp4kit/pkg/types"
)

// Reader reads the payload of a single box. It never reads past the box: a
// request for more bytes than remain fails with ErrPayloadTruncated, while
// errors from the underlying stream are returned wrapped but otherwise intact.
//
// The first error is sticky. Typed reads after a failure return zero values,
// so decoders can read a run of fields and check Err once.
type Reader struct {
	r        io.Reader
	left     uint64
	consumed uint64
	err      error
	scratch  [8]byte

	// MaxEntries caps the entry count accepted by CheckEntries. Zero means no cap.
	MaxEntries uint64
}

// NewReader returns a Reader over the next n bytes of r.
func NewReader(r io.Reader, n uint64) *Reader {
	return &Reader{r: r, left: n}
}

// Remaining returns the number of payload bytes not yet consumed.
func (r *Reader) Remaining() uint64 { return r.left }

// Consumed returns the number of payload bytes read or skipped so far.
func (r *Reader) Consumed() uint64 { return r.consumed }

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

// Fail records err unless an earlier error is already recorded.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Read implements io.Reader bounded to the payload. It returns io.EOF once the
// payload is exhausted.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.left == 0 {
		return 0, io.EOF
	}
	if uint64(len(p)) > r.left {
		p = p[:r.left]
	}
	n, err := r.r.Read(p)
	r.left -= uint64(n)
	r.consumed += uint64(n)
	return n, err
}

// fill reads exactly n bytes into dst, recording truncation or stream errors.
func (r *Reader) fill(dst []byte) bool {
	if r.err != nil {
		return false
	}
	n := uint64(len(dst))
	if n > r.left {
		r.err = ErrPayloadTruncated
		return false
	}
	read, err := io.ReadFull(r.r, dst)
	r.left -= uint64(read)
	r.consumed += uint64(read)
	if err != nil {
		r.err = fmt.Errorf("box payload: %w", err)
		return false
	}
	return true
}

// U8 reads one byte.
func (r *Reader) U8() uint8 {
	if !r.fill(r.scratch[:1]) {
		return 0
	}
	return r.scratch[0]
}

// U16 reads a big-endian uint16.
func (r *Reader) U16() uint16 {
	if !r.fill(r.scratch[:2]) {
		return 0
	}
	return buf.U16BE(r.scratch[:2])
}

// U24 reads a big-endian 24-bit unsigned integer.
func (r *Reader) U24() uint32 {
	if !r.fill(r.scratch[:3]) {
		return 0
	}
	return buf.U24BE(r.scratch[:3])
}

// U32 reads a big-endian uint32.
func (r *Reader) U32() uint32 {
	if !r.fill(r.scratch[:4]) {
		return 0
	}
	return buf.U32BE(r.scratch[:4])
}

// U64 reads a big-endian uint64.
func (r *Reader) U64() uint64 {
	if !r.fill(r.scratch[:8]) {
		return 0
	}
	return buf.U64BE(r.scratch[:8])
}

// I16 reads a big-endian int16.
func (r *Reader) I16() int16 { return int16(r.U16()) }

// I32 reads a big-endian int32.
func (r *Reader) I32() int32 { return int32(r.U32()) }

// FourCC reads a four-character code.
func (r *Reader) FourCC() types.FourCC { return types.FourCC(r.U32()) }

// Bytes reads n bytes into a freshly allocated slice.
func (r *Reader) Bytes(n uint64) []byte {
	if r.err != nil {
		return nil
	}
	if n > r.left {
		r.err = ErrPayloadTruncated
		return nil
	}
	out := make([]byte, n)
	if !r.fill(out) {
		return nil
	}
	return out
}

// Skip discards n bytes.
func (r *Reader) Skip(n uint64) {
	if r.err != nil {
		return
	}
	if n > r.left {
		r.err = ErrPayloadTruncated
		return
	}
	skipped, err := io.CopyN(io.Discard, r.r, int64(n))
	r.left -= uint64(skipped)
	r.consumed += uint64(skipped)
	if err != nil {
		r.err = fmt.Errorf("box payload: %w", err)
	}
}

// FullHeader reads the version+flags prefix of a full box.
func (r *Reader) FullHeader() (version uint8, flags uint32) {
	if r.err != nil {
		return 0, 0
	}
	if r.left < HeaderExtSize {
		r.err = ErrPayloadTruncated
		return 0, 0
	}
	version, flags, err := ParseHeaderExt(r.r)
	if err != nil {
		r.err = err
		return 0, 0
	}
	r.left -= HeaderExtSize
	r.consumed += HeaderExtSize
	return version, flags
}

// CheckEntries validates that count entries of size bytes each fit in the
// remaining payload and within MaxEntries, before anything is allocated.
func (r *Reader) CheckEntries(count, size uint64) error {
	if r.err != nil {
		return r.err
	}
	if r.MaxEntries > 0 && count > r.MaxEntries {
		r.err = fmt.Errorf("%d entries (limit %d): %w", count, r.MaxEntries, ErrTooManyEntries)
		return r.err
	}
	if _, err := buf.CheckListBounds(r.left, 0, count, size); err != nil {
		r.err = fmt.Errorf("%s: %w", err.Error(), ErrTooManyEntries)
		return r.err
	}
	return nil
}
