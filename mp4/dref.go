package mp4

import (
	"fmt"

	"github.com/joshuapare/mp4kit/internal/format"
	"github.com/joshuapare/mp4kit/pkg/types"
)

// DrefBox is the data reference table. Its entries follow as child boxes.
type DrefBox struct {
	FullBox
	EntryCount uint32 `json:"entry_count"`
}

func (*DrefBox) Kind() Kind       { return KindDref }
func (*DrefBox) DataSize() uint64 { return 4 }

func (b *DrefBox) Summary() string { return fmt.Sprintf("entry_count=%d", b.EntryCount) }

func decodeDref(r *format.Reader, _ Header) (Payload, error) {
	b := &DrefBox{FullBox: readFullBox(r)}
	b.EntryCount = r.U32()
	return b, r.Err()
}

// URLSelfContained marks a data entry whose media is in the same file.
const URLSelfContained = 0x000001

var errURLSize = types.InvalidData("url size too small")

// URLBox is a data entry naming where a track's media lives.
type URLBox struct {
	FullBox
	Location string `json:"location,omitempty"`

	locationLen uint64
}

func (*URLBox) Kind() Kind { return KindURL }

// SelfContained reports whether the media is in the same file, in which case
// the box carries no location.
func (b *URLBox) SelfContained() bool { return b.Flags&URLSelfContained != 0 }

func (b *URLBox) DataSize() uint64 {
	if b.SelfContained() {
		return 0
	}
	return b.locationLen + 1
}

func (b *URLBox) Summary() string {
	if b.SelfContained() {
		return "location=local to file"
	}
	return fmt.Sprintf("location=%q", b.Location)
}

func decodeURL(r *format.Reader, _ Header) (Payload, error) {
	b := &URLBox{FullBox: readFullBox(r)}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if b.SelfContained() {
		return b, nil
	}
	if r.Remaining() == 0 {
		return nil, errURLSize
	}
	b.locationLen = r.Remaining() - 1
	b.Location = decodeName(r.Bytes(b.locationLen))
	return b, r.Err()
}
