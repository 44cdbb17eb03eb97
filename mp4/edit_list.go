package mp4

import (
	"fmt"

	"github.com/joshuapare/mp4kit/internal/format"
)

// ElstEntry maps a span of the presentation timeline onto the media timeline.
// MediaTime -1 denotes an empty edit.
type ElstEntry struct {
	SegmentDuration   uint64 `json:"segment_duration"`
	MediaTime         int64  `json:"media_time"`
	MediaRateInteger  int16  `json:"media_rate_integer"`
	MediaRateFraction int16  `json:"media_rate_fraction"`
}

// ElstBox is the edit list.
type ElstBox struct {
	FullBox
	Entries []ElstEntry `json:"entries"`
}

func (*ElstBox) Kind() Kind { return KindElst }

func (b *ElstBox) DataSize() uint64 {
	return 4 + elstEntrySize(b.Version)*uint64(len(b.Entries))
}

func (b *ElstBox) Summary() string { return fmt.Sprintf("entries=%d", len(b.Entries)) }

func elstEntrySize(version uint8) uint64 {
	if version == 1 {
		return 20
	}
	return 12
}

func decodeElst(r *format.Reader, _ Header) (Payload, error) {
	b := &ElstBox{FullBox: readFullBox(r)}
	if err := checkVersion(b.FullBox, r); err != nil {
		return nil, err
	}
	n, err := readCount(r, elstEntrySize(b.Version))
	if err != nil {
		return nil, err
	}
	b.Entries = make([]ElstEntry, n)
	for i := range b.Entries {
		e := &b.Entries[i]
		if b.Version == 1 {
			e.SegmentDuration = r.U64()
			e.MediaTime = int64(r.U64())
		} else {
			e.SegmentDuration = uint64(r.U32())
			e.MediaTime = int64(r.I32())
		}
		e.MediaRateInteger = r.I16()
		e.MediaRateFraction = r.I16()
	}
	return b, r.Err()
}
