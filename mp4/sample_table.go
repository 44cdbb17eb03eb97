package mp4

import (
	"fmt"

	"github.com/joshuapare/mp4kit/internal/buf"
	"github.com/joshuapare/mp4kit/internal/format"
)

// readCount reads a table's entry count and checks that entries of size bytes
// fit in what is left of the box.
func readCount(r *format.Reader, size uint64) (uint32, error) {
	n := r.U32()
	if err := r.CheckEntries(uint64(n), size); err != nil {
		return 0, err
	}
	return n, nil
}

// SttsEntry is one run of samples sharing a duration.
type SttsEntry struct {
	SampleCount uint32 `json:"sample_count"`
	SampleDelta uint32 `json:"sample_delta"`
}

// SttsBox is the decoding time-to-sample table.
type SttsBox struct {
	FullBox
	Entries []SttsEntry `json:"entries"`
}

func (*SttsBox) Kind() Kind         { return KindStts }
func (b *SttsBox) DataSize() uint64 { return 4 + 8*uint64(len(b.Entries)) }

func (b *SttsBox) Summary() string { return fmt.Sprintf("entries=%d", len(b.Entries)) }

// SampleCount returns the number of samples the table covers.
func (b *SttsBox) SampleCount() uint64 {
	var n uint64
	for _, e := range b.Entries {
		n += uint64(e.SampleCount)
	}
	return n
}

func decodeStts(r *format.Reader, _ Header) (Payload, error) {
	b := &SttsBox{FullBox: readFullBox(r)}
	n, err := readCount(r, 8)
	if err != nil {
		return nil, err
	}
	b.Entries = make([]SttsEntry, n)
	for i := range b.Entries {
		b.Entries[i] = SttsEntry{SampleCount: r.U32(), SampleDelta: r.U32()}
	}
	return b, r.Err()
}

// CttsEntry is one run of samples sharing a composition offset.
type CttsEntry struct {
	SampleCount  uint32 `json:"sample_count"`
	SampleOffset int32  `json:"sample_offset"`
}

// CttsBox is the composition time-to-sample table.
type CttsBox struct {
	FullBox
	Entries []CttsEntry `json:"entries"`
}

func (*CttsBox) Kind() Kind         { return KindCtts }
func (b *CttsBox) DataSize() uint64 { return 4 + 8*uint64(len(b.Entries)) }

func (b *CttsBox) Summary() string { return fmt.Sprintf("entries=%d", len(b.Entries)) }

func decodeCtts(r *format.Reader, _ Header) (Payload, error) {
	b := &CttsBox{FullBox: readFullBox(r)}
	n, err := readCount(r, 8)
	if err != nil {
		return nil, err
	}
	b.Entries = make([]CttsEntry, n)
	for i := range b.Entries {
		b.Entries[i] = CttsEntry{SampleCount: r.U32(), SampleOffset: r.I32()}
	}
	return b, r.Err()
}

// StssBox lists the sync samples (key frames), numbered from 1.
type StssBox struct {
	FullBox
	Entries []uint32 `json:"entries"`
}

func (*StssBox) Kind() Kind         { return KindStss }
func (b *StssBox) DataSize() uint64 { return 4 + 4*uint64(len(b.Entries)) }

func (b *StssBox) Summary() string { return fmt.Sprintf("entries=%d", len(b.Entries)) }

func decodeStss(r *format.Reader, _ Header) (Payload, error) {
	b := &StssBox{FullBox: readFullBox(r)}
	n, err := readCount(r, 4)
	if err != nil {
		return nil, err
	}
	b.Entries = make([]uint32, n)
	for i := range b.Entries {
		b.Entries[i] = r.U32()
	}
	return b, r.Err()
}

// StscEntry is one run of chunks sharing a samples-per-chunk count.
// FirstSample is derived: the 1-based number of the first sample in FirstChunk.
type StscEntry struct {
	FirstChunk             uint32 `json:"first_chunk"`
	SamplesPerChunk        uint32 `json:"samples_per_chunk"`
	SampleDescriptionIndex uint32 `json:"sample_description_index"`
	FirstSample            uint32 `json:"first_sample"`
}

// StscBox is the sample-to-chunk table.
type StscBox struct {
	FullBox
	Entries []StscEntry `json:"entries"`
}

func (*StscBox) Kind() Kind         { return KindStsc }
func (b *StscBox) DataSize() uint64 { return 4 + 12*uint64(len(b.Entries)) }

func (b *StscBox) Summary() string { return fmt.Sprintf("entries=%d", len(b.Entries)) }

func decodeStsc(r *format.Reader, _ Header) (Payload, error) {
	b := &StscBox{FullBox: readFullBox(r)}
	n, err := readCount(r, 12)
	if err != nil {
		return nil, err
	}
	b.Entries = make([]StscEntry, n)
	for i := range b.Entries {
		b.Entries[i] = StscEntry{
			FirstChunk:             r.U32(),
			SamplesPerChunk:        r.U32(),
			SampleDescriptionIndex: r.U32(),
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if err := fillFirstSamples(b.Entries); err != nil {
		return nil, err
	}
	return b, nil
}

// fillFirstSamples numbers the first sample of each run:
// first[i+1] = (chunk[i+1] - chunk[i]) * perChunk[i] + first[i], starting at 1.
func fillFirstSamples(entries []StscEntry) error {
	sample := uint32(1)
	for i := range entries {
		entries[i].FirstSample = sample
		if i+1 == len(entries) {
			break
		}
		chunks, ok := buf.SubU32(entries[i+1].FirstChunk, entries[i].FirstChunk)
		if !ok {
			return ErrSampleOverflow
		}
		samples, ok := buf.MulU32(chunks, entries[i].SamplesPerChunk)
		if !ok {
			return ErrSampleOverflow
		}
		if sample, ok = buf.AddU32(samples, sample); !ok {
			return ErrSampleOverflow
		}
	}
	return nil
}

// StszBox is the sample size table. When SampleSize is non-zero every sample
// has that size and EntrySizes is empty.
type StszBox struct {
	FullBox
	SampleSize  uint32   `json:"sample_size"`
	SampleCount uint32   `json:"sample_count"`
	EntrySizes  []uint32 `json:"entry_sizes,omitempty"`
}

func (*StszBox) Kind() Kind         { return KindStsz }
func (b *StszBox) DataSize() uint64 { return 8 + 4*uint64(len(b.EntrySizes)) }

func (b *StszBox) Summary() string {
	return fmt.Sprintf("sample_size=%d sample_count=%d", b.SampleSize, b.SampleCount)
}

// Size returns the size of the 0-based sample i.
func (b *StszBox) Size(i int) (uint32, bool) {
	if b.SampleSize != 0 {
		return b.SampleSize, i >= 0 && uint64(i) < uint64(b.SampleCount)
	}
	if i < 0 || i >= len(b.EntrySizes) {
		return 0, false
	}
	return b.EntrySizes[i], true
}

func decodeStsz(r *format.Reader, _ Header) (Payload, error) {
	b := &StszBox{FullBox: readFullBox(r)}
	b.SampleSize = r.U32()
	if b.SampleSize != 0 {
		b.SampleCount = r.U32()
		return b, r.Err()
	}
	n, err := readCount(r, 4)
	if err != nil {
		return nil, err
	}
	b.SampleCount = n
	b.EntrySizes = make([]uint32, n)
	for i := range b.EntrySizes {
		b.EntrySizes[i] = r.U32()
	}
	return b, r.Err()
}

// StcoBox is the 32-bit chunk offset table.
type StcoBox struct {
	FullBox
	Entries []uint32 `json:"entries"`
}

func (*StcoBox) Kind() Kind         { return KindStco }
func (b *StcoBox) DataSize() uint64 { return 4 + 4*uint64(len(b.Entries)) }

func (b *StcoBox) Summary() string { return fmt.Sprintf("entries=%d", len(b.Entries)) }

func decodeStco(r *format.Reader, _ Header) (Payload, error) {
	b := &StcoBox{FullBox: readFullBox(r)}
	n, err := readCount(r, 4)
	if err != nil {
		return nil, err
	}
	b.Entries = make([]uint32, n)
	for i := range b.Entries {
		b.Entries[i] = r.U32()
	}
	return b, r.Err()
}

// Co64Box is the 64-bit chunk offset table.
type Co64Box struct {
	FullBox
	Entries []uint64 `json:"entries"`
}

func (*Co64Box) Kind() Kind         { return KindCo64 }
func (b *Co64Box) DataSize() uint64 { return 4 + 8*uint64(len(b.Entries)) }

func (b *Co64Box) Summary() string { return fmt.Sprintf("entries=%d", len(b.Entries)) }

func decodeCo64(r *format.Reader, _ Header) (Payload, error) {
	b := &Co64Box{FullBox: readFullBox(r)}
	n, err := readCount(r, 8)
	if err != nil {
		return nil, err
	}
	b.Entries = make([]uint64, n)
	for i := range b.Entries {
		b.Entries[i] = r.U64()
	}
	return b, r.Err()
}
