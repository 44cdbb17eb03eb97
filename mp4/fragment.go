package mp4

import (
	"fmt"
	"math/bits"

	"github.com/joshuapare/mp4kit/internal/format"
)

// MehdBox is the movie extends header: the duration of the whole fragmented movie.
type MehdBox struct {
	FullBox
	FragmentDuration uint64 `json:"fragment_duration"`
}

func (*MehdBox) Kind() Kind { return KindMehd }

func (b *MehdBox) DataSize() uint64 {
	if b.Version == 1 {
		return 8
	}
	return 4
}

func (b *MehdBox) Summary() string { return fmt.Sprintf("fragment_duration=%d", b.FragmentDuration) }

func decodeMehd(r *format.Reader, _ Header) (Payload, error) {
	b := &MehdBox{FullBox: readFullBox(r)}
	if err := checkVersion(b.FullBox, r); err != nil {
		return nil, err
	}
	if b.Version == 1 {
		b.FragmentDuration = r.U64()
	} else {
		b.FragmentDuration = uint64(r.U32())
	}
	return b, r.Err()
}

// TrexBox holds the per-track defaults used by fragments.
type TrexBox struct {
	FullBox
	TrackID                       uint32 `json:"track_id"`
	DefaultSampleDescriptionIndex uint32 `json:"default_sample_description_index"`
	DefaultSampleDuration         uint32 `json:"default_sample_duration"`
	DefaultSampleSize             uint32 `json:"default_sample_size"`
	DefaultSampleFlags            uint32 `json:"default_sample_flags"`
}

func (*TrexBox) Kind() Kind       { return KindTrex }
func (*TrexBox) DataSize() uint64 { return 20 }

func (b *TrexBox) Summary() string {
	return fmt.Sprintf("track_id=%d default_sample_description_index=%d default_sample_duration=%d default_sample_size=%d default_sample_flags=0x%08x",
		b.TrackID, b.DefaultSampleDescriptionIndex, b.DefaultSampleDuration, b.DefaultSampleSize, b.DefaultSampleFlags)
}

func decodeTrex(r *format.Reader, _ Header) (Payload, error) {
	b := &TrexBox{FullBox: readFullBox(r)}
	b.TrackID = r.U32()
	b.DefaultSampleDescriptionIndex = r.U32()
	b.DefaultSampleDuration = r.U32()
	b.DefaultSampleSize = r.U32()
	b.DefaultSampleFlags = r.U32()
	return b, r.Err()
}

// MfhdBox is the movie fragment header.
type MfhdBox struct {
	FullBox
	SequenceNumber uint32 `json:"sequence_number"`
}

func (*MfhdBox) Kind() Kind       { return KindMfhd }
func (*MfhdBox) DataSize() uint64 { return 4 }

func (b *MfhdBox) Summary() string { return fmt.Sprintf("sequence_number=%d", b.SequenceNumber) }

func decodeMfhd(r *format.Reader, _ Header) (Payload, error) {
	b := &MfhdBox{FullBox: readFullBox(r)}
	b.SequenceNumber = r.U32()
	return b, r.Err()
}

// tfhd flags.
const (
	TfhdBaseDataOffset         = 0x000001
	TfhdSampleDescriptionIndex = 0x000002
	TfhdDefaultSampleDuration  = 0x000008
	TfhdDefaultSampleSize      = 0x000010
	TfhdDefaultSampleFlags     = 0x000020
	TfhdDurationIsEmpty        = 0x010000
	TfhdDefaultBaseIsMoof      = 0x020000
)

// TfhdBox is the track fragment header. Optional fields are present only when
// the matching flag is set; absent fields are zero.
type TfhdBox struct {
	FullBox
	TrackID                uint32 `json:"track_id"`
	BaseDataOffset         uint64 `json:"base_data_offset,omitempty"`
	SampleDescriptionIndex uint32 `json:"sample_description_index,omitempty"`
	DefaultSampleDuration  uint32 `json:"default_sample_duration,omitempty"`
	DefaultSampleSize      uint32 `json:"default_sample_size,omitempty"`
	DefaultSampleFlags     uint32 `json:"default_sample_flags,omitempty"`
}

func (*TfhdBox) Kind() Kind { return KindTfhd }

func (b *TfhdBox) DataSize() uint64 {
	n := uint64(4)
	if b.Flags&TfhdBaseDataOffset != 0 {
		n += 8
	}
	for _, f := range []uint32{TfhdSampleDescriptionIndex, TfhdDefaultSampleDuration, TfhdDefaultSampleSize, TfhdDefaultSampleFlags} {
		if b.Flags&f != 0 {
			n += 4
		}
	}
	return n
}

func (b *TfhdBox) Summary() string {
	return fmt.Sprintf("track_id=%d flags=0x%06x base_data_offset=%d default_sample_duration=%d default_sample_size=%d",
		b.TrackID, b.Flags, b.BaseDataOffset, b.DefaultSampleDuration, b.DefaultSampleSize)
}

func decodeTfhd(r *format.Reader, _ Header) (Payload, error) {
	b := &TfhdBox{FullBox: readFullBox(r)}
	b.TrackID = r.U32()
	if b.Flags&TfhdBaseDataOffset != 0 {
		b.BaseDataOffset = r.U64()
	}
	if b.Flags&TfhdSampleDescriptionIndex != 0 {
		b.SampleDescriptionIndex = r.U32()
	}
	if b.Flags&TfhdDefaultSampleDuration != 0 {
		b.DefaultSampleDuration = r.U32()
	}
	if b.Flags&TfhdDefaultSampleSize != 0 {
		b.DefaultSampleSize = r.U32()
	}
	if b.Flags&TfhdDefaultSampleFlags != 0 {
		b.DefaultSampleFlags = r.U32()
	}
	return b, r.Err()
}

// TfdtBox is the track fragment decode time.
type TfdtBox struct {
	FullBox
	BaseMediaDecodeTime uint64 `json:"base_media_decode_time"`
}

func (*TfdtBox) Kind() Kind { return KindTfdt }

func (b *TfdtBox) DataSize() uint64 {
	if b.Version == 1 {
		return 8
	}
	return 4
}

func (b *TfdtBox) Summary() string {
	return fmt.Sprintf("base_media_decode_time=%d", b.BaseMediaDecodeTime)
}

func decodeTfdt(r *format.Reader, _ Header) (Payload, error) {
	b := &TfdtBox{FullBox: readFullBox(r)}
	if err := checkVersion(b.FullBox, r); err != nil {
		return nil, err
	}
	if b.Version == 1 {
		b.BaseMediaDecodeTime = r.U64()
	} else {
		b.BaseMediaDecodeTime = uint64(r.U32())
	}
	return b, r.Err()
}

// trun flags.
const (
	TrunDataOffset                  = 0x000001
	TrunFirstSampleFlags            = 0x000004
	TrunSampleDuration              = 0x000100
	TrunSampleSize                  = 0x000200
	TrunSampleFlags                 = 0x000400
	TrunSampleCompositionTimeOffset = 0x000800
	trunSampleFieldMask             = 0x000f00
)

// TrunSample holds the per-sample fields of a track run. Fields whose flag is
// clear in the run are zero.
type TrunSample struct {
	Duration              uint32 `json:"duration,omitempty"`
	Size                  uint32 `json:"size,omitempty"`
	Flags                 uint32 `json:"flags,omitempty"`
	CompositionTimeOffset int32  `json:"composition_time_offset,omitempty"`
}

// TrunBox is a track run. Samples is empty when the run carries no per-sample fields.
type TrunBox struct {
	FullBox
	SampleCount      uint32       `json:"sample_count"`
	DataOffset       int32        `json:"data_offset,omitempty"`
	FirstSampleFlags uint32       `json:"first_sample_flags,omitempty"`
	Samples          []TrunSample `json:"samples,omitempty"`
}

func (*TrunBox) Kind() Kind { return KindTrun }

// sampleFieldSize is the byte length of one per-sample record.
func (b *TrunBox) sampleFieldSize() uint64 {
	return 4 * uint64(bits.OnesCount32(b.Flags&trunSampleFieldMask))
}

func (b *TrunBox) DataSize() uint64 {
	n := uint64(4)
	if b.Flags&TrunDataOffset != 0 {
		n += 4
	}
	if b.Flags&TrunFirstSampleFlags != 0 {
		n += 4
	}
	return n + b.sampleFieldSize()*uint64(len(b.Samples))
}

func (b *TrunBox) Summary() string {
	return fmt.Sprintf("sample_count=%d flags=0x%06x data_offset=%d", b.SampleCount, b.Flags, b.DataOffset)
}

func decodeTrun(r *format.Reader, _ Header) (Payload, error) {
	b := &TrunBox{FullBox: readFullBox(r)}
	b.SampleCount = r.U32()
	if b.Flags&TrunDataOffset != 0 {
		b.DataOffset = r.I32()
	}
	if b.Flags&TrunFirstSampleFlags != 0 {
		b.FirstSampleFlags = r.U32()
	}
	size := b.sampleFieldSize()
	if size == 0 {
		return b, r.Err()
	}
	if err := r.CheckEntries(uint64(b.SampleCount), size); err != nil {
		return nil, err
	}
	b.Samples = make([]TrunSample, b.SampleCount)
	for i := range b.Samples {
		s := &b.Samples[i]
		if b.Flags&TrunSampleDuration != 0 {
			s.Duration = r.U32()
		}
		if b.Flags&TrunSampleSize != 0 {
			s.Size = r.U32()
		}
		if b.Flags&TrunSampleFlags != 0 {
			s.Flags = r.U32()
		}
		if b.Flags&TrunSampleCompositionTimeOffset != 0 {
			// Version 0 stores the offset unsigned.
			s.CompositionTimeOffset = r.I32()
		}
	}
	return b, r.Err()
}
