package mp4

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/joshuapare/mp4kit/internal/format"
)

// epoch1904 is the origin of the creation and modification timestamps.
var epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// Time converts a timestamp counted in seconds since 1904-01-01 UTC.
func Time(secs uint64) time.Time {
	return epoch1904.Add(time.Duration(secs) * time.Second)
}

// readTimes reads the creation/modification/timescale/duration run shared by
// mvhd and mdhd, whose widths depend on the box version.
func readTimes(r *format.Reader, version uint8) (creation, modification uint64, timescale uint32, duration uint64) {
	if version == 1 {
		creation = r.U64()
		modification = r.U64()
		timescale = r.U32()
		duration = r.U64()
		return
	}
	creation = uint64(r.U32())
	modification = uint64(r.U32())
	timescale = r.U32()
	duration = uint64(r.U32())
	return
}

// timesSize is the byte length of the run read by readTimes.
func timesSize(version uint8) uint64 {
	if version == 1 {
		return 28
	}
	return 16
}

func checkVersion(fb FullBox, r *format.Reader) error {
	if err := r.Err(); err != nil {
		return err
	}
	if fb.Version > 1 {
		return fmt.Errorf("version %d: %w", fb.Version, ErrBadVersion)
	}
	return nil
}

// MvhdBox is the movie header.
type MvhdBox struct {
	FullBox
	CreationTime     uint64  `json:"creation_time"`
	ModificationTime uint64  `json:"modification_time"`
	Timescale        uint32  `json:"timescale"`
	Duration         uint64  `json:"duration"`
	Rate             Fixed16 `json:"rate"`
	Volume           Fixed8  `json:"volume"`
	Matrix           Matrix  `json:"matrix"`
	NextTrackID      uint32  `json:"next_track_id"`
}

func (*MvhdBox) Kind() Kind { return KindMvhd }

func (b *MvhdBox) DataSize() uint64 { return timesSize(b.Version) + 80 }

func (b *MvhdBox) Summary() string {
	return fmt.Sprintf("creation_time=%d timescale=%d duration=%d rate=%s volume=%s next_track_id=%d",
		b.CreationTime, b.Timescale, b.Duration, b.Rate, b.Volume, b.NextTrackID)
}

// DurationTime converts Duration to wall time using Timescale.
func (b *MvhdBox) DurationTime() time.Duration {
	return scaledDuration(b.Duration, b.Timescale)
}

func decodeMvhd(r *format.Reader, _ Header) (Payload, error) {
	b := &MvhdBox{FullBox: readFullBox(r)}
	if err := checkVersion(b.FullBox, r); err != nil {
		return nil, err
	}
	b.CreationTime, b.ModificationTime, b.Timescale, b.Duration = readTimes(r, b.Version)
	b.Rate = Fixed16(r.U32())
	b.Volume = Fixed8(r.U16())
	r.Skip(2 + 8) // reserved
	b.Matrix = readMatrix(r)
	r.Skip(24) // pre_defined
	b.NextTrackID = r.U32()
	return b, r.Err()
}

// TkhdBox is the track header.
type TkhdBox struct {
	FullBox
	CreationTime     uint64  `json:"creation_time"`
	ModificationTime uint64  `json:"modification_time"`
	TrackID          uint32  `json:"track_id"`
	Duration         uint64  `json:"duration"`
	Layer            int16   `json:"layer"`
	AlternateGroup   int16   `json:"alternate_group"`
	Volume           Fixed8  `json:"volume"`
	Matrix           Matrix  `json:"matrix"`
	Width            Fixed16 `json:"width"`
	Height           Fixed16 `json:"height"`
}

// Track header flags.
const (
	TrackEnabled   = 0x000001
	TrackInMovie   = 0x000002
	TrackInPreview = 0x000004
)

func (*TkhdBox) Kind() Kind { return KindTkhd }

func (b *TkhdBox) DataSize() uint64 {
	if b.Version == 1 {
		return 32 + 60
	}
	return 20 + 60
}

func (b *TkhdBox) Summary() string {
	return fmt.Sprintf("track_id=%d duration=%d layer=%d alternate_group=%d volume=%s width=%s height=%s",
		b.TrackID, b.Duration, b.Layer, b.AlternateGroup, b.Volume, b.Width, b.Height)
}

// Enabled reports whether the track is enabled.
func (b *TkhdBox) Enabled() bool { return b.Flags&TrackEnabled != 0 }

func decodeTkhd(r *format.Reader, _ Header) (Payload, error) {
	b := &TkhdBox{FullBox: readFullBox(r)}
	if err := checkVersion(b.FullBox, r); err != nil {
		return nil, err
	}
	if b.Version == 1 {
		b.CreationTime = r.U64()
		b.ModificationTime = r.U64()
		b.TrackID = r.U32()
		r.Skip(4) // reserved
		b.Duration = r.U64()
	} else {
		b.CreationTime = uint64(r.U32())
		b.ModificationTime = uint64(r.U32())
		b.TrackID = r.U32()
		r.Skip(4) // reserved
		b.Duration = uint64(r.U32())
	}
	r.Skip(8) // reserved
	b.Layer = r.I16()
	b.AlternateGroup = r.I16()
	b.Volume = Fixed8(r.U16())
	r.Skip(2) // reserved
	b.Matrix = readMatrix(r)
	b.Width = Fixed16(r.U32())
	b.Height = Fixed16(r.U32())
	return b, r.Err()
}

// MdhdBox is the media header.
type MdhdBox struct {
	FullBox
	CreationTime     uint64 `json:"creation_time"`
	ModificationTime uint64 `json:"modification_time"`
	Timescale        uint32 `json:"timescale"`
	Duration         uint64 `json:"duration"`
	// Language is the ISO-639-2/T code packed into the box, e.g. "eng" or "und".
	Language string `json:"language"`
}

func (*MdhdBox) Kind() Kind { return KindMdhd }

func (b *MdhdBox) DataSize() uint64 { return timesSize(b.Version) + 4 }

func (b *MdhdBox) Summary() string {
	return fmt.Sprintf("creation_time=%d timescale=%d duration=%d language=%s",
		b.CreationTime, b.Timescale, b.Duration, b.Language)
}

// DurationTime converts Duration to wall time using Timescale.
func (b *MdhdBox) DurationTime() time.Duration {
	return scaledDuration(b.Duration, b.Timescale)
}

// LanguageBase maps Language onto a BCP 47 base language. Codes that are not
// valid ISO 639 codes fail with the language package's error.
func (b *MdhdBox) LanguageBase() (language.Base, error) {
	return language.ParseBase(b.Language)
}

// unpackLanguage expands three 5-bit letters stored as offsets from 0x60.
func unpackLanguage(v uint16) string {
	return string([]byte{
		byte(v>>10&0x1f) + 0x60,
		byte(v>>5&0x1f) + 0x60,
		byte(v&0x1f) + 0x60,
	})
}

func decodeMdhd(r *format.Reader, _ Header) (Payload, error) {
	b := &MdhdBox{FullBox: readFullBox(r)}
	if err := checkVersion(b.FullBox, r); err != nil {
		return nil, err
	}
	b.CreationTime, b.ModificationTime, b.Timescale, b.Duration = readTimes(r, b.Version)
	b.Language = unpackLanguage(r.U16())
	r.Skip(2) // pre_defined
	return b, r.Err()
}

func scaledDuration(d uint64, timescale uint32) time.Duration {
	if timescale == 0 {
		return 0
	}
	secs := d / uint64(timescale)
	rem := d % uint64(timescale)
	return time.Duration(secs)*time.Second + time.Duration(rem)*time.Second/time.Duration(timescale)
}
