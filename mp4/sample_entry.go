package mp4

import (
	"encoding/hex"
	"fmt"

	"github.com/joshuapare/mp4kit/internal/format"
)

// StsdBox is the sample description table. Its entries (avc1, mp4a, ...)
// follow as child boxes.
type StsdBox struct {
	FullBox
	EntryCount uint32 `json:"entry_count"`
}

func (*StsdBox) Kind() Kind       { return KindStsd }
func (*StsdBox) DataSize() uint64 { return 4 }

func (b *StsdBox) Summary() string { return fmt.Sprintf("entry_count=%d", b.EntryCount) }

func decodeStsd(r *format.Reader, _ Header) (Payload, error) {
	b := &StsdBox{FullBox: readFullBox(r)}
	b.EntryCount = r.U32()
	return b, r.Err()
}

// Avc1Box is the H.264 visual sample entry. Its configuration (avcC) and
// optional extensions (pasp, btrt, ...) follow as child boxes.
type Avc1Box struct {
	basicBox
	DataReferenceIndex uint16  `json:"data_reference_index"`
	Width              uint16  `json:"width"`
	Height             uint16  `json:"height"`
	HorizResolution    Fixed16 `json:"horizresolution"`
	VertResolution     Fixed16 `json:"vertresolution"`
	FrameCount         uint16  `json:"frame_count"`
	CompressorName     string  `json:"compressorname,omitempty"`
	Depth              uint16  `json:"depth"`
}

func (*Avc1Box) Kind() Kind       { return KindAvc1 }
func (*Avc1Box) DataSize() uint64 { return 78 }

func (b *Avc1Box) Summary() string {
	return fmt.Sprintf("data_reference_index=%d width=%d height=%d horizresolution=%s vertresolution=%s frame_count=%d depth=%d",
		b.DataReferenceIndex, b.Width, b.Height, b.HorizResolution, b.VertResolution, b.FrameCount, b.Depth)
}

func decodeAvc1(r *format.Reader, _ Header) (Payload, error) {
	b := &Avc1Box{}
	r.Skip(6) // reserved
	b.DataReferenceIndex = r.U16()
	r.Skip(16) // pre_defined and reserved
	b.Width = r.U16()
	b.Height = r.U16()
	b.HorizResolution = Fixed16(r.U32())
	b.VertResolution = Fixed16(r.U32())
	r.Skip(4) // reserved
	b.FrameCount = r.U16()
	b.CompressorName = pascalString(r.Bytes(32))
	b.Depth = r.U16()
	r.Skip(2) // pre_defined
	return b, r.Err()
}

// pascalString decodes a fixed-size field holding a length byte and text.
func pascalString(field []byte) string {
	if len(field) == 0 {
		return ""
	}
	n := int(field[0])
	if n > len(field)-1 {
		n = len(field) - 1
	}
	return decodeName(field[1 : 1+n])
}

// AvcCBox is the AVC decoder configuration record.
type AvcCBox struct {
	basicBox
	ConfigurationVersion uint8    `json:"configuration_version"`
	ProfileIndication    uint8    `json:"profile_indication"`
	ProfileCompatibility uint8    `json:"profile_compatibility"`
	LevelIndication      uint8    `json:"level_indication"`
	LengthSizeMinusOne   uint8    `json:"length_size_minus_one"`
	SPS                  [][]byte `json:"sps"`
	PPS                  [][]byte `json:"pps"`

	// High carries the chroma and bit depth extension present for the
	// High profiles (100, 110, 122, 144) when the record includes it.
	High *AvcHighProfile `json:"high,omitempty"`
}

// AvcHighProfile is the trailing extension of a High-profile avcC record.
type AvcHighProfile struct {
	ChromaFormat         uint8    `json:"chroma_format"`
	BitDepthLumaMinus8   uint8    `json:"bit_depth_luma_minus8"`
	BitDepthChromaMinus8 uint8    `json:"bit_depth_chroma_minus8"`
	SPSExt               [][]byte `json:"sps_ext"`
}

func (*AvcCBox) Kind() Kind { return KindAvcC }

func (b *AvcCBox) DataSize() uint64 {
	n := 7 + nalSize(b.SPS) + nalSize(b.PPS)
	if b.High != nil {
		n += 4 + nalSize(b.High.SPSExt)
	}
	return n
}

func (b *AvcCBox) Summary() string {
	return fmt.Sprintf("configuration_version=%d profile_indication=%d profile_compatibility=%d level_indication=%d length_size=%d sps=%s pps=%s",
		b.ConfigurationVersion, b.ProfileIndication, b.ProfileCompatibility, b.LevelIndication,
		b.LengthSizeMinusOne+1, hexList(b.SPS), hexList(b.PPS))
}

func nalSize(units [][]byte) uint64 {
	var n uint64
	for _, u := range units {
		n += 2 + uint64(len(u))
	}
	return n
}

func hexList(units [][]byte) string {
	s := "["
	for i, u := range units {
		if i > 0 {
			s += ", "
		}
		s += hex.EncodeToString(u)
	}
	return s + "]"
}

// readNALs reads count NAL units, each prefixed by a 16-bit length.
func readNALs(r *format.Reader, count int) [][]byte {
	units := make([][]byte, 0, count)
	for i := 0; i < count && r.Err() == nil; i++ {
		n := r.U16()
		units = append(units, r.Bytes(uint64(n)))
	}
	return units
}

func isHighProfile(p uint8) bool {
	switch p {
	case 100, 110, 122, 144:
		return true
	}
	return false
}

func decodeAvcC(r *format.Reader, _ Header) (Payload, error) {
	b := &AvcCBox{}
	b.ConfigurationVersion = r.U8()
	b.ProfileIndication = r.U8()
	b.ProfileCompatibility = r.U8()
	b.LevelIndication = r.U8()
	b.LengthSizeMinusOne = r.U8() & 0x03
	b.SPS = readNALs(r, int(r.U8()&0x1f))
	b.PPS = readNALs(r, int(r.U8()))
	if err := r.Err(); err != nil {
		return nil, err
	}
	if isHighProfile(b.ProfileIndication) && r.Remaining() >= 4 {
		h := &AvcHighProfile{}
		h.ChromaFormat = r.U8() & 0x03
		h.BitDepthLumaMinus8 = r.U8() & 0x07
		h.BitDepthChromaMinus8 = r.U8() & 0x07
		h.SPSExt = readNALs(r, int(r.U8()))
		b.High = h
	}
	return b, r.Err()
}

// PaspBox is the pixel aspect ratio.
type PaspBox struct {
	basicBox
	HSpacing uint32 `json:"h_spacing"`
	VSpacing uint32 `json:"v_spacing"`
}

func (*PaspBox) Kind() Kind       { return KindPasp }
func (*PaspBox) DataSize() uint64 { return 8 }

func (b *PaspBox) Summary() string {
	return fmt.Sprintf("h_spacing=%d v_spacing=%d", b.HSpacing, b.VSpacing)
}

func decodePasp(r *format.Reader, _ Header) (Payload, error) {
	b := &PaspBox{}
	b.HSpacing = r.U32()
	b.VSpacing = r.U32()
	return b, r.Err()
}

// Mp4aBox is the MPEG-4 audio sample entry. QuickTime files may use sound
// description version 1 or 2, which extend the entry; the elementary stream
// descriptor (esds) follows as a child box.
type Mp4aBox struct {
	basicBox
	DataReferenceIndex uint16  `json:"data_reference_index"`
	SoundVersion       uint16  `json:"sound_version,omitempty"`
	ChannelCount       uint16  `json:"channel_count"`
	SampleSize         uint16  `json:"sample_size"`
	SampleRate         Fixed16 `json:"sample_rate"`
}

// Sizes of the QuickTime sound description extensions.
const (
	soundV1Ext = 16
	soundV2Ext = 36
)

func (*Mp4aBox) Kind() Kind { return KindMp4a }

func (b *Mp4aBox) DataSize() uint64 {
	switch b.SoundVersion {
	case 1:
		return 28 + soundV1Ext
	case 2:
		return 28 + soundV2Ext
	}
	return 28
}

func (b *Mp4aBox) Summary() string {
	return fmt.Sprintf("data_reference_index=%d channel_count=%d sample_size=%d sample_rate=%d",
		b.DataReferenceIndex, b.ChannelCount, b.SampleSize, b.SampleRate.Int())
}

func decodeMp4a(r *format.Reader, _ Header) (Payload, error) {
	b := &Mp4aBox{}
	r.Skip(6) // reserved
	b.DataReferenceIndex = r.U16()
	b.SoundVersion = r.U16()
	r.Skip(6) // revision level, vendor
	b.ChannelCount = r.U16()
	b.SampleSize = r.U16()
	r.Skip(4) // pre_defined, reserved
	b.SampleRate = Fixed16(r.U32())
	switch b.SoundVersion {
	case 1:
		r.Skip(soundV1Ext)
	case 2:
		r.Skip(soundV2Ext)
	default:
		// Versions above 2 are not defined; treat the entry as version 0.
		b.SoundVersion = 0
	}
	return b, r.Err()
}
