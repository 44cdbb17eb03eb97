package mp4

import (
	"strconv"

	"github.com/joshuapare/mp4kit/internal/format"
)

// Containers carry no fields of their own; everything after the header is children.

type container struct{ basicBox }

func (container) DataSize() uint64 { return 0 }
func (container) Summary() string  { return "" }

// MoovBox holds the movie metadata.
type MoovBox struct{ container }

// TrakBox holds one track.
type TrakBox struct{ container }

// EdtsBox holds the edit list of a track.
type EdtsBox struct{ container }

// MdiaBox holds the media information of a track.
type MdiaBox struct{ container }

// MinfBox holds the media-type specific information of a track.
type MinfBox struct{ container }

// DinfBox holds the data reference of a track.
type DinfBox struct{ container }

// StblBox holds the sample table of a track.
type StblBox struct{ container }

// UdtaBox holds user data.
type UdtaBox struct{ container }

// MvexBox signals a fragmented movie and holds its defaults.
type MvexBox struct{ container }

// MoofBox holds one movie fragment.
type MoofBox struct{ container }

// TrafBox holds one track fragment.
type TrafBox struct{ container }

func (*MoovBox) Kind() Kind { return KindMoov }
func (*TrakBox) Kind() Kind { return KindTrak }
func (*EdtsBox) Kind() Kind { return KindEdts }
func (*MdiaBox) Kind() Kind { return KindMdia }
func (*MinfBox) Kind() Kind { return KindMinf }
func (*DinfBox) Kind() Kind { return KindDinf }
func (*StblBox) Kind() Kind { return KindStbl }
func (*UdtaBox) Kind() Kind { return KindUdta }
func (*MvexBox) Kind() Kind { return KindMvex }
func (*MoofBox) Kind() Kind { return KindMoof }
func (*TrafBox) Kind() Kind { return KindTraf }

func decodeContainer[T any, PT interface {
	*T
	Payload
}](_ *format.Reader, _ Header) (Payload, error) {
	return PT(new(T)), nil
}

func uitoa(v uint64) string { return strconv.FormatUint(v, 10) }
