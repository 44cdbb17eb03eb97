package mp4

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/mp4kit/internal/format"
	"github.com/joshuapare/mp4kit/pkg/types"
)

// Common handler types.
var (
	HandlerVideo = types.NewFourCC("vide")
	HandlerSound = types.NewFourCC("soun")
	HandlerHint  = types.NewFourCC("hint")
	HandlerMeta  = types.NewFourCC("meta")
	HandlerText  = types.NewFourCC("text")
	HandlerSubt  = types.NewFourCC("subt")
)

var errHdlrSize = types.InvalidData("hdlr size too small")

// HdlrBox declares the media type of a track.
type HdlrBox struct {
	FullBox
	HandlerType types.FourCC `json:"handler_type"`
	Name        string       `json:"name"`

	nameLen uint64 // raw name bytes before the terminator
}

func (*HdlrBox) Kind() Kind { return KindHdlr }

// DataSize counts pre_defined, handler_type, reserved and the NUL-terminated name.
func (b *HdlrBox) DataSize() uint64 { return 20 + b.nameLen + 1 }

func (b *HdlrBox) Summary() string {
	return fmt.Sprintf("handler_type=%s name=%q", b.HandlerType, b.Name)
}

func decodeHdlr(r *format.Reader, _ Header) (Payload, error) {
	b := &HdlrBox{FullBox: readFullBox(r)}
	r.Skip(4) // pre_defined
	b.HandlerType = r.FourCC()
	r.Skip(12) // reserved
	if err := r.Err(); err != nil {
		return nil, err
	}
	if r.Remaining() == 0 {
		return nil, errHdlrSize
	}
	b.nameLen = r.Remaining() - 1
	b.Name = decodeName(r.Bytes(b.nameLen))
	return b, r.Err()
}

// decodeName turns a stored name into a string. Names are cut at the first
// NUL; names that are not valid UTF-8 come from QuickTime files and are
// decoded as Mac Roman.
func decodeName(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	s, err := charmap.Macintosh.NewDecoder().Bytes(raw)
	if err != nil {
		return string(bytes.ToValidUTF8(raw, []byte("�")))
	}
	return string(s)
}
