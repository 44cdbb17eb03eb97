package mp4

import (
	"strings"

	"github.com/joshuapare/mp4kit/internal/format"
	"github.com/joshuapare/mp4kit/pkg/types"
)

// FtypBox is the file type box: the major brand and the brands the file is
// compatible with.
type FtypBox struct {
	basicBox
	MajorBrand       types.FourCC   `json:"major_brand"`
	MinorVersion     uint32         `json:"minor_version"`
	CompatibleBrands []types.FourCC `json:"compatible_brands"`
}

func (*FtypBox) Kind() Kind { return KindFtyp }

func (b *FtypBox) DataSize() uint64 { return 8 + 4*uint64(len(b.CompatibleBrands)) }

func (b *FtypBox) Summary() string {
	brands := make([]string, len(b.CompatibleBrands))
	for i, c := range b.CompatibleBrands {
		brands[i] = c.String()
	}
	return "major_brand=" + b.MajorBrand.String() +
		" minor_version=" + uitoa(uint64(b.MinorVersion)) +
		" compatible_brands=[" + strings.Join(brands, ", ") + "]"
}

// HasBrand reports whether c is the major brand or a compatible brand.
func (b *FtypBox) HasBrand(c types.FourCC) bool {
	if b.MajorBrand == c {
		return true
	}
	for _, x := range b.CompatibleBrands {
		if x == c {
			return true
		}
	}
	return false
}

// StypBox is the segment type box of fragmented streams. Its layout is that of ftyp.
type StypBox struct {
	FtypBox
}

func (*StypBox) Kind() Kind { return KindStyp }

var errBrandList = types.InvalidData("ftyp size too small or not aligned to 4 bytes")

// readBrands fills b from the payload. The brand count comes from the payload
// length, which must hold the two fixed fields plus whole brands.
func readBrands(r *format.Reader, b *FtypBox) error {
	left := r.Remaining()
	if left < 8 || left%4 != 0 {
		return errBrandList
	}
	b.MajorBrand = r.FourCC()
	b.MinorVersion = r.U32()
	n := (left - 8) / 4
	if err := r.CheckEntries(n, 4); err != nil {
		return err
	}
	b.CompatibleBrands = make([]types.FourCC, n)
	for i := range b.CompatibleBrands {
		b.CompatibleBrands[i] = r.FourCC()
	}
	return r.Err()
}

func decodeFtyp(r *format.Reader, _ Header) (Payload, error) {
	b := &FtypBox{}
	if err := readBrands(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeStyp(r *format.Reader, _ Header) (Payload, error) {
	b := &StypBox{}
	if err := readBrands(r, &b.FtypBox); err != nil {
		return nil, err
	}
	return b, nil
}
