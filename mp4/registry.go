package mp4

import "github.com/joshuapare/mp4kit/pkg/types"

// Kind enumerates the box kinds with a payload decoder. KindUnknown covers
// every other type code.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindFtyp
	KindStyp
	KindMoov
	KindMvhd
	KindTrak
	KindTkhd
	KindEdts
	KindElst
	KindMdia
	KindMdhd
	KindHdlr
	KindMinf
	KindVmhd
	KindSmhd
	KindDinf
	KindDref
	KindURL
	KindStbl
	KindStsd
	KindAvc1
	KindAvcC
	KindPasp
	KindMp4a
	KindStts
	KindCtts
	KindStss
	KindStsc
	KindStsz
	KindStco
	KindCo64
	KindUdta
	KindMvex
	KindMehd
	KindTrex
	KindMoof
	KindMfhd
	KindTraf
	KindTfhd
	KindTfdt
	KindTrun

	kindCount
)

type registration struct {
	code   types.FourCC
	decode decodeFunc
}

// registry is the single source of truth for type code <-> kind <-> decoder.
// Decoders must not call Kind.String, Kind.Code or KindOf: those read this
// table and would form an initialization cycle.
var registry = [kindCount]registration{
	KindFtyp: {code: fourcc("ftyp"), decode: decodeFtyp},
	KindStyp: {code: fourcc("styp"), decode: decodeStyp},
	KindMoov: {code: fourcc("moov"), decode: decodeContainer[MoovBox]},
	KindMvhd: {code: fourcc("mvhd"), decode: decodeMvhd},
	KindTrak: {code: fourcc("trak"), decode: decodeContainer[TrakBox]},
	KindTkhd: {code: fourcc("tkhd"), decode: decodeTkhd},
	KindEdts: {code: fourcc("edts"), decode: decodeContainer[EdtsBox]},
	KindElst: {code: fourcc("elst"), decode: decodeElst},
	KindMdia: {code: fourcc("mdia"), decode: decodeContainer[MdiaBox]},
	KindMdhd: {code: fourcc("mdhd"), decode: decodeMdhd},
	KindHdlr: {code: fourcc("hdlr"), decode: decodeHdlr},
	KindMinf: {code: fourcc("minf"), decode: decodeContainer[MinfBox]},
	KindVmhd: {code: fourcc("vmhd"), decode: decodeVmhd},
	KindSmhd: {code: fourcc("smhd"), decode: decodeSmhd},
	KindDinf: {code: fourcc("dinf"), decode: decodeContainer[DinfBox]},
	KindDref: {code: fourcc("dref"), decode: decodeDref},
	KindURL:  {code: fourcc("url "), decode: decodeURL},
	KindStbl: {code: fourcc("stbl"), decode: decodeContainer[StblBox]},
	KindStsd: {code: fourcc("stsd"), decode: decodeStsd},
	KindAvc1: {code: fourcc("avc1"), decode: decodeAvc1},
	KindAvcC: {code: fourcc("avcC"), decode: decodeAvcC},
	KindPasp: {code: fourcc("pasp"), decode: decodePasp},
	KindMp4a: {code: fourcc("mp4a"), decode: decodeMp4a},
	KindStts: {code: fourcc("stts"), decode: decodeStts},
	KindCtts: {code: fourcc("ctts"), decode: decodeCtts},
	KindStss: {code: fourcc("stss"), decode: decodeStss},
	KindStsc: {code: fourcc("stsc"), decode: decodeStsc},
	KindStsz: {code: fourcc("stsz"), decode: decodeStsz},
	KindStco: {code: fourcc("stco"), decode: decodeStco},
	KindCo64: {code: fourcc("co64"), decode: decodeCo64},
	KindUdta: {code: fourcc("udta"), decode: decodeContainer[UdtaBox]},
	KindMvex: {code: fourcc("mvex"), decode: decodeContainer[MvexBox]},
	KindMehd: {code: fourcc("mehd"), decode: decodeMehd},
	KindTrex: {code: fourcc("trex"), decode: decodeTrex},
	KindMoof: {code: fourcc("moof"), decode: decodeContainer[MoofBox]},
	KindMfhd: {code: fourcc("mfhd"), decode: decodeMfhd},
	KindTraf: {code: fourcc("traf"), decode: decodeContainer[TrafBox]},
	KindTfhd: {code: fourcc("tfhd"), decode: decodeTfhd},
	KindTfdt: {code: fourcc("tfdt"), decode: decodeTfdt},
	KindTrun: {code: fourcc("trun"), decode: decodeTrun},
}

var kindByCode = buildKindIndex()

func buildKindIndex() map[types.FourCC]Kind {
	m := make(map[types.FourCC]Kind, kindCount)
	for k := KindUnknown + 1; k < kindCount; k++ {
		m[registry[k].code] = k
	}
	return m
}

func fourcc(s string) types.FourCC { return types.NewFourCC(s) }

// KindOf returns the kind registered for code, or KindUnknown.
func KindOf(code types.FourCC) Kind {
	return kindByCode[code]
}

// Code returns the type code of k. KindUnknown and out-of-range kinds return 0.
func (k Kind) Code() types.FourCC {
	if k >= kindCount {
		return 0
	}
	return registry[k].code
}

// String returns the four-character code of k, or "unknown".
func (k Kind) String() string {
	if k == KindUnknown || k >= kindCount {
		return "unknown"
	}
	return registry[k].code.String()
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindUnknown + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// BoxType pairs a kind with the raw type code read from the stream. For known
// kinds Code equals Kind.Code(); for KindUnknown it is whatever was on disk.
type BoxType struct {
	Kind Kind
	Code types.FourCC
}

// TypeOf classifies a raw type code.
func TypeOf(code types.FourCC) BoxType {
	return BoxType{Kind: KindOf(code), Code: code}
}

// Known reports whether the type has a registered decoder.
func (t BoxType) Known() bool { return t.Kind != KindUnknown }

func (t BoxType) String() string { return t.Code.String() }

func (t BoxType) decoder() decodeFunc {
	if t.Kind == KindUnknown || t.Kind >= kindCount {
		return nil
	}
	return registry[t.Kind].decode
}
