package mp4

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/mp4kit/internal/format"
	"github.com/joshuapare/mp4kit/pkg/types"
)

func TestDecodeFtypScenario(t *testing.T) {
	forest := decode(t, ftypScenario)
	require.Len(t, forest, 1)

	node := forest[0]
	require.Equal(t, KindFtyp, node.Kind())
	require.Equal(t, uint64(20), node.Header.Size)
	require.Equal(t, uint64(0), node.Header.Offset)
	require.False(t, node.Header.Extended)
	require.Empty(t, node.Children)

	ftyp, err := As[*FtypBox](&node.Box)
	require.NoError(t, err)
	require.Equal(t, "isom", ftyp.MajorBrand.String())
	require.Equal(t, uint32(0x200), ftyp.MinorVersion)
	require.Equal(t, []types.FourCC{types.NewFourCC("isom")}, ftyp.CompatibleBrands)
	require.Equal(t, uint64(8), ftyp.HeaderSize())
	require.Equal(t, uint64(12), ftyp.DataSize())
}

func TestDecodeUnknownOnly(t *testing.T) {
	forest := decode(t, rawBox(8, "free"))
	require.Empty(t, forest)

	forest = decode(t, nil)
	require.Empty(t, forest)
}

func TestDecodeNestedAccounting(t *testing.T) {
	mvhd := mvhdV0(1000, 5000)
	tkhd := tkhdV0(1, 640, 480)
	data := cat(ftypScenario, box("moov", mvhd, box("trak", tkhd)))

	forest := decode(t, data)
	require.Equal(t, []Kind{KindFtyp, KindMoov, KindMvhd, KindTrak, KindTkhd}, kinds(forest))

	moov := forest[1]
	require.Equal(t, uint64(20), moov.Header.Offset)
	require.Equal(t, uint64(len(data)-20), moov.Header.Size)
	require.Len(t, moov.Children, 2)

	mvhdNode := moov.Children[0]
	require.Equal(t, uint64(28), mvhdNode.Header.Offset, "first child starts after moov's 8-byte header")
	require.Equal(t, uint64(len(mvhd)), mvhdNode.Header.Size)

	trak := moov.Children[1]
	require.Equal(t, mvhdNode.Header.End(), trak.Header.Offset)
	require.Equal(t, trak.Header.Offset+8, trak.Children[0].Header.Offset)

	m, err := As[*MvhdBox](&mvhdNode.Box)
	require.NoError(t, err)
	require.Equal(t, mvhdNode.Header.Size, m.HeaderSize()+m.DataSize())
}

func TestDecodePaddingSkipped(t *testing.T) {
	// pasp carries 8 data bytes; 4 trailing bytes are padding, not children.
	padded := box("pasp", u32(1), u32(1), []byte{0xde, 0xad, 0xbe, 0xef})
	data := cat(padded, ftypScenario)

	forest := decode(t, data)
	require.Equal(t, []Kind{KindPasp, KindFtyp}, kinds(forest))
	require.Empty(t, forest[0].Children)
	require.Equal(t, uint64(len(padded)), forest[1].Header.Offset)
}

func TestDecodeRemainderOfEightIsPadding(t *testing.T) {
	// Exactly 8 trailing bytes form a valid-looking box but are still padding.
	data := box("pasp", u32(1), u32(1), rawBox(8, "moov"))
	forest := decode(t, data)
	require.Len(t, forest, 1)
	require.Empty(t, forest[0].Children)
}

func TestDecodeChildrenAfterPayload(t *testing.T) {
	// A non-container payload followed by more than 8 bytes is walked as children.
	avcC := box("avcC", u8(1), u8(66), u8(0xc0), u8(30), u8(0xff), u8(0xe0), u8(0))
	data := fullBox("stsd", 0, 0, u32(1), box("avc1", avc1Payload(320, 240), avcC))

	forest := decode(t, data)
	require.Equal(t, []Kind{KindStsd, KindAvc1, KindAvcC}, kinds(forest))
	require.Equal(t, uint64(16), forest[0].Children[0].Header.Offset)
	require.Equal(t, uint64(16+8+78), forest[0].Children[0].Children[0].Header.Offset)
}

func TestDecodeExtendedSize(t *testing.T) {
	data := largeBox("ftyp", []byte("isom"), u32(1), []byte("mp42"))
	forest := decode(t, data)
	require.Len(t, forest, 1)

	h := forest[0].Header
	require.True(t, h.Extended)
	require.Equal(t, uint64(28), h.Size)
	require.Equal(t, uint64(16), h.Len())

	ftyp, err := As[*FtypBox](&forest[0].Box)
	require.NoError(t, err)
	require.Equal(t, []types.FourCC{types.NewFourCC("mp42")}, ftyp.CompatibleBrands)
}

func TestDecodeExtendedContainer(t *testing.T) {
	data := largeBox("moov", mvhdV0(600, 1200))
	forest := decode(t, data)
	require.Equal(t, []Kind{KindMoov, KindMvhd}, kinds(forest))
	require.Equal(t, uint64(16), forest[0].Children[0].Header.Offset, "children start after the 16-byte header")
}

func TestDecodeExtendedSizeTooSmall(t *testing.T) {
	for large := uint64(1); large < 16; large++ {
		data := cat(u32(1), []byte("ftyp"), u64(large), zeros(16))
		err := decodeErr(data)
		require.Error(t, err, "largesize %d", large)
		require.True(t, errors.Is(err, types.ErrInvalidData), "largesize %d: %v", large, err)
		require.True(t, errors.Is(err, format.ErrLargeSizeTooSmall))
	}
}

func TestDecodeExtendedZeroTerminates(t *testing.T) {
	data := cat(ftypScenario, u32(1), []byte("moov"), u64(0), []byte("garbage!"))
	forest := decode(t, data)
	require.Equal(t, []Kind{KindFtyp}, kinds(forest))
}

func TestDecodeOverrunRejected(t *testing.T) {
	cases := map[string][]byte{
		"top level": rawBox(64, "ftyp", []byte("isom"), u32(0)),
		"unknown":   rawBox(4096, "mdat", zeros(8)),
		"nested":    box("moov", rawBox(200, "trak", zeros(8))),
		"child past parent": cat(
			rawBox(24, "moov", rawBox(32, "trak"), zeros(8)),
			zeros(16),
		),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			err := decodeErr(data)
			require.Error(t, err)
			require.True(t, errors.Is(err, types.ErrInvalidData), "%v", err)
		})
	}
}

func TestDecodeSizeSmallerThanHeader(t *testing.T) {
	err := decodeErr(cat(u32(4), []byte("free"), zeros(8)))
	require.True(t, errors.Is(err, ErrBoxTooSmall), "%v", err)

	err = decodeErr(cat(u32(1), []byte("free"), u64(16)))
	require.NoError(t, err, "largesize 16 is an empty box")
}

func TestDecodeTruncatedHeader(t *testing.T) {
	err := decodeErr(cat(ftypScenario, []byte{0, 0, 0}))
	require.True(t, errors.Is(err, ErrTruncatedHeader), "%v", err)

	err = decodeErr(box("moov", mvhdV0(1, 1), zeros(4)))
	require.True(t, errors.Is(err, ErrTruncatedHeader), "%v", err)
}

func TestDecodePayloadTruncated(t *testing.T) {
	// An mvhd too short for its version 0 fields.
	err := decodeErr(fullBox("mvhd", 0, 0, u32(1), u32(2)))
	require.Error(t, err)
	require.True(t, errors.Is(err, types.ErrInvalidData))
	require.True(t, errors.Is(err, format.ErrPayloadTruncated))
}

type oversized struct{ basicBox }

func (oversized) Kind() Kind       { return KindUnknown }
func (oversized) DataSize() uint64 { return 100 }
func (oversized) Summary() string  { return "" }

func TestEffectiveSizeOverrun(t *testing.T) {
	h := Header{Type: TypeOf(types.NewFourCC("test")), Size: 32}
	_, err := effectiveSize(h, oversized{})
	require.True(t, errors.Is(err, ErrPayloadOverrun))

	h.Size = 108
	n, err := effectiveSize(h, oversized{})
	require.NoError(t, err)
	require.Equal(t, uint64(108), n)

	h.Extended = true
	_, err = effectiveSize(h, oversized{})
	require.True(t, errors.Is(err, ErrPayloadOverrun), "extended header adds 8 bytes")
}

func TestDecodeUnknownTransparent(t *testing.T) {
	// The unknown box body looks like an ftyp but must not be descended into.
	hidden := rawBox(24, "zzzz", rawBox(16, "ftyp", []byte("isom"), u32(0)))
	data := box("moov", hidden, mvhdV0(1000, 1))

	forest := decode(t, data)
	require.Equal(t, []Kind{KindMoov, KindMvhd}, kinds(forest))
	require.Equal(t, uint64(8+24), forest[0].Children[0].Header.Offset)

	// mdat is not registered and is skipped in one seek.
	data = cat(ftypScenario, box("mdat", zeros(1024)), box("moov"))
	require.Equal(t, []Kind{KindFtyp, KindMoov}, kinds(decode(t, data)))
}

func TestDecodeZeroSizeTerminator(t *testing.T) {
	// Top level: the walk ends at the zero-size header.
	data := cat(ftypScenario, rawBox(0, "mdat", []byte("anything at all")))
	require.Equal(t, []Kind{KindFtyp}, kinds(decode(t, data)))

	// Nested: the region ends; the parent continues after the enclosing box.
	moov := box("moov", mvhdV0(1, 1), rawBox(0, "free"), rawBox(8, "trak"))
	data = cat(moov, ftypScenario)
	forest := decode(t, data)
	require.Equal(t, []Kind{KindMoov, KindMvhd, KindFtyp}, kinds(forest))
	require.Equal(t, uint64(len(moov)), forest[1].Header.Offset)
}

func TestDecodeDepthLimit(t *testing.T) {
	data := box("moov", mvhdV0(1, 1))
	for i := 0; i < 9; i++ {
		data = box("moov", data)
	}

	forest := decode(t, data)
	require.Equal(t, 11, forest.Count())

	limits := types.DefaultLimits()
	limits.MaxDepth = 5
	_, err := DecodeTree(bytes.NewReader(data), uint64(len(data)), Options{Limits: &limits})
	require.True(t, errors.Is(err, ErrTooDeep), "%v", err)

	limits.MaxDepth = 11
	_, err = DecodeTree(bytes.NewReader(data), uint64(len(data)), Options{Limits: &limits})
	require.NoError(t, err)
}

func TestDecodeInvalidLimits(t *testing.T) {
	limits := types.Limits{}
	_, err := DecodeTree(bytes.NewReader(ftypScenario), 20, Options{Limits: &limits})
	require.Error(t, err)
}

func TestDecodeFromCurrentPosition(t *testing.T) {
	prefix := []byte("JUNKJUNK")
	data := cat(prefix, ftypScenario, box("moov", mvhdV0(1, 1)), []byte("trailing"))
	r := bytes.NewReader(data)
	_, err := r.Seek(int64(len(prefix)), io.SeekStart)
	require.NoError(t, err)

	size := uint64(len(data) - len(prefix) - len("trailing"))
	forest, err := DecodeTree(r, size, Options{})
	require.NoError(t, err)
	require.Equal(t, []Kind{KindFtyp, KindMoov, KindMvhd}, kinds(forest))
	require.Equal(t, uint64(8), forest[0].Header.Offset, "offsets are absolute")
	require.Equal(t, uint64(28), forest[1].Header.Offset)
}

// failingReader fails every read after the first n bytes.
type failingReader struct {
	*bytes.Reader
	n   int64
	err error
}

func (f *failingReader) Read(p []byte) (int, error) {
	pos, _ := f.Seek(0, io.SeekCurrent)
	if pos >= f.n {
		return 0, f.err
	}
	if int64(len(p)) > f.n-pos {
		p = p[:f.n-pos]
	}
	return f.Reader.Read(p)
}

func TestDecodeIOErrorPropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	data := cat(ftypScenario, box("moov", mvhdV0(1, 1)))

	for _, cut := range []int64{0, 4, 20, 30, 60} {
		r := &failingReader{Reader: bytes.NewReader(data), n: cut, err: boom}
		_, err := DecodeTree(r, uint64(len(data)), Options{})
		require.Error(t, err, "cut %d", cut)
		require.True(t, errors.Is(err, boom), "cut %d: %v", cut, err)
		require.False(t, errors.Is(err, types.ErrInvalidData), "cut %d: %v", cut, err)
	}
}

func TestScanVisitsInOrder(t *testing.T) {
	data := cat(ftypScenario, box("moov", mvhdV0(1, 1), box("trak", tkhdV0(1, 2, 3))))

	var seen []Kind
	err := ScanTree(bytes.NewReader(data), uint64(len(data)), DeciderFunc(func(p Payload) Decision {
		seen = append(seen, p.Kind())
		return Continue
	}), Options{})
	require.NoError(t, err)
	require.Equal(t, []Kind{KindFtyp, KindMoov, KindMvhd, KindTrak, KindTkhd}, seen)
}

func TestScanStopShortCircuits(t *testing.T) {
	// Everything after tkhd is malformed; a stopped scan never reads it.
	data := cat(
		box("moov", mvhdV0(1, 1), box("trak", tkhdV0(7, 2, 3), rawBox(9999, "mdia"))),
		rawBox(9999, "ftyp"),
	)

	var seen []Kind
	var track uint32
	err := ScanTree(bytes.NewReader(data), uint64(len(data)), DeciderFunc(func(p Payload) Decision {
		seen = append(seen, p.Kind())
		if tkhd, err := PayloadAs[*TkhdBox](p); err == nil {
			track = tkhd.TrackID
			return Stop
		}
		return Continue
	}), Options{})
	require.NoError(t, err)
	require.Equal(t, []Kind{KindMoov, KindMvhd, KindTrak, KindTkhd}, seen)
	require.Equal(t, uint32(7), track)

	// Without the stop the same input fails.
	err = ScanTree(bytes.NewReader(data), uint64(len(data)), DeciderFunc(func(Payload) Decision {
		return Continue
	}), Options{})
	require.True(t, errors.Is(err, types.ErrInvalidData))
}

func TestScanStopBeforeChildren(t *testing.T) {
	data := box("moov", mvhdV0(1, 1))
	calls := 0
	err := ScanTree(bytes.NewReader(data), uint64(len(data)), DeciderFunc(func(Payload) Decision {
		calls++
		return Stop
	}), Options{})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestScanRequiresDecider(t *testing.T) {
	require.Error(t, ScanTree(bytes.NewReader(ftypScenario), 20, nil, Options{}))
}

func TestWalkReturnsNilForestWhenScanning(t *testing.T) {
	forest, err := Walk(bytes.NewReader(ftypScenario), 20, DeciderFunc(func(Payload) Decision {
		return Continue
	}), Options{})
	require.NoError(t, err)
	require.Nil(t, forest)
}

func TestWalkLogsSkips(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)
	data := cat(box("mdat", zeros(4)), box("pasp", u32(1), u32(1), zeros(2)), rawBox(0, "free"))

	_, err := DecodeTree(bytes.NewReader(data), uint64(len(data)), Options{Logger: &logger})
	require.NoError(t, err)
	require.Contains(t, logs.String(), "skipping unknown box")
	require.Contains(t, logs.String(), "skipping padding")
	require.Contains(t, logs.String(), "zero-size box terminates region")
}
