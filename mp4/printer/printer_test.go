package printer

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/mp4kit/mp4"
)

func box(code string, body ...[]byte) []byte {
	payload := bytes.Join(body, nil)
	out := binary.BigEndian.AppendUint32(nil, uint32(8+len(payload)))
	out = append(out, code...)
	return append(out, payload...)
}

func u32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

// testForest decodes ftyp followed by moov{trak{stco}}.
func testForest(t *testing.T) mp4.Forest {
	t.Helper()
	stco := box("stco", u32(0), u32(2), u32(48), u32(1024))
	data := bytes.Join([][]byte{
		box("ftyp", []byte("isom"), u32(0x200), []byte("isom"), []byte("avc1")),
		box("moov", box("trak", stco)),
	}, nil)
	forest, err := mp4.DecodeTree(bytes.NewReader(data), uint64(len(data)), mp4.Options{})
	require.NoError(t, err)
	return forest
}

func TestPrinter_Dump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, testForest(t)))

	want := "ftyp major_brand=isom minor_version=512 compatible_brands=[isom, avc1]\n" +
		"moov\n" +
		"  trak\n" +
		"    stco entries=2\n"
	require.Equal(t, want, buf.String())
}

func TestPrinter_TextOffsetsAndDepth(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ShowOffsets = true
	opts.ShowFields = false
	opts.MaxDepth = 2
	opts.IndentSize = 4
	require.NoError(t, New(&buf, opts).PrintForest(testForest(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, []string{
		"ftyp @0 size=24",
		"moov @24 size=40",
		"    trak @32 size=32",
	}, lines)
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON
	opts.ShowOffsets = true
	require.NoError(t, New(&buf, opts).PrintForest(testForest(t)))

	var doc []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc, 2)

	ftyp := doc[0]
	require.Equal(t, "ftyp", ftyp["type"])
	require.Equal(t, float64(24), ftyp["size"])
	fields := ftyp["fields"].(map[string]any)
	require.Equal(t, "isom", fields["major_brand"])
	require.Equal(t, []any{"isom", "avc1"}, fields["compatible_brands"])

	moov := doc[1]
	trak := moov["children"].([]any)[0].(map[string]any)
	stco := trak["children"].([]any)[0].(map[string]any)
	require.Equal(t, []any{float64(48), float64(1024)}, stco["fields"].(map[string]any)["entries"])
}

func TestPrinter_YAML(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatYAML
	require.NoError(t, New(&buf, opts).PrintForest(testForest(t)))

	require.Contains(t, buf.String(), "minor_version: 512")

	var doc []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc, 2)
	require.Equal(t, "moov", doc[1]["type"])
	_, hasOffset := doc[0]["offset"]
	require.False(t, hasOffset)
}

func TestPrinter_CBOR(t *testing.T) {
	var a, b bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatCBOR
	require.NoError(t, New(&a, opts).PrintForest(testForest(t)))
	require.NoError(t, New(&b, opts).PrintForest(testForest(t)))
	require.Equal(t, a.Bytes(), b.Bytes(), "encoding is deterministic")

	var doc []map[string]any
	require.NoError(t, cbor.Unmarshal(a.Bytes(), &doc))
	require.Len(t, doc, 2)
	require.Equal(t, "ftyp", doc[0]["type"])
}

func TestPrinter_PrintTree(t *testing.T) {
	forest := testForest(t)
	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).PrintTree(forest[1].Children[0]))
	require.Equal(t, "trak\n  stco entries=2\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	_, err := ParseFormat("reg")
	require.Error(t, err)
}
