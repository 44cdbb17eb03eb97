package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/mp4kit/mp4"
)

// jsonBox represents a box in the structured formats.
type jsonBox struct {
	Type     string    `json:"type"`
	Offset   *uint64   `json:"offset,omitempty"`
	Size     *uint64   `json:"size,omitempty"`
	Extended bool      `json:"extended,omitempty"`
	Fields   any       `json:"fields,omitempty"`
	Children []jsonBox `json:"children,omitempty"`
}

// cborEncMode uses Core Deterministic Encoding: the same tree always yields
// the same bytes. Type codes serialize as text through MarshalText.
var cborEncMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	var err error
	cborEncMode, err = opts.EncMode()
	if err != nil {
		panic("printer: CBOR encoder initialization failed: " + err.Error())
	}
}

func (p *Printer) document(f mp4.Forest) []jsonBox {
	return p.convert(f, 0)
}

func (p *Printer) convert(nodes []*mp4.Tree, depth int) []jsonBox {
	if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
		return nil
	}
	out := make([]jsonBox, 0, len(nodes))
	for _, t := range nodes {
		b := jsonBox{Type: t.Header.Type.String()}
		if p.opts.ShowOffsets {
			offset, size := t.Header.Offset, t.Header.Size
			b.Offset = &offset
			b.Size = &size
			b.Extended = t.Header.Extended
		}
		if p.opts.ShowFields && t.Payload != nil {
			b.Fields = t.Payload
		}
		b.Children = p.convert(t.Children, depth+1)
		out = append(out, b)
	}
	return out
}

// printJSON prints the forest in JSON format.
func (p *Printer) printJSON(f mp4.Forest) error {
	data, err := json.MarshalIndent(p.document(f), "", strings.Repeat(" ", p.opts.IndentSize))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

// printYAML prints the forest in YAML format. Payload types carry JSON tags,
// so the document goes through JSON first to keep field names identical.
func (p *Printer) printYAML(f mp4.Forest) error {
	generic, err := toGeneric(p.document(f))
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(p.writer)
	indent := p.opts.IndentSize
	if indent < 2 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// printCBOR prints the forest as a single CBOR array.
func (p *Printer) printCBOR(f mp4.Forest) error {
	data, err := cborEncMode.Marshal(p.document(f))
	if err != nil {
		return err
	}
	_, err = p.writer.Write(data)
	return err
}

// toGeneric converts v to maps, slices and scalars via its JSON form, with
// integers kept as integers.
func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return normalize(out), nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	case json.Number:
		if i, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(x.String(), 10, 64); err == nil {
			return u
		}
		f, _ := x.Float64()
		return f
	default:
		return v
	}
}

func uitoa(v uint64) string { return strconv.FormatUint(v, 10) }
