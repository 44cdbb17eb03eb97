package mp4

import (
	"errors"

	"github.com/joshuapare/mp4kit/internal/format"
)

// Header describes one box as it appears in the stream.
type Header struct {
	Type     BoxType
	Size     uint64 // declared size, including the header
	Offset   uint64 // absolute stream position of the first header byte
	Extended bool   // the header used the 64-bit largesize form
}

// Len returns the number of bytes the header occupies: 8, or 16 when Extended.
func (h Header) Len() uint64 {
	if h.Extended {
		return format.LargeHeaderSize
	}
	return format.HeaderSize
}

// End returns the absolute position one past the last byte of the box.
func (h Header) End() uint64 { return h.Offset + h.Size }

// Payload is the decoded content of a box of a known kind.
//
// HeaderSize and DataSize are computed from what was decoded, not from the
// size recorded on disk; the walker uses their sum to find where children start.
type Payload interface {
	Kind() Kind
	// HeaderSize is 8, or 12 for full boxes carrying version and flags.
	HeaderSize() uint64
	// DataSize is the number of payload bytes the decoded fields occupy.
	DataSize() uint64
	// Summary renders the decoded fields on one line.
	Summary() string
}

// decodeFunc decodes a payload from r, which is positioned just after the box
// header and bounded to the box.
type decodeFunc func(r *format.Reader, h Header) (Payload, error)

// basicBox supplies HeaderSize for boxes without a version+flags prefix.
type basicBox struct{}

func (basicBox) HeaderSize() uint64 { return format.HeaderSize }

// FullBox is the version+flags prefix shared by full boxes.
type FullBox struct {
	Version uint8  `json:"version"`
	Flags   uint32 `json:"flags"`
}

// HeaderSize includes the 4-byte version+flags prefix.
func (FullBox) HeaderSize() uint64 { return format.FullBoxHeaderSize }

func readFullBox(r *format.Reader) FullBox {
	v, f := r.FullHeader()
	return FullBox{Version: v, Flags: f}
}

// Box is a decoded box: its header and, for known kinds, its payload.
type Box struct {
	Header  Header
	Payload Payload
}

// Kind returns the payload kind, or KindUnknown.
func (b *Box) Kind() Kind {
	if b == nil || b.Payload == nil {
		return KindUnknown
	}
	return b.Payload.Kind()
}

// Tree is a box and the boxes nested in it, in stream order.
type Tree struct {
	Box
	Children []*Tree
}

// Forest is the ordered list of top-level boxes of a stream.
type Forest []*Tree

// WalkFunc is called for each node during Forest.Walk. Returning a non-nil
// error stops the walk and is returned from Walk.
type WalkFunc func(t *Tree, depth int) error

type walkEntry struct {
	t     *Tree
	depth int
}

// Walk visits every node depth-first in stream order. Top-level nodes have depth 0.
func (f Forest) Walk(fn WalkFunc) error {
	stack := make([]walkEntry, 0, len(f))
	for i := len(f) - 1; i >= 0; i-- {
		stack = append(stack, walkEntry{t: f[i]})
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if err := fn(e.t, e.depth); err != nil {
			return err
		}
		for i := len(e.t.Children) - 1; i >= 0; i-- {
			stack = append(stack, walkEntry{t: e.t.Children[i], depth: e.depth + 1})
		}
	}
	return nil
}

// Find returns every node of kind k, in stream order.
func (f Forest) Find(k Kind) []*Tree {
	var out []*Tree
	_ = f.Walk(func(t *Tree, _ int) error {
		if t.Kind() == k {
			out = append(out, t)
		}
		return nil
	})
	return out
}

// First returns the first node of kind k in stream order.
func (f Forest) First(k Kind) (*Tree, bool) {
	var found *Tree
	_ = f.Walk(func(t *Tree, _ int) error {
		if t.Kind() == k {
			found = t
			return errFound
		}
		return nil
	})
	return found, found != nil
}

// Count returns the total number of nodes.
func (f Forest) Count() int {
	n := 0
	_ = f.Walk(func(*Tree, int) error {
		n++
		return nil
	})
	return n
}

var errFound = errors.New("found")
