package mp4

import (
	"fmt"
	"io"
	"math"

	"github.com/rs/zerolog"

	"github.com/joshuapare/mp4kit/internal/buf"
	"github.com/joshuapare/mp4kit/internal/format"
	"github.com/joshuapare/mp4kit/pkg/types"
)

// Decision is returned by a Decider to steer a scan.
type Decision int

const (
	// Continue descends into the box's children and then visits its siblings.
	Continue Decision = iota
	// Stop ends the whole traversal immediately without error.
	Stop
)

func (d Decision) String() string {
	if d == Stop {
		return "stop"
	}
	return "continue"
}

// Decider is consulted once for every decoded box, before its children.
type Decider interface {
	Decide(p Payload) Decision
}

// DeciderFunc adapts a plain function to the Decider interface.
type DeciderFunc func(p Payload) Decision

// Decide calls f(p).
func (f DeciderFunc) Decide(p Payload) Decision { return f(p) }

// region is a byte range whose boxes are being walked. node receives the
// decoded children in materialize mode and is nil while scanning.
type region struct {
	end  uint64
	node *Tree
}

// initialStackCapacity covers the nesting of typical files without regrowth.
const initialStackCapacity = 16

type walker struct {
	r       io.ReadSeeker
	decider Decider
	limits  types.Limits
	log     zerolog.Logger

	pos uint64 // stream position as last left by a read or seek
}

// run walks the boxes in [start, start+size). With a nil decider it returns
// the decoded forest; otherwise it returns nil and calls the decider per box.
func (w *walker) run(start, size uint64) (Forest, error) {
	end, ok := buf.AddOverflowSafe(start, size)
	if !ok {
		return nil, types.InvalidData("input size overflows stream offsets")
	}

	var root *Tree
	if w.decider == nil {
		root = &Tree{}
	}

	stack := make([]region, 0, initialStackCapacity)
	stack = append(stack, region{end: end, node: root})
	w.pos = start
	cur := start

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if cur == top.end {
			stack = stack[:len(stack)-1]
			continue
		}

		h, err := w.readHeader(cur, top.end)
		if err != nil {
			return nil, err
		}

		if h.Size == 0 {
			// A zero size ends the region; nothing after it is visited.
			w.log.Debug().
				Str("type", h.Type.String()).
				Uint64("offset", h.Offset).
				Int("depth", len(stack)).
				Msg("zero-size box terminates region")
			stack = stack[:len(stack)-1]
			cur = top.end
			continue
		}

		decode := h.Type.decoder()
		if decode == nil {
			w.log.Debug().
				Str("type", h.Type.String()).
				Uint64("offset", h.Offset).
				Uint64("size", h.Size).
				Msg("skipping unknown box")
			cur = h.End()
			continue
		}

		payload, err := w.decode(decode, h)
		if err != nil {
			return nil, err
		}

		effective, err := effectiveSize(h, payload)
		if err != nil {
			return nil, err
		}

		var node *Tree
		if w.decider == nil {
			node = &Tree{Box: Box{Header: h, Payload: payload}}
			top.node.Children = append(top.node.Children, node)
		} else if w.decider.Decide(payload) == Stop {
			w.log.Debug().
				Str("type", h.Type.String()).
				Uint64("offset", h.Offset).
				Msg("scan stopped")
			return nil, nil
		}

		remainder := h.Size - effective
		switch {
		case remainder > format.HeaderSize:
			if len(stack) >= w.limits.MaxDepth {
				return nil, fmt.Errorf("%s box at %d: depth %d: %w",
					h.Type, h.Offset, len(stack)+1, ErrTooDeep)
			}
			stack = append(stack, region{end: h.End(), node: node})
			cur = h.Offset + effective
		case remainder > 0:
			w.log.Debug().
				Str("type", h.Type.String()).
				Uint64("offset", h.Offset+effective).
				Uint64("bytes", remainder).
				Msg("skipping padding")
			cur = h.End()
		default:
			cur = h.End()
		}
	}

	if root == nil {
		return nil, nil
	}
	return Forest(root.Children), nil
}

// readHeader reads the header at cur and checks it against the region ending at end.
func (w *walker) readHeader(cur, end uint64) (Header, error) {
	left := end - cur
	if left < format.HeaderSize {
		return Header{}, fmt.Errorf("%d bytes at %d: %w", left, cur, ErrTruncatedHeader)
	}
	if err := w.seek(cur); err != nil {
		return Header{}, err
	}

	fh, err := format.ParseHeader(w.r, cur)
	if err != nil {
		return Header{}, err
	}
	w.pos = cur + fh.Len()

	h := Header{Type: TypeOf(fh.Code), Size: fh.Size, Offset: fh.Offset, Extended: fh.Extended}
	if h.Size > left {
		return Header{}, fmt.Errorf("%s box at %d: size %d, %d bytes left: %w",
			h.Type, h.Offset, h.Size, left, ErrBoxTooLarge)
	}
	if h.Size != 0 && h.Size < h.Len() {
		return Header{}, fmt.Errorf("%s box at %d: size %d: %w", h.Type, h.Offset, h.Size, ErrBoxTooSmall)
	}
	return h, nil
}

// decode runs the payload decoder over a reader bounded to the box.
func (w *walker) decode(decode decodeFunc, h Header) (Payload, error) {
	pr := format.NewReader(w.r, h.Size-h.Len())
	pr.MaxEntries = w.limits.MaxTableEntries
	payload, err := decode(pr, h)
	w.pos += pr.Consumed()
	if err == nil {
		err = pr.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("%s box at %d: %w", h.Type, h.Offset, err)
	}
	return payload, nil
}

// seek moves the stream to pos unless it is already there.
func (w *walker) seek(pos uint64) error {
	if pos == w.pos {
		return nil
	}
	if pos > math.MaxInt64 {
		return types.InvalidData("box offset exceeds seekable range")
	}
	if _, err := w.r.Seek(int64(pos), io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", pos, err)
	}
	w.pos = pos
	return nil
}

// effectiveSize is the number of bytes of h accounted for by its header and
// decoded payload. It fails when that exceeds the declared size.
func effectiveSize(h Header, p Payload) (uint64, error) {
	n, ok := buf.AddOverflowSafe(h.Len()-format.HeaderSize+p.HeaderSize(), p.DataSize())
	if !ok || n > h.Size {
		return 0, fmt.Errorf("%s box at %d: size %d: %w", h.Type, h.Offset, h.Size, ErrPayloadOverrun)
	}
	return n, nil
}
