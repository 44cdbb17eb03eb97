package printer

import (
	"bufio"
	"strings"

	"github.com/joshuapare/mp4kit/mp4"
)

// printText prints the forest in human-readable text format.
func (p *Printer) printText(f mp4.Forest) error {
	bw := bufio.NewWriter(p.writer)
	err := f.Walk(func(t *mp4.Tree, depth int) error {
		if p.opts.MaxDepth > 0 && depth >= p.opts.MaxDepth {
			return nil
		}
		p.writeLine(bw, t, depth)
		return nil
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

func (p *Printer) writeLine(bw *bufio.Writer, t *mp4.Tree, depth int) {
	bw.WriteString(strings.Repeat(" ", depth*p.opts.IndentSize))
	bw.WriteString(t.Header.Type.String())

	if p.opts.ShowOffsets {
		bw.WriteString(" @")
		bw.WriteString(uitoa(t.Header.Offset))
		bw.WriteString(" size=")
		bw.WriteString(uitoa(t.Header.Size))
		if t.Header.Extended {
			bw.WriteString(" (64-bit)")
		}
	}

	if p.opts.ShowFields && t.Payload != nil {
		if s := t.Payload.Summary(); s != "" {
			bw.WriteByte(' ')
			bw.WriteString(s)
		}
	}
	bw.WriteByte('\n')
}
