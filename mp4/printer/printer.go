// Package printer renders decoded box trees as indented text, JSON, YAML or CBOR.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/mp4kit/mp4"
)

const (
	DefaultIndentSize = 2
	DefaultMaxDepth   = 0
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs one line per box, indented by depth.
	FormatText Format = "text"

	// FormatJSON outputs an indented JSON array of boxes.
	FormatJSON Format = "json"

	// FormatYAML outputs a YAML sequence of boxes.
	FormatYAML Format = "yaml"

	// FormatCBOR outputs deterministic CBOR (RFC 8949 core encoding).
	FormatCBOR Format = "cbor"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCBOR}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want text, json, yaml or cbor)", s)
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json, yaml, cbor).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per depth level (text and JSON).
	// Default: 2
	IndentSize int

	// MaxDepth limits how many levels are printed (0 = unlimited).
	// Default: 0 (unlimited)
	MaxDepth int

	// ShowOffsets includes each box's offset and size.
	// Default: false
	ShowOffsets bool

	// ShowFields includes decoded payload fields. Text output shows the
	// one-line summary; structured formats show every field.
	// Default: true
	ShowFields bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		IndentSize:  DefaultIndentSize,
		MaxDepth:    DefaultMaxDepth,
		ShowOffsets: false,
		ShowFields:  true,
	}
}

// Printer handles formatted output of box trees.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer writing to w.
//
// Example:
//
//	forest, _ := mp4.DecodeFile("movie.mp4", mp4.Options{})
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintForest(forest)
func New(w io.Writer, opts Options) *Printer {
	if opts.IndentSize < 0 {
		opts.IndentSize = 0
	}
	return &Printer{writer: w, opts: opts}
}

// PrintForest prints every top-level box and its descendants.
func (p *Printer) PrintForest(f mp4.Forest) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(f)
	case FormatYAML:
		return p.printYAML(f)
	case FormatCBOR:
		return p.printCBOR(f)
	case FormatText:
		return p.printText(f)
	default:
		return p.printText(f)
	}
}

// PrintTree prints a single subtree as if it were the only top-level box.
func (p *Printer) PrintTree(t *mp4.Tree) error {
	return p.PrintForest(mp4.Forest{t})
}

// Dump writes the text form of f with default options: one line per box,
// two spaces of indent per level, type code followed by its summary.
func Dump(w io.Writer, f mp4.Forest) error {
	return New(w, DefaultOptions()).PrintForest(f)
}
