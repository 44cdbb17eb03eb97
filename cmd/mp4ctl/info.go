package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mp4kit/internal/format"
	"github.com/joshuapare/mp4kit/internal/source"
	"github.com/joshuapare/mp4kit/mp4"
	"github.com/joshuapare/mp4kit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a file: size, digest, brands, tracks",
		Long: `The info command decodes a file and reports its size, BLAKE3 digest,
brands, duration, track list and top-level boxes.

Example:
  mp4ctl info movie.mp4
  mp4ctl info movie.mp4 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type topLevelBox struct {
	Type   string `json:"type"`
	Offset uint64 `json:"offset"`
	Size   uint64 `json:"size"`
}

type trackInfo struct {
	ID      uint32 `json:"id"`
	Handler string `json:"handler,omitempty"`
	Width   uint16 `json:"width,omitempty"`
	Height  uint16 `json:"height,omitempty"`
}

type fileInfo struct {
	File        string         `json:"file"`
	Size        uint64         `json:"size"`
	Compression string         `json:"compression"`
	Digest      string         `json:"blake3"`
	MajorBrand  string         `json:"major_brand,omitempty"`
	Brands      []types.FourCC `json:"compatible_brands,omitempty"`
	Duration    string         `json:"duration,omitempty"`
	Fragmented  bool           `json:"fragmented"`
	Tracks      []trackInfo    `json:"tracks,omitempty"`
	Boxes       []topLevelBox  `json:"boxes"`
}

func runInfo(args []string) error {
	path := args[0]

	printVerbose("Opening: %s\n", path)

	opts := decodeOptions()
	src, err := source.Open(path, opts.Limits.MaxInputSize)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	forest, err := mp4.DecodeTree(src, src.Size(), opts)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	info := describe(forest)
	if info.Boxes, err = topLevel(src, src.Size()); err != nil {
		return fmt.Errorf("failed to list boxes in %s: %w", path, err)
	}
	info.File = path
	info.Size = src.Size()
	info.Compression = src.Compression().String()
	info.Digest = src.Digest()

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nFile Information:\n")
	printInfo("  File: %s\n", info.File)
	printInfo("  Size: %d bytes\n", info.Size)
	if info.Compression != source.CompressionNone.String() {
		printInfo("  Compression: %s\n", info.Compression)
	}
	printInfo("  BLAKE3: %s\n", info.Digest)
	if info.MajorBrand != "" {
		printInfo("  Major brand: %s\n", info.MajorBrand)
		printInfo("  Compatible brands: %v\n", info.Brands)
	}
	if info.Duration != "" {
		printInfo("  Duration: %s\n", info.Duration)
	}
	printInfo("  Fragmented: %t\n", info.Fragmented)

	printInfo("\nTracks: %d\n", len(info.Tracks))
	for _, t := range info.Tracks {
		printInfo("  #%d %s", t.ID, t.Handler)
		if t.Width > 0 || t.Height > 0 {
			printInfo(" %dx%d", t.Width, t.Height)
		}
		printInfo("\n")
	}

	printInfo("\nTop-level boxes: %d\n", len(info.Boxes))
	for _, b := range info.Boxes {
		printInfo("  %s @%d size=%d\n", b.Type, b.Offset, b.Size)
	}
	return nil
}

// describe gathers the summary fields that come from the decoded tree.
func describe(forest mp4.Forest) fileInfo {
	var info fileInfo

	if node, ok := forest.First(mp4.KindFtyp); ok {
		if ftyp, err := mp4.As[*mp4.FtypBox](&node.Box); err == nil {
			info.MajorBrand = ftyp.MajorBrand.String()
			info.Brands = ftyp.CompatibleBrands
		}
	}

	if node, ok := forest.First(mp4.KindMvhd); ok {
		if mvhd, err := mp4.As[*mp4.MvhdBox](&node.Box); err == nil {
			info.Duration = mvhd.DurationTime().String()
		}
	}

	_, info.Fragmented = forest.First(mp4.KindMvex)

	for _, trak := range forest.Find(mp4.KindTrak) {
		sub := mp4.Forest(trak.Children)
		var t trackInfo
		if node, ok := sub.First(mp4.KindTkhd); ok {
			if tkhd, err := mp4.As[*mp4.TkhdBox](&node.Box); err == nil {
				t.ID = tkhd.TrackID
				t.Width = tkhd.Width.Int()
				t.Height = tkhd.Height.Int()
			}
		}
		if node, ok := sub.First(mp4.KindHdlr); ok {
			if hdlr, err := mp4.As[*mp4.HdlrBox](&node.Box); err == nil {
				t.Handler = hdlr.HandlerType.String()
			}
		}
		info.Tracks = append(info.Tracks, t)
	}
	return info
}

// topLevel lists every top-level box, including types the decoder skips.
// A zero size extends the box to the end of the input.
func topLevel(r io.ReadSeeker, size uint64) ([]topLevelBox, error) {
	var out []topLevelBox
	off := uint64(0)
	for size-off >= format.HeaderSize {
		if _, err := r.Seek(int64(off), io.SeekStart); err != nil {
			return nil, err
		}
		h, err := format.ParseHeader(r, off)
		if err != nil {
			return nil, err
		}
		n := h.Size
		if n == 0 || n > size-off {
			n = size - off
		}
		if n < h.Len() {
			break
		}
		out = append(out, topLevelBox{Type: h.Code.String(), Offset: off, Size: n})
		off += n
	}
	return out, nil
}
