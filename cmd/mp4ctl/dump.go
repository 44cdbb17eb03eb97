package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mp4kit/mp4"
	"github.com/joshuapare/mp4kit/mp4/printer"
)

var (
	dumpFormat  string
	dumpDepth   int
	dumpOffsets bool
	dumpCompact bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVar(&dumpFormat, "format", "", "Output format: text, json, yaml, cbor (default from config, else text)")
	cmd.Flags().IntVar(&dumpDepth, "depth", 0, "Maximum depth to print (0 = unlimited)")
	cmd.Flags().BoolVar(&dumpOffsets, "offsets", false, "Show box offsets and sizes")
	cmd.Flags().BoolVar(&dumpCompact, "compact", false, "Type codes only, without decoded fields")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the box tree of a file",
		Long: `The dump command decodes every box in a file and prints the tree,
one box per line indented by depth, or as a structured document.

Example:
  mp4ctl dump movie.mp4
  mp4ctl dump movie.mp4 --depth 2 --offsets
  mp4ctl dump movie.mp4 --format yaml
  mp4ctl dump capture.mp4.zst --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	path := args[0]

	opts := printer.DefaultOptions()
	opts.Format = cfg.Format
	opts.IndentSize = cfg.Indent
	opts.ShowOffsets = cfg.ShowOffsets || dumpOffsets
	opts.ShowFields = !dumpCompact
	opts.MaxDepth = dumpDepth

	if dumpFormat != "" {
		f, err := printer.ParseFormat(dumpFormat)
		if err != nil {
			return err
		}
		opts.Format = f
	}
	if jsonOut {
		opts.Format = printer.FormatJSON
	}

	printVerbose("Decoding: %s\n", path)

	forest, err := mp4.DecodeFile(path, decodeOptions())
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if quiet {
		return nil
	}
	return printer.New(os.Stdout, opts).PrintForest(forest)
}
