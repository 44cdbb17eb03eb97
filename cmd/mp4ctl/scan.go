package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mp4kit/mp4"
	"github.com/joshuapare/mp4kit/pkg/types"
)

var (
	scanType string
	scanAll  bool
)

func init() {
	cmd := newScanCmd()
	cmd.Flags().StringVarP(&scanType, "type", "t", "", "Box type to look for (four characters, e.g. avcC)")
	cmd.Flags().BoolVar(&scanAll, "all", false, "Report every match instead of stopping at the first")
	_ = cmd.MarkFlagRequired("type")
	rootCmd.AddCommand(cmd)
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Find boxes of one type without building the tree",
		Long: `The scan command walks a file box by box and prints the decoded fields
of each box of the requested type. By default it stops at the first match
and reads nothing further.

Example:
  mp4ctl scan movie.mp4 --type avcC
  mp4ctl scan movie.mp4 --type tkhd --all
  mp4ctl scan movie.mp4 --type stsz --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args)
		},
	}
	return cmd
}

type scanMatch struct {
	Type   string      `json:"type"`
	Fields mp4.Payload `json:"fields"`
}

func runScan(args []string) error {
	path := args[0]

	code, err := types.ParseFourCC(scanType)
	if err != nil {
		return fmt.Errorf("invalid --type: %w", err)
	}
	want := mp4.KindOf(code)
	if want == mp4.KindUnknown {
		return fmt.Errorf("box type %q is not decoded; known types: %s", code, knownTypes())
	}

	printVerbose("Scanning %s for %s\n", path, want)

	var matches []scanMatch
	err = mp4.ScanFile(path, mp4.DeciderFunc(func(p mp4.Payload) mp4.Decision {
		if p.Kind() != want {
			return mp4.Continue
		}
		matches = append(matches, scanMatch{Type: want.String(), Fields: p})
		if scanAll {
			return mp4.Continue
		}
		return mp4.Stop
	}), decodeOptions())
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", path, err)
	}

	if len(matches) == 0 {
		return fmt.Errorf("no %s box in %s", want, path)
	}

	if jsonOut {
		return printJSON(matches)
	}
	for _, m := range matches {
		printInfo("%s %s\n", m.Type, m.Fields.Summary())
	}
	return nil
}

func knownTypes() string {
	s := ""
	for i, k := range mp4.Kinds() {
		if i > 0 {
			s += " "
		}
		s += k.String()
	}
	return s
}
