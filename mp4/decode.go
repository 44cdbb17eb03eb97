package mp4

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/joshuapare/mp4kit/internal/source"
	"github.com/joshuapare/mp4kit/pkg/types"
)

// Options configures a traversal. The zero value uses types.DefaultLimits and
// discards log output.
type Options struct {
	// Limits bounds nesting depth, table sizes and in-memory input size.
	// Nil means types.DefaultLimits().
	Limits *types.Limits

	// Logger receives debug events (skipped boxes, padding, scan stops).
	// Nil disables logging.
	Logger *zerolog.Logger
}

func (o Options) limits() (types.Limits, error) {
	if o.Limits == nil {
		return types.DefaultLimits(), nil
	}
	if err := o.Limits.Validate(); err != nil {
		return types.Limits{}, fmt.Errorf("mp4: %w", err)
	}
	return *o.Limits, nil
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

// DecodeTree decodes every box in the next size bytes of r into a forest.
// Traversal starts at r's current position; header offsets are absolute.
// Any error aborts the call and no partial forest is returned.
func DecodeTree(r io.ReadSeeker, size uint64, opts Options) (Forest, error) {
	return Walk(r, size, nil, opts)
}

// ScanTree visits every box in the next size bytes of r, calling d for each
// decoded box before its children. The scan ends early without error when d
// returns Stop.
func ScanTree(r io.ReadSeeker, size uint64, d Decider, opts Options) error {
	if d == nil {
		return errors.New("mp4: ScanTree requires a Decider")
	}
	_, err := Walk(r, size, d, opts)
	return err
}

// Walk is the traversal behind DecodeTree and ScanTree. With a nil decider it
// returns the decoded forest; with a non-nil decider it returns a nil forest.
func Walk(r io.ReadSeeker, size uint64, d Decider, opts Options) (Forest, error) {
	limits, err := opts.limits()
	if err != nil {
		return nil, err
	}
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("mp4: stream position: %w", err)
	}
	w := &walker{
		r:       r,
		decider: d,
		limits:  limits,
		log:     opts.logger(),
	}
	forest, err := w.run(uint64(start), size)
	if err != nil {
		return nil, fmt.Errorf("mp4: %w", err)
	}
	return forest, nil
}

// DecodeFile decodes the file at path. Plain files are memory-mapped where the
// platform allows; zstd- and lz4-compressed files are decompressed into memory
// first, up to Limits.MaxInputSize.
func DecodeFile(path string, opts Options) (Forest, error) {
	src, err := openSource(path, opts)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return DecodeTree(src, src.Size(), opts)
}

// ScanFile scans the file at path. See DecodeFile for how the file is read.
func ScanFile(path string, d Decider, opts Options) error {
	src, err := openSource(path, opts)
	if err != nil {
		return err
	}
	defer src.Close()
	return ScanTree(src, src.Size(), d, opts)
}

func openSource(path string, opts Options) (*source.Source, error) {
	limits, err := opts.limits()
	if err != nil {
		return nil, err
	}
	src, err := source.Open(path, limits.MaxInputSize)
	if err != nil {
		return nil, fmt.Errorf("mp4: %w", err)
	}
	return src, nil
}
