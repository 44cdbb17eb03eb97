package mp4

import "github.com/joshuapare/mp4kit/pkg/types"

var (
	// ErrBoxTooLarge indicates a box whose declared size exceeds its enclosing region.
	ErrBoxTooLarge = types.InvalidData("file contains a box with a larger size than it")
	// ErrBoxTooSmall indicates a non-zero declared size smaller than the header itself.
	ErrBoxTooSmall = types.InvalidData("box size smaller than its header")
	// ErrTruncatedHeader indicates fewer bytes than a box header left in a region.
	ErrTruncatedHeader = types.InvalidData("truncated box header")
	// ErrPayloadOverrun indicates decoded fields extending past the declared box size.
	ErrPayloadOverrun = types.InvalidData("box payload larger than its declared size")
	// ErrTooDeep indicates nesting beyond types.Limits.MaxDepth.
	ErrTooDeep = types.InvalidData("boxes nested too deeply")
	// ErrBadVersion indicates a full box version outside the accepted set.
	ErrBadVersion = types.InvalidData("version must be 0 or 1")
	// ErrSampleOverflow indicates overflow while deriving cumulative stsc sample numbers.
	ErrSampleOverflow = types.InvalidData("attempt to calculate stsc sample_id with overflow")
	// ErrStringTooSmall indicates a string field shorter than its declared length.
	ErrStringTooSmall = types.InvalidData("string too small")
)
