package format

import "github.com/joshuapare/mp4kit/pkg/types"

var (
	// ErrLargeSizeTooSmall indicates a 64-bit size in 1..15, smaller than its own header.
	ErrLargeSizeTooSmall = types.InvalidData("64 bit size too small")
	// ErrPayloadTruncated indicates a decoder asked for more bytes than the box holds.
	ErrPayloadTruncated = types.InvalidData("box payload truncated")
	// ErrTooManyEntries indicates a table whose entry count cannot fit in its box.
	ErrTooManyEntries = types.InvalidData("table entry count exceeds box size")
)
