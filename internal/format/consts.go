// Package format houses the low-level codec for box headers in ISO base media
// (MP4-style) streams. The goal is to keep header parsing and bounded payload
// reads focused and independent from the public API so higher-level packages
// can orchestrate traversal in a more ergonomic form.
package format

const (
	// HeaderSize is the size of the compact box header in bytes.
	//
	//	Offset  Size  Field
	//	0x00    4     size (big-endian, includes the header)
	//	0x04    4     type (four-character code)
	HeaderSize = 8

	// LargeHeaderSize is the size of the header when the 64-bit size escape is used.
	//
	//	Offset  Size  Field
	//	0x00    4     1 (escape)
	//	0x04    4     type
	//	0x08    8     largesize (big-endian, includes the header)
	LargeHeaderSize = 16

	// HeaderExtSize is the size of the version+flags prefix carried by full boxes.
	//
	//	Offset  Size  Field
	//	0x00    1     version
	//	0x01    3     flags (big-endian)
	HeaderExtSize = 4

	// FullBoxHeaderSize is HeaderSize plus the version+flags prefix.
	FullBoxHeaderSize = HeaderSize + HeaderExtSize

	// LargeSizeEscape in the 32-bit size field announces a 64-bit largesize.
	LargeSizeEscape = 1

	// FlagsMask keeps the 24 bits the flags field can carry.
	FlagsMask = 0x00FFFFFF
)
