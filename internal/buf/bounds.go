package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow uint64.
func AddOverflowSafe(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result would overflow uint64.
// This is essential for count * elementSize calculations in table parsing.
func MulOverflowSafe(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

// SubUnderflowSafe returns a - b, with ok = false when b > a.
func SubUnderflowSafe(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// AddU32 adds two uint32 values, returning ok = false on overflow.
func AddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// MulU32 multiplies two uint32 values, returning ok = false on overflow.
func MulU32(a, b uint32) (uint32, bool) {
	p, ok := MulOverflowSafe(uint64(a), uint64(b))
	if !ok || p > math.MaxUint32 {
		return 0, false
	}
	return uint32(p), true
}

// SubU32 returns a - b, with ok = false when b > a.
func SubU32(a, b uint32) (uint32, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}

// CheckListBounds validates that count elements of elementSize bytes fit in a
// region of regionLen bytes starting at offset. Returns the end offset if valid,
// or an error describing the specific failure (overflow or out of bounds).
//
// This is the recommended way to validate table structures before allocating:
//
//	endOff, err := buf.CheckListBounds(remaining, 0, uint64(count), 8)
//	if err != nil {
//	    return fmt.Errorf("stts: %w", err)
//	}
//	// Safe to allocate count entries
func CheckListBounds(regionLen, offset, count, elementSize uint64) (uint64, error) {
	totalSize, ok := MulOverflowSafe(count, elementSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elementSize)
	}

	endOffset, ok := AddOverflowSafe(offset, totalSize)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, totalSize)
	}

	if endOffset > regionLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", endOffset, regionLen)
	}

	return endOffset, nil
}
