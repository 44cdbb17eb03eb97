package types

import "fmt"

// ============================================================================
// Traversal Limits Constants
// ============================================================================
// Real files rarely nest deeper than a dozen levels (moov/trak/mdia/minf/stbl/
// stsd/avc1/avcC), so the depth limits are generous; they exist to keep
// pathological inputs with thousands of near-empty nested boxes bounded.

const (
	// MaxDepthPractical is the default nesting limit.
	MaxDepthPractical = 512

	// MaxDepthDeep allows very deep trees for synthetic or unusual inputs.
	MaxDepthDeep = 4096

	// MaxDepthShallow is a conservative limit for constrained callers.
	MaxDepthShallow = 64

	// MaxTableEntriesDefault caps entry counts in sample tables and lists.
	// A two-hour 60 fps track has ~432k samples; 16M leaves ample headroom.
	MaxTableEntriesDefault = 1 << 24

	// MaxTableEntriesStrict is the entry cap for constrained callers.
	MaxTableEntriesStrict = 1 << 20

	// MaxInputSize4GB bounds inputs that must be decompressed into memory.
	MaxInputSize4GB = 4 << 30

	// MaxInputSize256MB is the strict bound for decompressed inputs.
	MaxInputSize256MB = 256 << 20

	// MaxInputSize64GB is the relaxed bound for decompressed inputs.
	MaxInputSize64GB = 64 << 30
)

// Limits bounds the work a single traversal may perform.
type Limits struct {
	// MaxDepth is the maximum box nesting depth. Top-level boxes are depth 1.
	MaxDepth int

	// MaxTableEntries caps the entry count of any table-carrying box
	// (stts, stsz, stco, trun, ...). Counts above it are rejected as invalid
	// data before anything is allocated.
	MaxTableEntries uint64

	// MaxInputSize caps the size of inputs decompressed into memory.
	MaxInputSize int64
}

// DefaultLimits returns limits suitable for any real-world file.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:        MaxDepthPractical,
		MaxTableEntries: MaxTableEntriesDefault,
		MaxInputSize:    MaxInputSize4GB,
	}
}

// RelaxedLimits returns more permissive limits for synthetic inputs.
func RelaxedLimits() Limits {
	return Limits{
		MaxDepth:        MaxDepthDeep,
		MaxTableEntries: 1 << 32,
		MaxInputSize:    MaxInputSize64GB,
	}
}

// StrictLimits returns conservative limits for untrusted inputs.
func StrictLimits() Limits {
	return Limits{
		MaxDepth:        MaxDepthShallow,
		MaxTableEntries: MaxTableEntriesStrict,
		MaxInputSize:    MaxInputSize256MB,
	}
}

// Validate reports limits that would reject every input.
func (l Limits) Validate() error {
	if l.MaxDepth <= 0 {
		return fmt.Errorf("limits: MaxDepth must be positive, got %d", l.MaxDepth)
	}
	if l.MaxTableEntries == 0 {
		return fmt.Errorf("limits: MaxTableEntries must be positive")
	}
	if l.MaxInputSize <= 0 {
		return fmt.Errorf("limits: MaxInputSize must be positive, got %d", l.MaxInputSize)
	}
	return nil
}
