// Package source opens media inputs for traversal.
//
// Plain files are memory-mapped. Files compressed with zstd or lz4 (frame
// format), as test corpora and archived captures often are, are recognized by
// their magic number and decompressed into memory up to a caller-supplied
// limit. Either way the result is an io.ReadSeeker over the media bytes.
package source

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"

	"github.com/joshuapare/mp4kit/internal/mmfile"
	"github.com/joshuapare/mp4kit/pkg/types"
)

// Compression identifies how an input was stored.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// ErrTooLarge indicates a decompressed input larger than the configured limit.
var ErrTooLarge = types.InvalidData("decompressed input exceeds size limit")

// Detect reports the compression of data from its leading bytes.
func Detect(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Source is an opened input. It must be closed to release the mapping.
type Source struct {
	*bytes.Reader

	data        []byte
	compression Compression
	release     func() error
}

// Open maps the file at path and, when it is compressed, decompresses it.
// maxSize bounds the decompressed size; zero or negative means no bound.
func Open(path string, maxSize int64) (*Source, error) {
	data, release, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	c := Detect(data)
	if c == CompressionNone {
		return &Source{Reader: bytes.NewReader(data), data: data, release: release}, nil
	}

	plain, err := decompress(data, c, maxSize)
	if cerr := release(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Source{Reader: bytes.NewReader(plain), data: plain, compression: c}, nil
}

// FromBytes wraps data, decompressing it first when it is compressed.
func FromBytes(data []byte, maxSize int64) (*Source, error) {
	c := Detect(data)
	if c == CompressionNone {
		return &Source{Reader: bytes.NewReader(data), data: data}, nil
	}
	plain, err := decompress(data, c, maxSize)
	if err != nil {
		return nil, err
	}
	return &Source{Reader: bytes.NewReader(plain), data: plain, compression: c}, nil
}

func decompress(data []byte, c Compression, maxSize int64) ([]byte, error) {
	var r io.Reader
	switch c {
	case CompressionZstd:
		zr, err := zstd.NewReader(bytes.NewReader(data), zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		defer zr.Close()
		r = zr
	case CompressionLZ4:
		r = lz4.NewReader(bytes.NewReader(data))
	default:
		return data, nil
	}

	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s decompress: %w", c, err)
	}
	if maxSize > 0 && int64(len(plain)) > maxSize {
		return nil, ErrTooLarge
	}
	return plain, nil
}

// Size returns the number of media bytes.
func (s *Source) Size() uint64 { return uint64(len(s.data)) }

// Bytes returns the media bytes. The slice is invalid after Close.
func (s *Source) Bytes() []byte { return s.data }

// Compression reports how the input was stored.
func (s *Source) Compression() Compression { return s.compression }

// Digest returns the hex BLAKE3-256 digest of the media bytes.
func (s *Source) Digest() string {
	sum := blake3.Sum256(s.data)
	return hex.EncodeToString(sum[:])
}

// Close releases the mapping, if any. It is safe to call more than once.
func (s *Source) Close() error {
	if s.release == nil {
		return nil
	}
	release := s.release
	s.release = nil
	s.data = nil
	return release()
}
