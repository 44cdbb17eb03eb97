package source

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/mp4kit/pkg/types"
)

// sample is an ftyp box followed by an empty free box.
var sample = []byte{
	0x00, 0x00, 0x00, 0x14, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm',
	0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm',
	0x00, 0x00, 0x00, 0x08, 'f', 'r', 'e', 'e',
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func zstdBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(data, nil)
}

func lz4Bytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	zw := lz4.NewWriter(&out)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return out.Bytes()
}

func TestDetect(t *testing.T) {
	require.Equal(t, CompressionNone, Detect(sample))
	require.Equal(t, CompressionNone, Detect(nil))
	require.Equal(t, CompressionZstd, Detect(zstdBytes(t, sample)))
	require.Equal(t, CompressionLZ4, Detect(lz4Bytes(t, sample)))
}

func TestOpenPlain(t *testing.T) {
	src, err := Open(writeFile(t, "plain.mp4", sample), 0)
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, CompressionNone, src.Compression())
	require.Equal(t, uint64(len(sample)), src.Size())
	require.Equal(t, sample, src.Bytes())

	head := make([]byte, 8)
	_, err = src.Read(head)
	require.NoError(t, err)
	require.Equal(t, sample[:8], head)
}

func TestOpenCompressed(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want Compression
	}{
		{"sample.mp4.zst", zstdBytes(t, sample), CompressionZstd},
		{"sample.mp4.lz4", lz4Bytes(t, sample), CompressionLZ4},
	}
	for _, tc := range cases {
		t.Run(tc.want.String(), func(t *testing.T) {
			src, err := Open(writeFile(t, tc.name, tc.data), types.MaxInputSize256MB)
			require.NoError(t, err)
			defer src.Close()
			require.Equal(t, tc.want, src.Compression())
			require.Equal(t, sample, src.Bytes())
		})
	}
}

func TestOpenSizeLimit(t *testing.T) {
	big := bytes.Repeat(sample, 64)
	for _, data := range [][]byte{zstdBytes(t, big), lz4Bytes(t, big)} {
		_, err := FromBytes(data, int64(len(sample)))
		require.Error(t, err)
		require.True(t, errors.Is(err, types.ErrInvalidData), "got %v", err)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mp4"), 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDigest(t *testing.T) {
	src, err := FromBytes([]byte{}, 0)
	require.NoError(t, err)
	require.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", src.Digest())

	a, err := FromBytes(sample, 0)
	require.NoError(t, err)
	b, err := FromBytes(zstdBytes(t, sample), 0)
	require.NoError(t, err)
	require.Equal(t, a.Digest(), b.Digest(), "digest covers the decompressed bytes")
}

func TestCloseTwice(t *testing.T) {
	src, err := Open(writeFile(t, "twice.mp4", sample), 0)
	require.NoError(t, err)
	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
}
