package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func box(code string, body ...[]byte) []byte {
	payload := bytes.Join(body, nil)
	out := binary.BigEndian.AppendUint32(nil, uint32(8+len(payload)))
	out = append(out, code...)
	return append(out, payload...)
}

func u16(v uint16) []byte { return binary.BigEndian.AppendUint16(nil, v) }
func u32(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

// sampleMovie builds ftyp, a one-track moov and an mdat.
func sampleMovie() []byte {
	identity := bytes.Join([][]byte{
		u32(0x00010000), u32(0), u32(0), u32(0), u32(0x00010000), u32(0), u32(0), u32(0), u32(0x40000000),
	}, nil)
	mvhd := box("mvhd", u32(0), u32(0), u32(0), u32(1000), u32(3000),
		u32(0x00010000), u16(0x0100), make([]byte, 10), identity, make([]byte, 24), u32(2))
	tkhd := box("tkhd", u32(3), u32(0), u32(0), u32(1), u32(0), u32(3000),
		make([]byte, 8), u16(0), u16(0), u16(0), u16(0), identity, u32(640<<16), u32(360<<16))
	hdlr := box("hdlr", u32(0), u32(0), []byte("vide"), make([]byte, 12), []byte("VideoHandler\x00"))
	return bytes.Join([][]byte{
		box("ftyp", []byte("isom"), u32(0x200), []byte("isom"), []byte("avc1")),
		box("moov", mvhd, box("trak", tkhd, box("mdia", hdlr))),
		box("mdat", make([]byte, 32)),
	}, nil)
}

// writeSample writes sampleMovie to a temp file, zstd-compressed when compress is set.
func writeSample(t *testing.T, compress bool) string {
	t.Helper()
	data := sampleMovie()
	name := "sample.mp4"
	if compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			t.Fatalf("zstd writer: %v", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
		name += ".zst"
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	return path
}

// resetFlags restores global flag state between tests.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	configPath, logLevel = "", ""
	cfg = defaultConfig()
	dumpFormat, dumpDepth, dumpOffsets, dumpCompact = "", 0, false, false
	scanType, scanAll = "", false
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		_, _ = buf.ReadFrom(r)
		close(done)
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout
	<-done

	return buf.String(), fnErr
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
