// Package mp4 decodes box-structured ISO base media streams (MP4, MOV, 3GP,
// fragmented MP4) into a tree of typed nodes, and scans the same structure
// with a visitor that can stop the traversal early.
//
// # Overview
//
// Every structure in the format is a box: a 32-bit big-endian size, a
// four-character type code, an optional 64-bit size, then the payload. Boxes
// of known kinds are decoded into typed payloads (*FtypBox, *MvhdBox, ...);
// the bytes after a payload's own fields hold child boxes. Boxes of unknown
// kinds are skipped without error.
//
// # Quick Start
//
// Materialize the whole tree:
//
//	f, _ := os.Open("movie.mp4")
//	st, _ := f.Stat()
//	forest, err := mp4.DecodeTree(f, uint64(st.Size()), mp4.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, trak := range forest.Find(mp4.KindTrak) {
//	    tkhd, err := mp4.As[*mp4.TkhdBox](&trak.Children[0].Box)
//	    ...
//	}
//
// Scan until the first avcC box and stop:
//
//	err := mp4.ScanTree(f, size, mp4.DeciderFunc(func(p mp4.Payload) mp4.Decision {
//	    if avcc, err := mp4.PayloadAs[*mp4.AvcCBox](p); err == nil {
//	        fmt.Println(avcc.Summary())
//	        return mp4.Stop
//	    }
//	    return mp4.Continue
//	}), mp4.Options{})
//
// # Size Accounting
//
// A payload reports the size of its own header (8, or 12 for full boxes) and
// of the fields it decoded. Their sum, the effective size, locates the first
// child. When more than a header's worth of bytes remains before the declared
// end of the box those bytes are walked as children; a smaller remainder is
// padding and is skipped.
//
// A box whose declared size exceeds what is left of its parent fails the
// whole traversal with a data error (types.ErrInvalidData). A declared size of
// zero ends the current region: any bytes after it are not visited.
//
// # Traversal
//
// DecodeTree and ScanTree share one iterative walker. Nesting depth is bounded
// by types.Limits.MaxDepth instead of the Go stack, so inputs with thousands of
// nested near-empty boxes fail cleanly rather than exhausting memory.
package mp4
