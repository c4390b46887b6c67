// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package shm

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// SegmentReader is a reader over the mapped bytes of a segment.
// It holds a reference to the segment, so the latter cannot be finalized
// while the reader is in use.
type SegmentReader struct {
	segment *Segment
	*bytes.Reader
}

// NewSegmentReader creates a new reader for the given segment.
func NewSegmentReader(segment *Segment) *SegmentReader {
	return &SegmentReader{
		segment: segment,
		Reader:  bytes.NewReader(segment.Bytes()),
	}
}

// SegmentWriter is a writer over the mapped bytes of a segment.
// It holds a reference to the segment, so the latter cannot be finalized
// while the writer is in use.
type SegmentWriter struct {
	segment *Segment
	pos     int64
}

// NewSegmentWriter creates a new writer for the given segment.
func NewSegmentWriter(segment *Segment) *SegmentWriter {
	return &SegmentWriter{segment: segment}
}

// WriteAt is to implement io.WriterAt.
func (w *SegmentWriter) WriteAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, errors.New("shm.SegmentWriter.WriteAt: negative offset")
	}
	data := w.segment.Bytes()
	n = len(data) - int(off)
	if n > 0 {
		if n > len(p) {
			n = len(p)
		}
		copy(data[off:], p[:n])
	} else {
		n = 0
	}
	if n < len(p) {
		err = io.EOF
	}
	return
}

// Write is to implement io.Writer.
func (w *SegmentWriter) Write(p []byte) (n int, err error) {
	n, err = w.WriteAt(p, w.pos)
	w.pos += int64(n)
	return n, err
}
