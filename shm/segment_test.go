// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package shm

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sasm "github.com/untyper/sasm-go"
)

// destroySegment removes a possibly leftover object from a previous
// failed run, so that each test starts from a clean namespace.
func destroySegment(name string) {
	if s, err := New(name, 1); err == nil {
		s.Close()
	}
}

func TestSegmentCreateEmptyName(t *testing.T) {
	a := assert.New(t)
	var s Segment
	a.ErrorIs(s.Create("", 64), sasm.ErrEmptyName)
	a.Empty(s.Name())
	a.Zero(s.Size())
	a.Nil(s.Bytes())
	_, err := New("", 64)
	a.ErrorIs(err, sasm.ErrEmptyName)
}

func TestSegmentCreateZeroSize(t *testing.T) {
	a := assert.New(t)
	var s Segment
	a.ErrorIs(s.Create("sasm.test.shm.zero", 0), sasm.ErrZeroSize)
	a.ErrorIs(s.Create("sasm.test.shm.zero", -1), sasm.ErrZeroSize)
	a.Nil(s.Bytes())
	_, err := New("sasm.test.shm.zero", 0)
	a.ErrorIs(err, sasm.ErrZeroSize)
}

func TestSegmentGetters(t *testing.T) {
	a := assert.New(t)
	destroySegment("sasm.test.shm.getters")
	s, err := New("sasm.test.shm.getters", 64)
	require.NoError(t, err)
	defer s.Close()
	a.Equal("sasm.test.shm.getters", s.Name())
	a.Equal(64, s.Size())
	a.Len(s.Bytes(), 64)
	a.NotZero(s.Addr())
	a.NotEqual(^uintptr(0), s.Fd())
}

func TestSegmentRoundTrip(t *testing.T) {
	a := assert.New(t)
	destroySegment("test-seg")
	segA, err := New("test-seg", 64)
	require.NoError(t, err)
	defer segA.Close()
	segB, err := New("test-seg", 64)
	require.NoError(t, err)
	defer segB.Close()

	pattern := bytes.Repeat([]byte{0xAB}, 64)
	copy(segA.Bytes(), pattern)
	a.Equal(pattern, segB.Bytes())

	segB.Bytes()[0] = 0xCD
	a.EqualValues(0xCD, segA.Bytes()[0])
}

func TestSegmentCloseIdempotent(t *testing.T) {
	a := assert.New(t)
	destroySegment("sasm.test.shm.close")
	s, err := New("sasm.test.shm.close", 64)
	require.NoError(t, err)
	a.NoError(s.Close())
	a.NoError(s.Close())
	a.Empty(s.Name())
	a.Zero(s.Size())
	a.Nil(s.Bytes())
	a.Zero(s.Addr())
	a.Equal(^uintptr(0), s.Fd())
	a.ErrorIs(s.Flush(false), sasm.ErrNotOpen)
}

func TestSegmentRecreateAfterClose(t *testing.T) {
	a := assert.New(t)
	destroySegment("sasm.test.shm.recreate")
	var s Segment
	require.NoError(t, s.Create("sasm.test.shm.recreate", 32))
	s.Bytes()[0] = 0xFF
	require.NoError(t, s.Close())
	require.NoError(t, s.Create("sasm.test.shm.recreate", 128))
	defer s.Close()
	a.Equal(128, s.Size())
	a.Len(s.Bytes(), 128)
}

func TestSegmentCreateRecyclesOpenObject(t *testing.T) {
	a := assert.New(t)
	destroySegment("sasm.test.shm.recycle1")
	destroySegment("sasm.test.shm.recycle2")
	var s Segment
	require.NoError(t, s.Create("sasm.test.shm.recycle1", 32))
	require.NoError(t, s.Create("sasm.test.shm.recycle2", 64))
	defer s.Close()
	a.Equal("sasm.test.shm.recycle2", s.Name())
	a.Equal(64, s.Size())
}

func TestSegmentFlush(t *testing.T) {
	a := assert.New(t)
	destroySegment("sasm.test.shm.flush")
	s, err := New("sasm.test.shm.flush", 64)
	require.NoError(t, err)
	defer s.Close()
	copy(s.Bytes(), "flushed")
	a.NoError(s.Flush(false))
	a.NoError(s.Flush(true))
}

func TestSegmentReaderWriter(t *testing.T) {
	a := assert.New(t)
	destroySegment("sasm.test.shm.rw")
	s, err := New("sasm.test.shm.rw", 16)
	require.NoError(t, err)
	defer s.Close()

	writer := NewSegmentWriter(s)
	n, err := writer.WriteAt([]byte{1, 2, 3, 4}, 4)
	a.NoError(err)
	a.Equal(4, n)

	reader := NewSegmentReader(s)
	actual := make([]byte, 4)
	n, err = reader.ReadAt(actual, 4)
	a.NoError(err)
	a.Equal(4, n)
	a.Equal([]byte{1, 2, 3, 4}, actual)

	// writes past the end of the region are truncated.
	n, err = writer.WriteAt([]byte{1, 2, 3, 4}, 14)
	a.Equal(io.EOF, err)
	a.Equal(2, n)
	n, err = writer.WriteAt([]byte{1, 2}, 20)
	a.Equal(io.EOF, err)
	a.Zero(n)
}

func TestSegmentWriterNegativeOffset(t *testing.T) {
	a := assert.New(t)
	destroySegment("sasm.test.shm.negoff")
	s, err := New("sasm.test.shm.negoff", 8)
	require.NoError(t, err)
	defer s.Close()

	writer := NewSegmentWriter(s)
	n, err := writer.WriteAt([]byte{1, 2}, -1)
	a.Error(err)
	a.Zero(n)

	// the read side rejects negative offsets the same way.
	reader := NewSegmentReader(s)
	buf := make([]byte, 2)
	n, err = reader.ReadAt(buf, -1)
	a.Error(err)
	a.Zero(n)
}

func TestSegmentWriterSequential(t *testing.T) {
	a := assert.New(t)
	destroySegment("sasm.test.shm.seq")
	s, err := New("sasm.test.shm.seq", 8)
	require.NoError(t, err)
	defer s.Close()

	writer := NewSegmentWriter(s)
	for _, chunk := range [][]byte{{1, 2, 3}, {4, 5, 6}} {
		n, err := writer.Write(chunk)
		a.NoError(err)
		a.Equal(len(chunk), n)
	}
	a.Equal([]byte{1, 2, 3, 4, 5, 6, 0, 0}, s.Bytes())
}
