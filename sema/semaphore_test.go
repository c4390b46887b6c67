// Copyright 2024 Jovan J. E. Odassius. All rights reserved.

package sema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sasm "github.com/untyper/sasm-go"
)

// destroySema removes a possibly leftover semaphore from a previous
// failed run, so that each test starts from a clean namespace.
func destroySema(name string) {
	if s, err := New(name, 0); err == nil {
		s.Close()
	}
}

func TestSemaCreateEmptyName(t *testing.T) {
	a := assert.New(t)
	var s Semaphore
	a.ErrorIs(s.Create("", 0), sasm.ErrEmptyName)
	a.False(s.IsOpen())
	a.Empty(s.Name())
	_, err := New("", 0)
	a.ErrorIs(err, sasm.ErrEmptyName)
}

func TestSemaNotOpen(t *testing.T) {
	a := assert.New(t)
	var s Semaphore
	a.False(s.Wait(0))
	a.False(s.TryWait())
	a.ErrorIs(s.Increment(1), sasm.ErrNotOpen)
	a.NoError(s.Close())
}

func TestSemaWaitTimeout(t *testing.T) {
	a := assert.New(t)
	destroySema("sasm.test.sema.timeout")
	s, err := New("sasm.test.sema.timeout", 0)
	require.NoError(t, err)
	defer s.Close()
	start := time.Now()
	a.False(s.Wait(50 * time.Millisecond))
	elapsed := time.Since(start)
	a.True(elapsed >= 45*time.Millisecond, "wait returned too early: %v", elapsed)
	a.True(elapsed < time.Second, "wait returned too late: %v", elapsed)
}

func TestSemaIncrementWait(t *testing.T) {
	a := assert.New(t)
	destroySema("sasm.test.sema.incr")
	s, err := New("sasm.test.sema.incr", 0)
	require.NoError(t, err)
	defer s.Close()
	a.NoError(s.Increment(1))
	a.True(s.Wait(5 * time.Second))
	a.False(s.Wait(50 * time.Millisecond))
}

func TestSemaInitialCount(t *testing.T) {
	a := assert.New(t)
	destroySema("sasm.test.sema.initial")
	s, err := New("sasm.test.sema.initial", 2)
	require.NoError(t, err)
	defer s.Close()
	a.True(s.TryWait())
	a.True(s.TryWait())
	a.False(s.TryWait())
}

func TestSemaIncrementCount(t *testing.T) {
	a := assert.New(t)
	destroySema("sasm.test.sema.count")
	s, err := New("sasm.test.sema.count", 0)
	require.NoError(t, err)
	defer s.Close()
	a.Error(s.Increment(0))
	a.Error(s.Increment(-1))
	a.NoError(s.Increment(3))
	a.True(s.TryWait())
	a.True(s.TryWait())
	a.True(s.TryWait())
	a.False(s.TryWait())
}

func TestSemaReattachIgnoresInitial(t *testing.T) {
	a := assert.New(t)
	destroySema("sasm.test.sema.reattach")
	s1, err := New("sasm.test.sema.reattach", 1)
	require.NoError(t, err)
	defer s1.Close()
	s2, err := New("sasm.test.sema.reattach", 5)
	require.NoError(t, err)
	a.True(s2.TryWait())
	a.False(s2.TryWait())
}

func TestSemaCloseIdempotent(t *testing.T) {
	a := assert.New(t)
	destroySema("sasm.test.sema.close")
	s, err := New("sasm.test.sema.close", 0)
	require.NoError(t, err)
	a.NoError(s.Close())
	a.NoError(s.Close())
	a.False(s.IsOpen())
	a.Empty(s.Name())
	a.False(s.Wait(0))
	a.ErrorIs(s.Increment(1), sasm.ErrNotOpen)
}

func TestSemaRecreateAfterClose(t *testing.T) {
	a := assert.New(t)
	destroySema("sasm.test.sema.recreate")
	var s Semaphore
	require.NoError(t, s.Create("sasm.test.sema.recreate", 1))
	a.True(s.TryWait())
	require.NoError(t, s.Close())
	require.NoError(t, s.Create("sasm.test.sema.recreate", 1))
	defer s.Close()
	a.Equal("sasm.test.sema.recreate", s.Name())
	a.True(s.TryWait())
	a.False(s.TryWait())
}

func TestSemaCloseWakesWaiter(t *testing.T) {
	a := assert.New(t)
	destroySema("sasm.test.sema.wake")
	s1, err := New("sasm.test.sema.wake", 0)
	require.NoError(t, err)
	s2, err := New("sasm.test.sema.wake", 0)
	require.NoError(t, err)
	woken := make(chan bool, 1)
	go func() {
		woken <- s1.Wait(Infinite)
	}()
	// let the goroutine block in wait before tearing the object down.
	time.Sleep(100 * time.Millisecond)
	a.NoError(s2.Close())
	select {
	case ok := <-woken:
		a.True(ok)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter was not woken by close")
	}
	a.NoError(s1.Close())
}
