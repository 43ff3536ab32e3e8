package pcm

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSink builds a LiveSink's ring-buffer plumbing without opening a
// real oto context, so the blocking Write/Read contract can be tested
// headlessly.
func newTestSink(capacity int) *LiveSink {
	s := &LiveSink{ring: make([]int16, capacity)}
	s.notEmpty = sync.NewCond(&s.mu)
	s.notFull = sync.NewCond(&s.mu)
	return s
}

func TestLiveSinkWriteThenReadRoundTrips(t *testing.T) {
	s := newTestSink(16)

	require.NoError(t, s.Write([]int16{1, 2, 3, 4}))

	p := make([]byte, 8)
	n, err := s.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	assert.Equal(t, int16(1), int16(uint16(p[0])|uint16(p[1])<<8))
	assert.Equal(t, int16(4), int16(uint16(p[6])|uint16(p[7])<<8))
}

func TestLiveSinkWriteBlocksWhenRingFull(t *testing.T) {
	s := newTestSink(4)
	require.NoError(t, s.Write([]int16{1, 2, 3, 4}))

	done := make(chan struct{})
	go func() {
		// This Write must block until the Read below drains room.
		require.NoError(t, s.Write([]int16{5, 6}))
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Write returned before the ring had room")
	case <-time.After(50 * time.Millisecond):
	}

	p := make([]byte, 4)
	_, err := s.Read(p)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Write never unblocked after Read freed space")
	}
}

func TestLiveSinkReadBlocksUntilDataAvailable(t *testing.T) {
	s := newTestSink(16)

	readDone := make(chan struct{})
	var n int
	go func() {
		p := make([]byte, 4)
		var err error
		n, err = s.Read(p)
		assert.NoError(t, err)
		close(readDone)
	}()

	select {
	case <-readDone:
		t.Fatal("Read returned before any data was written")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, s.Write([]int16{42, 43}))

	select {
	case <-readDone:
		assert.Equal(t, 4, n)
	case <-time.After(time.Second):
		t.Fatal("Read never unblocked after Write")
	}
}

func TestLiveSinkCloseUnblocksWaiters(t *testing.T) {
	s := newTestSink(4)

	readDone := make(chan struct{})
	go func() {
		p := make([]byte, 8)
		_, err := s.Read(p)
		assert.NoError(t, err)
		close(readDone)
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Close())

	select {
	case <-readDone:
	case <-time.After(time.Second):
		t.Fatal("Close did not unblock a pending Read")
	}
}
