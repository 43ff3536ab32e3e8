package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoOpLimiterNeverBlocks(t *testing.T) {
	l := NewNoOpLimiter()
	start := time.Now()
	for i := 0; i < 1000; i++ {
		l.WaitForNextChunk()
	}
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}

func TestChunkDurationMatchesSampleRate(t *testing.T) {
	d := ChunkDuration(4410, 44100)
	assert.InDelta(t, 100*time.Millisecond, d, float64(time.Millisecond))
}

func TestAdaptiveLimiterPacesToTargetDuration(t *testing.T) {
	chunk := ChunkDuration(441, 44100) // 10ms per chunk
	l := NewAdaptiveLimiter(chunk)

	start := time.Now()
	const chunks = 5
	for i := 0; i < chunks; i++ {
		l.WaitForNextChunk()
	}
	elapsed := time.Since(start)

	assert.InDelta(t, float64(chunk*chunks), float64(elapsed), float64(15*time.Millisecond))
}

func TestAdaptiveLimiterResetRebasesDeadline(t *testing.T) {
	chunk := 10 * time.Millisecond
	l := NewAdaptiveLimiter(chunk)
	time.Sleep(50 * time.Millisecond) // simulate a long pause
	l.Reset()

	start := time.Now()
	l.WaitForNextChunk()
	assert.Less(t, time.Since(start), chunk+5*time.Millisecond)
}
