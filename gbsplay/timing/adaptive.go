package timing

import (
	"log/slog"
	"time"
)

// AdaptiveLimiter paces chunk processing with drift compensation: sleep
// for most of the wait, then busy-wait the last couple of milliseconds
// for accuracy, exactly as jeebie/timing/adaptive.go does per frame.
type AdaptiveLimiter struct {
	targetChunkTime time.Duration
	nextChunkTime   time.Time
	chunkCounter    int64
}

// NewAdaptiveLimiter builds a limiter targeting one chunk every
// chunkDuration (see ChunkDuration).
func NewAdaptiveLimiter(chunkDuration time.Duration) *AdaptiveLimiter {
	return &AdaptiveLimiter{
		targetChunkTime: chunkDuration,
		nextChunkTime:   time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextChunk() {
	now := time.Now()
	sleepTime := a.nextChunkTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime < 2*time.Millisecond {
			for time.Now().Before(a.nextChunkTime) {
			}
		} else {
			time.Sleep(sleepTime - time.Millisecond)
			for time.Now().Before(a.nextChunkTime) {
			}
		}
	} else if sleepTime < -5*time.Millisecond {
		a.nextChunkTime = now
	}

	a.nextChunkTime = a.nextChunkTime.Add(a.targetChunkTime)
	a.chunkCounter++

	if a.chunkCounter%100 == 0 {
		drift := time.Now().Sub(a.nextChunkTime)
		if drift.Abs() > 10*time.Millisecond {
			a.nextChunkTime = a.nextChunkTime.Add(drift / 10)
			slog.Debug("chunk timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"chunk", a.chunkCounter,
			)
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextChunkTime = time.Now()
	a.chunkCounter = 0
}
