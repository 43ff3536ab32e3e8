// Package timing paces the player loop against wall-clock time for live
// playback, adapted from the teacher's per-frame jeebie/timing package:
// where jeebie limits CPU execution to one Game Boy frame (70224 cycles)
// per 1/59.7s, gbsplay limits it to one audio chunk (flushThreshold
// samples' worth of cycles) per the real-time duration that chunk
// represents at the host sample rate. Rendering to a file instead of a
// live sink uses NoOpLimiter and runs flat-out.
package timing

import "time"

// Limiter paces a stream of fixed-size work units against real time.
type Limiter interface {
	// WaitForNextChunk blocks until it is time to process the next
	// chunk. Returns immediately if timing is behind schedule.
	WaitForNextChunk()

	// Reset clears accumulated drift, useful after a pause/seek.
	Reset()
}

// NewNoOpLimiter returns a limiter that never blocks, for offline
// rendering (e.g. to a WAV file) where there is no real-time deadline.
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextChunk() {}
func (n *noOpLimiter) Reset()            {}

// ChunkDuration returns how long chunkSamples stereo sample pairs take
// to play at sampleRate.
func ChunkDuration(chunkSamples, sampleRate int) time.Duration {
	return time.Duration(float64(chunkSamples) / float64(sampleRate) * float64(time.Second))
}
