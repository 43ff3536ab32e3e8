package pcm

import (
	"encoding/binary"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// ringCapacity is the number of int16 samples (interleaved stereo) the
// live sink buffers between the player loop and oto's pull-based Read,
// a handful of flushThreshold-sized chunks (gbsplay/audio) of slack.
const ringCapacity = 4096 * 8

// LiveSink is an audio.Sink that plays samples through the host's audio
// device via oto, adapting the teacher pack's OtoPlayer
// (IntuitionAmiga-IntuitionEngine/audio_backend_oto.go) from its
// chip-polls-a-ring-buffer push model to a blocking queue: Write blocks
// when the ring is full, which is what paces the whole emulation loop
// to real time for live playback (player.Run's blocking-sink comment).
type LiveSink struct {
	ctx    *oto.Context
	player *oto.Player

	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
	ring     []int16
	head     int
	size     int
	closed   bool
}

// NewLiveSink opens an oto playback context at sampleRate/stereo and
// starts pulling samples from an internal ring buffer.
func NewLiveSink(sampleRate int) (*LiveSink, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready

	s := &LiveSink{
		ctx: ctx,
		ring: make([]int16, ringCapacity),
	}
	s.notEmpty = sync.NewCond(&s.mu)
	s.notFull = sync.NewCond(&s.mu)

	s.player = ctx.NewPlayer(s)
	s.player.Play()

	return s, nil
}

// Write appends interleaved stereo samples to the ring, blocking until
// there is room. Implements audio.Sink.
func (s *LiveSink) Write(samples []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sample := range samples {
		for s.size == len(s.ring) && !s.closed {
			s.notFull.Wait()
		}
		if s.closed {
			return nil
		}
		tail := (s.head + s.size) % len(s.ring)
		s.ring[tail] = sample
		s.size++
		s.notEmpty.Signal()
	}
	return nil
}

// Read implements io.Reader for oto.Player, pulling samples out of the
// ring and encoding them as little-endian int16 PCM. It blocks until at
// least one sample is available, returning silence once the sink is
// closed so oto's mixer doesn't spin on an error.
func (s *LiveSink) Read(p []byte) (int, error) {
	n := len(p) / 2
	if n == 0 {
		return 0, nil
	}

	s.mu.Lock()
	for s.size == 0 && !s.closed {
		s.notEmpty.Wait()
	}
	if s.closed && s.size == 0 {
		s.mu.Unlock()
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	if n > s.size {
		n = s.size
	}
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = s.ring[(s.head+i)%len(s.ring)]
	}
	s.head = (s.head + n) % len(s.ring)
	s.size -= n
	s.notFull.Signal()
	s.mu.Unlock()

	for i, sample := range samples {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(sample))
	}
	return n * 2, nil
}

// Close stops playback and closes the oto player, waking any blocked
// Write/Read callers. The oto context is not released.
func (s *LiveSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.notFull.Broadcast()
	s.notEmpty.Broadcast()

	if s.player != nil {
		s.player.Close()
	}
	return nil
}
