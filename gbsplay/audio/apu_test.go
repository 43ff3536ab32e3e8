package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	samples []int16
}

func (s *captureSink) Write(samples []int16) error {
	s.samples = append(s.samples, samples...)
	return nil
}

// TestSquareWaveSynthesis mirrors spec.md §8 scenario 2: trigger channel 1
// with duty=2, volume=15, envelope off, period high=7, length disabled,
// and expect nonzero amplitude and at least 10 zero crossings (sign
// changes) in the left channel across 4096 samples.
func TestSquareWaveSynthesis(t *testing.T) {
	sink := &captureSink{}
	a := New(44100, sink)

	a.WriteRegister(0xFF25, 0x11) // NR51: ch1 left+right on
	a.WriteRegister(0xFF24, 0x77) // NR50: full volume both sides
	a.WriteRegister(0xFF11, 0x80) // duty=2
	a.WriteRegister(0xFF12, 0xF0) // vol=15, env off
	a.WriteRegister(0xFF13, 0x00)
	a.WriteRegister(0xFF14, 0x87) // trigger, period high=7, length disabled

	for i := 0; i < 4096; i++ {
		a.Tick(256)
	}
	a.Flush()
	require.GreaterOrEqual(t, len(sink.samples), 4096*2)

	crossings := 0
	prevSign := 0
	nonZeroSeen := false
	for i := 0; i < 4096; i++ {
		s := sink.samples[i*2]
		if s != 0 {
			nonZeroSeen = true
		}
		sign := 0
		if s > 0 {
			sign = 1
		} else if s < 0 {
			sign = -1
		}
		if prevSign != 0 && sign != 0 && sign != prevSign {
			crossings++
		}
		if sign != 0 {
			prevSign = sign
		}
	}
	assert.True(t, nonZeroSeen, "square wave must produce nonzero amplitude")
	assert.GreaterOrEqual(t, crossings, 10, "expected at least 10 zero crossings")
}

// TestEnvelopeDecayToZero mirrors spec.md §8 scenario 3: a descending
// envelope eventually silences the channel and volume stays at 0.
func TestEnvelopeDecayToZero(t *testing.T) {
	a := New(44100, nil)
	a.WriteRegister(0xFF12, 0xF1) // vol=15, env down, period code=1
	a.WriteRegister(0xFF13, 0x00)
	a.WriteRegister(0xFF14, 0x87) // trigger, length disabled

	// One envelope step = envPeriod(code*8) combined ticks, each combined
	// tick = sweepDivTC main ticks = 256*32 = 8192 cycles. code=1 gives
	// 8*8192 = 65536 cycles/step; 15 steps silence a volume=15 channel.
	const cyclesPerStep = 65536
	a.Tick(cyclesPerStep * 15)

	assert.Equal(t, uint8(0), a.ch1.volume)

	// Further ticking must not raise the volume back up.
	a.Tick(cyclesPerStep * 5)
	assert.Equal(t, uint8(0), a.ch1.volume)
}

// TestLFSRDeterminism mirrors spec.md §8 scenario 5: identical cycle
// input from the documented initial seed produces a bit-exact stream
// across independent runs.
func TestLFSRDeterminism(t *testing.T) {
	run := func() []int16 {
		sink := &captureSink{}
		a := New(44100, sink)
		a.WriteRegister(0xFF21, 0xF0) // NR42: vol=15, env off
		a.WriteRegister(0xFF22, 0x00) // NR43: shift=0, divisor code=0
		a.WriteRegister(0xFF25, 0x88) // NR51: ch4 both sides
		a.WriteRegister(0xFF24, 0x77)
		a.WriteRegister(0xFF23, 0xC0) // trigger, length disabled

		for i := 0; i < 2048; i++ {
			a.Tick(64)
		}
		a.Flush()
		return sink.samples
	}

	first := run()
	second := run()
	require.Equal(t, len(first), len(second))
	assert.Equal(t, first, second)
}

func TestTriggerResetsLFSRSeed(t *testing.T) {
	a := New(44100, nil)
	a.WriteRegister(0xFF22, 0x00)
	a.WriteRegister(0xFF23, 0xC0) // trigger
	assert.Equal(t, uint16(0xFFFF), a.ch4.lfsr)
}

func TestPeriodReloadFormula(t *testing.T) {
	a := New(44100, nil)
	a.WriteRegister(0xFF13, 0x00) // period low
	a.WriteRegister(0xFF14, 0x87) // period high=7 -> p=0x700=1792, trigger
	assert.Equal(t, uint16(2048-1792), a.ch1.periodReload)
}

func TestLengthCounterSilencesChannel(t *testing.T) {
	a := New(44100, nil)
	a.WriteRegister(0xFF12, 0xF0) // vol=15, env off
	a.WriteRegister(0xFF11, 0x3F) // length code = 63 -> (64-63)*2 = 2
	a.WriteRegister(0xFF14, 0xC7) // trigger, length enabled, period high=7

	require.Equal(t, uint16(2), a.ch1.lengthCounter)
	require.NotEqual(t, uint8(0), a.ch1.volume)

	// Two combined ticks (sweepDivTC main ticks each) silence the channel.
	a.Tick(sweepDivTC * mainDivTC * 2)
	assert.Equal(t, uint8(0), a.ch1.volume)
}

func TestSweepOverflowDisablesChannel(t *testing.T) {
	a := New(44100, nil)
	a.WriteRegister(0xFF10, 0x21) // sweep period code=2, up, shift=1
	a.WriteRegister(0xFF13, 0xFF)
	a.WriteRegister(0xFF14, 0x87) // period high=7 -> p=0x7FF=2047, trigger
	require.True(t, a.ch1.masterOn)

	// sweepPeriod = 2*2 = 4 combined ticks until the sweep fires.
	a.Tick(sweepDivTC * mainDivTC * 4)
	assert.False(t, a.ch1.masterOn, "sweep overflow beyond 2047 must silence the channel")
}

func TestMixerRespectsNR51Gating(t *testing.T) {
	sink := &captureSink{}
	a := New(44100, sink)
	a.WriteRegister(0xFF11, 0x80)
	a.WriteRegister(0xFF12, 0xF0)
	a.WriteRegister(0xFF13, 0x00)
	a.WriteRegister(0xFF14, 0x87)
	a.WriteRegister(0xFF24, 0x77)
	a.WriteRegister(0xFF25, 0x10) // ch1 left only, no right

	a.Tick(128) // > sampleTC in 1<<16 units, guarantees at least one emitted sample
	a.Flush()
	require.GreaterOrEqual(t, len(sink.samples), 2)
	// Right channel must be silent since ch1's right gate is clear and
	// no other channel is active.
	assert.Equal(t, int16(0), sink.samples[1])
}

func TestToggleAndSoloChannel(t *testing.T) {
	a := New(44100, nil)
	a.ToggleChannel(2, true)
	assert.False(t, a.channelAudible(2))
	assert.True(t, a.channelAudible(1))

	a.SoloChannel(3)
	assert.False(t, a.channelAudible(1))
	assert.True(t, a.channelAudible(3))

	a.SoloChannel(0)
	a.ToggleChannel(2, false)
	assert.True(t, a.channelAudible(1))
	assert.True(t, a.channelAudible(2))
}
