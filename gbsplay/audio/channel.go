package audio

// channel holds the per-channel state from spec.md §3's Data Model.
// Not every field applies to every channel (channel 3 has no envelope
// or sweep; only channel 1 has a sweep; channel 4 has no duty/period
// fields but reuses periodCounter/periodReload for its LFSR clock).
type channel struct {
	masterOn            bool
	leftGate, rightGate bool
	muted               bool

	volume        uint8
	envDirection  bool // true = volume rises
	envPeriodCode uint8 // raw 3-bit NRx2 code, for readback
	envPeriod     uint8 // envPeriodCode*8, scaled to the 512Hz combined tick (spec.md §6.2)
	envCounter    uint8

	sweepDirection bool // true = down
	sweepShift     uint8
	sweepPeriodCode uint8 // raw 3-bit NR10 code, for readback
	sweepPeriod    uint8 // sweepPeriodCode*2, scaled to the 512Hz combined tick (spec.md §6.2)
	sweepCounter   uint8

	lengthCounter uint16
	lengthEnable  bool

	// periodRaw is the 11-bit value written across NRx3/NRx4 (ch1/2/3);
	// periodReload, the actual tick-reload period, is 2048-periodRaw
	// (spec.md §6.2). Channel 4 has no periodRaw; its periodReload comes
	// straight from the NR43 divisor/shift.
	periodRaw     uint16
	periodReload  uint16
	periodCounter int32

	dutySelect    uint8
	dutyThreshold uint16

	// Channel 3 (wave) state.
	wavePosition uint8

	// Channel 4 (noise) state.
	lfsr        uint16
	noiseWidth7 bool
}

// setPeriodRaw stores the 11-bit period value p and derives the
// tick-reload period 2048-p (spec.md §6.2: "reload=2048-p").
func (ch *channel) setPeriodRaw(p uint16) {
	ch.periodRaw = p & 0x7FF
	ch.periodReload = 2048 - ch.periodRaw
}

func (ch *channel) recomputeDutyThreshold() {
	high := (uint32(ch.periodReload) * uint32(dutyEighths[ch.dutySelect&3])) / 8
	if high > uint32(ch.periodReload) {
		high = uint32(ch.periodReload)
	}
	ch.dutyThreshold = uint16(uint32(ch.periodReload) - high)
}

// stepSquare advances a duty-cycle channel by one main tick and returns
// its signed amplitude contribution (spec.md §4.3).
func (ch *channel) stepSquare() int32 {
	if !ch.masterOn || ch.periodReload == 0 {
		return 0
	}
	ch.periodCounter--
	if ch.periodCounter <= 0 {
		ch.periodCounter += int32(ch.periodReload)
	}
	if int32(ch.periodCounter) > int32(ch.dutyThreshold) {
		return int32(ch.volume)
	}
	return -int32(ch.volume)
}

// stepWaveClock advances the wave channel's position counter by cycles
// raw emulated cycles. The reference player ticks ch3's divider in its
// own per-cycle loop, entirely outside the main-tick loop that samples
// it (original_source/gbsplay.c's do_sound: the `for (i=0;i<cycles;i++)
// ch3.div--` loop runs before, and independently of, the main_div
// while-loop).
func (ch *channel) stepWaveClock(cycles int) {
	if !ch.masterOn || ch.periodReload == 0 {
		return
	}
	ch.periodCounter -= int32(cycles)
	for ch.periodCounter <= 0 {
		ch.periodCounter += int32(ch.periodReload)
		ch.wavePosition = (ch.wavePosition + 1) & 0x3F
	}
}

// peekWave samples the wave channel's current output amplitude at the
// main-tick rate, without advancing wavePosition (that happens at the
// raw cycle rate in stepWaveClock). Indexing follows spec.md §4.3's
// exact formula: byte index (wave_position>>2) & 0xF, nibble half
// chosen by ~wave_position & 2.
func (ch *channel) peekWave(waveRAM *[waveRAMSize]byte) int32 {
	if !ch.masterOn {
		return 0
	}

	byteIdx := (ch.wavePosition >> 2) & 0xF
	raw := waveRAM[byteIdx]
	var nibble byte
	if (^ch.wavePosition)&2 != 0 {
		nibble = raw >> 4
	} else {
		nibble = raw & 0x0F
	}

	switch ch.volume & 0b11 {
	case 0:
		return 0
	default:
		return int32(nibble*2) >> (ch.volume - 1)
	}
}

// stepNoise advances the noise channel by one main tick (spec.md §4.3
// lists channel 4 alongside channels 1-3 under "Per main tick").
func (ch *channel) stepNoise() int32 {
	if !ch.masterOn || ch.periodReload == 0 {
		return 0
	}
	ch.periodCounter--
	if ch.periodCounter <= 0 {
		ch.periodCounter += int32(ch.periodReload)
		feedback := ((ch.lfsr >> 15) ^ (ch.lfsr >> 14)) & 1
		ch.lfsr = (ch.lfsr << 1) | feedback
		if ch.noiseWidth7 {
			// Mirrors the real hardware's 7-bit width mode (which
			// copies the feedback bit into bit 6 of a right-shifting
			// register) into this left-shifting formulation.
			ch.lfsr = (ch.lfsr &^ 0x200) | (feedback << 9)
		}
	}
	return ch.amplitude()
}

func (ch *channel) amplitude() int32 {
	if ch.lfsr&0x8000 != 0 {
		return int32(ch.volume)
	}
	return -int32(ch.volume)
}

// tickSweep runs the channel 1 sweep sub-timer; an upward sweep that
// overflows past 2047 turns the channel off (masterOn = false).
func (ch *channel) tickSweep() {
	if ch.sweepPeriod == 0 {
		return
	}
	if ch.sweepCounter > 0 {
		ch.sweepCounter--
	}
	if ch.sweepCounter != 0 {
		return
	}
	ch.sweepCounter = ch.sweepPeriod

	// Sweep operates on the raw 11-bit period value (periodRaw), not
	// the derived countdown reload (2048-periodRaw) — spec.md §4.3's
	// "new > 2047" overflow check only makes sense in that raw space.
	delta := ch.periodRaw >> ch.sweepShift
	var newRaw int32
	if ch.sweepDirection {
		newRaw = int32(ch.periodRaw) - int32(delta)
		if newRaw < 0 {
			newRaw = 0
		}
	} else {
		newRaw = int32(ch.periodRaw) + int32(delta)
		if newRaw > 2047 {
			ch.masterOn = false
			return
		}
	}
	ch.setPeriodRaw(uint16(newRaw))
	ch.recomputeDutyThreshold()
}

func (ch *channel) tickLength() {
	if ch.lengthEnable && ch.lengthCounter > 0 {
		ch.lengthCounter--
		if ch.lengthCounter == 0 {
			ch.volume = 0
		}
	}
}

func (ch *channel) tickEnvelope() {
	if ch.envPeriod == 0 {
		return
	}
	if ch.envCounter > 0 {
		ch.envCounter--
	}
	if ch.envCounter != 0 {
		return
	}
	ch.envCounter = ch.envPeriod
	if ch.envDirection {
		if ch.volume < 15 {
			ch.volume++
		}
	} else {
		if ch.volume > 0 {
			ch.volume--
		}
	}
}
