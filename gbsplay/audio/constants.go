package audio

// waveRAMSize is the number of packed bytes backing the 32 four-bit
// wave samples at FF30-FF3F.
const waveRAMSize = 16

// flushThreshold is the number of stereo sample pairs the player buffers
// before handing them to the PCM sink (spec.md §4.3/§5: "every 4096
// stereo samples ≈ 23ms at 44.1kHz").
const flushThreshold = 4096

// FlushThreshold exposes flushThreshold so callers pacing playback (see
// gbsplay/timing, gbsplay/player) can size a chunk the same way the
// mixer buffers one.
const FlushThreshold = flushThreshold

// dutyEighths maps a channel 1/2 duty-select code to how many eighths
// of the period the square wave spends "high": 12.5/25/50/75%.
var dutyEighths = [4]uint16{1, 2, 4, 6}

// noiseDivisors is the channel 4 divisor table from NR43 bits 2-0,
// giving the base period in main ticks before the clock-shift is
// applied. Noise steps at the main-tick rate alongside channels 1/2
// (spec.md §4.3's "Per main tick" list); it is the wave channel whose
// position counter runs off the raw cycle stream instead (see
// channel.stepWaveClock).
var noiseDivisors = [8]int{8, 16, 32, 48, 64, 80, 96, 112}

// defaultWavePattern is the 16-byte wave pattern GBS subsong setup
// copies into FF30-FF3F (spec.md §4.5).
var defaultWavePattern = [waveRAMSize]byte{
	0xAC, 0xDD, 0xDA, 0x48, 0x36, 0x02, 0xCF, 0x16,
	0x2C, 0x04, 0xE5, 0x2C, 0xAC, 0xDD, 0xDA, 0x48,
}
