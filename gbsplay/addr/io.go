// Package addr names the memory-mapped I/O register addresses the GBS
// driver code can touch: the APU register file and the timer. The rest
// of the DMG I/O space (LCD, joypad, serial) is out of scope for GBS
// playback and is not named here.
package addr

// Audio/Sound registers - APU (Audio Processing Unit).
// Reference: https://gbdev.io/pandocs/Audio_Registers.html
const (
	AudioStart uint16 = 0xFF10
	AudioEnd   uint16 = 0xFF3F

	// Channel 1 - Square wave with sweep
	NR10 uint16 = 0xFF10
	NR11 uint16 = 0xFF11
	NR12 uint16 = 0xFF12
	NR13 uint16 = 0xFF13
	NR14 uint16 = 0xFF14

	// Channel 2 - Square wave
	NR21 uint16 = 0xFF16
	NR22 uint16 = 0xFF17
	NR23 uint16 = 0xFF18
	NR24 uint16 = 0xFF19

	// Channel 3 - Custom wave
	NR30 uint16 = 0xFF1A
	NR31 uint16 = 0xFF1B
	NR32 uint16 = 0xFF1C
	NR33 uint16 = 0xFF1D
	NR34 uint16 = 0xFF1E

	// Channel 4 - Noise
	NR41 uint16 = 0xFF20
	NR42 uint16 = 0xFF21
	NR43 uint16 = 0xFF22
	NR44 uint16 = 0xFF23

	// Global sound control
	NR50 uint16 = 0xFF24
	NR51 uint16 = 0xFF25
	NR52 uint16 = 0xFF26

	// Wave pattern RAM (32 samples, 4-bit each)
	WaveRAMStart uint16 = 0xFF30
	WaveRAMEnd   uint16 = 0xFF3F
)

// Timer registers.
const (
	// DIV is the divider register. Writing to it resets it to 0.
	DIV uint16 = 0xFF04
	// TIMA is the timer counter, unused by GBS playback's synthetic
	// timer callback but kept readable/writable for driver code that
	// pokes at it anyway.
	TIMA uint16 = 0xFF05
	// TMA is the timer modulo/reload register.
	TMA uint16 = 0xFF06
	// TAC is the timer control register.
	TAC uint16 = 0xFF07
)

// HighRAMStart is the first address of the 127-byte high RAM region.
const HighRAMStart uint16 = 0xFF80

// IE is the Interrupt Enable register. GBS playback never delivers
// interrupts (spec.md §4.4), but driver code occasionally pokes at this
// register out of habit, so it gets a real backing byte rather than
// falling into the unmapped-I/O debug-log path.
const IE uint16 = 0xFFFF
