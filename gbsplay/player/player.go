// Package player ties the CPU, memory map, and APU together into the
// GBS playback loop described in spec.md §4.4/§4.5: load a subsong's
// registers and memory image, run its init routine implicitly by
// letting the CPU execute from init_address, then synthesize repeated
// calls into play_address on a timer, advancing the APU in lockstep.
package player

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/ujjwalsh/gbsplay/gbsplay/addr"
	"github.com/ujjwalsh/gbsplay/gbsplay/audio"
	"github.com/ujjwalsh/gbsplay/gbsplay/cpu"
	"github.com/ujjwalsh/gbsplay/gbsplay/gbs"
	"github.com/ujjwalsh/gbsplay/gbsplay/memory"
	"github.com/ujjwalsh/gbsplay/gbsplay/timing"
)

// playerStub is the three-byte HALT; JR -3 loop a subsong's play
// callback falls back into after each RET (spec.md §4.5).
var playerStub = [3]byte{0x76, 0x18, 0xFD}

// Player owns one loaded GBS subsong's running emulation state.
type Player struct {
	cpu *cpu.CPU
	mem *memory.MMU
	apu *audio.APU

	file    *gbs.File
	subsong int

	timerTC int
	timer   int

	limiter     timing.Limiter
	chunkCycles uint64
	chunkSoFar  uint64

	totalCycles uint64
	quit        atomic.Bool
}

// Load builds a Player for subsong (1-based) of file, rendering audio
// at sampleRate into sink.
func Load(file *gbs.File, subsong int, sampleRate int, sink audio.Sink) (*Player, error) {
	if err := file.ValidateSubsong(subsong); err != nil {
		return nil, err
	}

	mem := memory.New()
	mem.ConfigureAudio(sampleRate, sink)

	rom := make([]byte, romImageSize(file))
	copy(rom[file.LoadAddress:], file.ROM)
	copy(rom[0:3], playerStub[:])
	mem.LoadROM(rom)

	c := cpu.New(mem)
	c.SetLoadAddress(file.LoadAddress)
	c.SetSP(file.StackPointer)
	c.SetA(uint8(subsong - 1))
	c.PushWord(0x0000) // init's RET lands on the HALT stub at 0x0000
	c.SetPC(file.InitAddress)

	resetDefaultChannels(mem.APU)

	p := &Player{
		cpu:         c,
		mem:         mem,
		apu:         mem.APU,
		file:        file,
		subsong:     subsong,
		timerTC:     file.TimerTC(),
		limiter:     timing.NewNoOpLimiter(),
		chunkCycles: uint64(audio.CPUHz) * uint64(audio.FlushThreshold) / uint64(sampleRate),
	}
	p.timer = p.timerTC

	return p, nil
}

// SetLimiter installs the pacing strategy Run uses between audio chunks.
// Load defaults to a no-op limiter (flat-out rendering); pass a
// timing.NewAdaptiveLimiter for live playback so emulation doesn't race
// ahead of the sink.
func (p *Player) SetLimiter(l timing.Limiter) { p.limiter = l }

// romImageSize rounds the GBS code/data body up to a 16 KiB multiple,
// the way the real ROM bank layout requires.
func romImageSize(file *gbs.File) int {
	const bankSize = 0x4000
	needed := int(file.LoadAddress) + len(file.ROM)
	if rem := needed % bankSize; rem != 0 {
		needed += bankSize - rem
	}
	if needed == 0 {
		needed = bankSize
	}
	return needed
}

// resetDefaultChannels establishes the default channel enable state
// subsong setup requires (spec.md §4.5: duty=4 i.e. 50%, master on for
// ch1/2/4) and copies the default wave pattern into wave RAM. Expressed
// as register writes so it goes through the same trigger path real
// driver code would use.
func resetDefaultChannels(apu *audio.APU) {
	apu.Reset()
	apu.WriteRegister(addr.NR50, 0x77) // full volume both sides
	apu.WriteRegister(addr.NR51, 0xFF) // every channel on both sides
	apu.WriteRegister(addr.NR11, 0x80) // duty=2 (4/8 = 50%)
	apu.WriteRegister(addr.NR21, 0x80) // duty=2, matching ch1
	apu.WriteRegister(addr.NR14, 0x80) // trigger, master on
	apu.WriteRegister(addr.NR24, 0x80) // trigger, master on
	apu.WriteRegister(addr.NR44, 0x80) // trigger, master on
}

// Step runs one iteration of the player loop (spec.md §4.4): a CPU
// instruction or HALT charge, timer countdown, synthesized play-address
// call on expiry, and an APU advance by the cycles just spent.
func (p *Player) Step() error {
	var cycles int
	if p.cpu.Halted() {
		cycles = 16
	} else {
		var err error
		cycles, err = p.cpu.Step()
		if err != nil {
			return fmt.Errorf("player: %w", err)
		}
	}

	p.totalCycles += uint64(cycles)
	p.timer -= cycles

	if p.timer < 0 {
		p.timer += p.timerTC
		p.cpu.ForceCall(p.file.PlayAddress)
	}

	p.apu.Tick(cycles)

	p.chunkSoFar += uint64(cycles)
	if p.chunkSoFar >= p.chunkCycles {
		p.chunkSoFar -= p.chunkCycles
		p.limiter.WaitForNextChunk()
	}

	return nil
}

// Run drives the player loop until quit is called or Step returns an
// error. Pacing comes from two places: the installed Limiter throttles
// one chunk of cycles per real-time chunk duration (see SetLimiter), and
// for a live sink the APU's own buffer flush additionally blocks once
// the ring in gbsplay/pcm.LiveSink fills (spec.md §5).
func (p *Player) Run() error {
	for !p.quit.Load() {
		if err := p.Step(); err != nil {
			return err
		}
	}
	p.apu.Flush()
	return nil
}

// Quit requests that Run stop after its current iteration and flush any
// buffered samples. Safe to call from a different goroutine than Run
// (e.g. a TUI key handler or a --duration timer).
func (p *Player) Quit() { p.quit.Store(true) }

// TotalCycles returns the number of emulated CPU cycles elapsed so far,
// mostly useful for a --duration flag or TUI elapsed-time display.
func (p *Player) TotalCycles() uint64 { return p.totalCycles }

// File returns the GBS file metadata this player was loaded from.
func (p *Player) File() *gbs.File { return p.file }

// Subsong returns the 1-based subsong index currently playing.
func (p *Player) Subsong() int { return p.subsong }

// APU exposes the underlying APU for TUI channel mute/solo controls.
func (p *Player) APU() *audio.APU { return p.apu }

// LogState emits a debug-level snapshot of the player's progress, in
// the teacher's style of periodic slog.Debug frame logging.
func (p *Player) LogState() {
	slog.Debug("player tick",
		"cycles", p.totalCycles,
		"pc", fmt.Sprintf("0x%04X", p.cpu.PC()),
		"subsong", p.subsong,
	)
}
