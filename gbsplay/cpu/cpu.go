// Package cpu implements enough of the Sharp LR35902 instruction set to
// run a GBS driver's init/play routines: the full primary and
// CB-prefixed opcode tables, flag semantics, and a step loop. It does
// not deliver real hardware interrupts (spec.md §4.4) — EI/DI/HALT are
// tracked as plain state so driver code that touches them behaves
// sensibly, but nothing ever vectors to an interrupt handler.
package cpu

import (
	"fmt"

	"github.com/ujjwalsh/gbsplay/gbsplay/bit"
	"github.com/ujjwalsh/gbsplay/gbsplay/memory"
)

// Flag is one of the four bits of the F register.
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// CPU holds the full register file plus the small amount of state
// needed to run a GBS driver without real interrupt delivery.
type CPU struct {
	bus *memory.MMU

	a, f          uint8
	b, c          uint8
	d, e          uint8
	h, l          uint8
	sp, pc        uint16
	currentOpcode uint16

	interruptsEnabled bool
	eiPending         bool
	halted            bool

	// loadAddress rebases RST targets. A real DMG always has a BIOS at
	// address 0; a GBS file has none, so RST n must jump into the
	// loaded driver image at loadAddress+n rather than into empty ROM
	// (spec.md §4.2).
	loadAddress uint16
}

// New returns a CPU wired to the given bus, with every register zeroed.
// Callers load a GBS subsong's initial register state separately (see
// package player).
func New(bus *memory.MMU) *CPU {
	return &CPU{bus: bus}
}

// SetLoadAddress sets the base address RST targets are rebased against.
func (c *CPU) SetLoadAddress(addr uint16) { c.loadAddress = addr }

// UnknownOpcodeError is returned by Step when the fetched opcode has no
// handler. The GBS driver has executed something this emulator does not
// implement (besides the opcodes undefined on the hardware, DAA and 0xBF
// are left without handlers); playback cannot continue meaningfully past
// this point.
type UnknownOpcodeError struct {
	Opcode  uint16
	Address uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%04X at 0x%04X", e.Opcode, e.Address)
}

// Step fetches, decodes and executes a single instruction, returning the
// number of cycles it took. If the CPU is halted it simply burns 16
// cycles — nothing ever wakes it except the player loop's synthetic
// timer callback (see package player), which forces execution to
// play_address regardless of halted state.
func (c *CPU) Step() (int, error) {
	if c.halted {
		return 16, nil
	}

	pcBefore := c.pc
	op := Decode(c)
	if op == nil {
		return 0, &UnknownOpcodeError{Opcode: c.currentOpcode, Address: pcBefore}
	}

	cycles := op(c)

	if c.eiPending {
		c.eiPending = false
		c.interruptsEnabled = true
	}

	return cycles, nil
}

// Halted reports whether the CPU is parked in a HALT loop.
func (c *CPU) Halted() bool { return c.halted }

// PushWord pushes a literal 16-bit value onto the stack, the way
// subsong setup seeds the init routine's synthetic return address
// without actually executing a CALL (spec.md §4.5).
func (c *CPU) PushWord(v uint16) { c.pushStack(v) }

// ForceCall pushes the return address onto the stack and jumps PC to
// target, waking the CPU if it was halted. This is how the player loop
// invokes the GBS play routine: not via a real interrupt, but by
// directly synthesizing the call (spec.md §4.4).
func (c *CPU) ForceCall(target uint16) {
	c.halted = false
	c.pushStack(c.pc)
	c.pc = target
}

// SP returns the current stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// SetSP sets the stack pointer.
func (c *CPU) SetSP(v uint16) { c.sp = v }

// PC returns the current program counter.
func (c *CPU) PC() uint16 { return c.pc }

// SetPC sets the program counter.
func (c *CPU) SetPC(v uint16) { c.pc = v }

// SetA sets the accumulator register, used by player subsong setup.
func (c *CPU) SetA(v uint8) { c.a = v }

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &^= uint8(flag)
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

func (c *CPU) getBC() uint16 { return bit.Combine(c.b, c.c) }
func (c *CPU) getDE() uint16 { return bit.Combine(c.d, c.e) }
func (c *CPU) getHL() uint16 { return bit.Combine(c.h, c.l) }
func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f&0xF0) }

func (c *CPU) setBC(v uint16) { c.b, c.c = bit.High(v), bit.Low(v) }
func (c *CPU) setDE(v uint16) { c.d, c.e = bit.High(v), bit.Low(v) }
func (c *CPU) setHL(v uint16) { c.h, c.l = bit.High(v), bit.Low(v) }
func (c *CPU) setAF(v uint16) { c.a, c.f = bit.High(v), bit.Low(v)&0xF0 }

func (c *CPU) readImmediate() uint8 {
	v := c.bus.Read(c.pc)
	c.pc++
	return v
}

func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return uint16(high)<<8 | uint16(low)
}
