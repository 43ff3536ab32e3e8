package cpu

// Opcode is a single instruction handler. It receives the CPU with PC
// already advanced past the opcode byte(s) and returns the number of
// cycles the instruction took.
type Opcode func(*CPU) int

var opcodeTable [256]Opcode
var cbTable [256]Opcode

// Decode fetches the next instruction, advancing PC past its opcode
// byte(s) (including the 0xCB prefix byte, if present) and recording
// the full opcode value in cpu.currentOpcode. It returns nil when no
// handler exists for the fetched byte.
func Decode(c *CPU) Opcode {
	first := c.readImmediate()
	if first == 0xCB {
		second := c.readImmediate()
		c.currentOpcode = 0xCB00 | uint16(second)
		return cbTable[second]
	}
	c.currentOpcode = uint16(first)
	return opcodeTable[first]
}
