package cpu

import "github.com/ujjwalsh/gbsplay/gbsplay/bit"

// Shared ALU/rotate/shift/bit helpers used by both the explicit opcode
// handlers and the table-generated ones in opcodes.go / opcodes_cb.go.

func (c *CPU) pushStack(v uint16) {
	c.sp--
	c.bus.Write(c.sp, uint8(v>>8))
	c.sp--
	c.bus.Write(c.sp, uint8(v))
}

func (c *CPU) popStack() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return uint16(high)<<8 | uint16(low)
}

func (c *CPU) inc(r *uint8) {
	*r++
	v := *r
	c.setFlagToCondition(zeroFlag, v == 0)
	c.setFlagToCondition(halfCarryFlag, v&0xF == 0)
	c.resetFlag(subFlag)
}

func (c *CPU) dec(r *uint8) {
	*r--
	v := *r
	c.setFlagToCondition(zeroFlag, v == 0)
	c.setFlagToCondition(halfCarryFlag, v&0xF == 0xF)
	c.setFlag(subFlag)
}

// rlca/rla/rrca/rra-style rotates (0x07/0x17/0x0F/0x1F) always clear
// the zero flag, unlike their CB-prefixed siblings which set it from
// the result. The original GBS player source gets this wrong; spec.md
// §4.2 calls for the corrected behavior.
func (c *CPU) rlca() {
	v := c.a
	carry := v>>7 == 1
	c.a = (v << 1) | v>>7
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) rla() {
	v := c.a
	carryIn := c.flagToBit(carryFlag)
	carryOut := v>>7 == 1
	c.a = (v << 1) | carryIn
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carryOut)
}

func (c *CPU) rrca() {
	v := c.a
	carry := v&1 == 1
	c.a = (v >> 1) | (v&1)<<7
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) rra() {
	v := c.a
	carryIn := c.flagToBit(carryFlag)
	carryOut := v&1 == 1
	c.a = (v >> 1) | carryIn<<7
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carryOut)
}

func (c *CPU) rlc(r *uint8) {
	v := *r
	carry := v>>7 == 1
	v = (v << 1) | v>>7
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) rl(r *uint8) {
	v := *r
	carryIn := c.flagToBit(carryFlag)
	carryOut := v>>7 == 1
	v = (v << 1) | carryIn
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carryOut)
}

func (c *CPU) rrc(r *uint8) {
	v := *r
	carry := v&1 == 1
	v = (v >> 1) | (v&1)<<7
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) rr(r *uint8) {
	v := *r
	carryIn := c.flagToBit(carryFlag)
	carryOut := v&1 == 1
	v = (v >> 1) | carryIn<<7
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carryOut)
}

func (c *CPU) sla(r *uint8) {
	v := *r
	carry := v>>7 == 1
	v <<= 1
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) sra(r *uint8) {
	v := *r
	carry := v&1 == 1
	v = (v >> 1) | (v & 0x80)
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) srl(r *uint8) {
	v := *r
	carry := v&1 == 1
	v >>= 1
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) swap(r *uint8) {
	v := *r
	v = (v << 4) | (v >> 4)
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) bitTest(index uint8, value uint8) {
	c.setFlagToCondition(zeroFlag, !bit.IsSet(index, value))
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

func setBit(index uint8, value uint8) uint8 {
	return bit.Set(index, value)
}

func resBit(index uint8, value uint8) uint8 {
	return bit.Reset(index, value)
}

func (c *CPU) addToA(value uint8) {
	a := c.a
	result := a + value
	carry := uint16(a)+uint16(value) > 0xFF
	halfCarry := (a&0xF)+(value&0xF) > 0xF
	c.a = result
	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, halfCarry)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) adc(value uint8) {
	a := c.a
	carryIn := c.flagToBit(carryFlag)
	result := uint16(a) + uint16(value) + uint16(carryIn)
	halfCarry := (a&0xF)+(value&0xF)+carryIn > 0xF
	c.a = uint8(result)
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, halfCarry)
	c.setFlagToCondition(carryFlag, result > 0xFF)
}

func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()
	result := uint32(hl) + uint32(value)
	halfCarry := (hl&0xFFF)+(value&0xFFF) > 0xFFF
	c.setHL(uint16(result))
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, halfCarry)
	c.setFlagToCondition(carryFlag, result > 0xFFFF)
}

func (c *CPU) sub(value uint8) {
	a := c.a
	c.a = a - value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(carryFlag, value > a)
	c.setFlagToCondition(halfCarryFlag, (a&0xF) < (value&0xF))
}

func (c *CPU) sbc(value uint8) {
	a := c.a
	carry := int(c.flagToBit(carryFlag))
	result := int(a) - int(value) - carry
	c.a = uint8(result)
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(carryFlag, result < 0)
	c.setFlagToCondition(halfCarryFlag, (int(a)&0xF)-(int(value)&0xF)-carry < 0)
}

func (c *CPU) cp(value uint8) {
	a := c.a
	c.setFlagToCondition(zeroFlag, a == value)
	c.setFlag(subFlag)
	c.setFlagToCondition(carryFlag, value > a)
	c.setFlagToCondition(halfCarryFlag, (a&0xF) < (value&0xF))
}

func (c *CPU) and(value uint8) {
	c.a &= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) or(value uint8) {
	c.a |= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

// addSPSigned implements the SP+r8 addressing used by 0xE8 (ADD SP,r8)
// and 0xF8 (LD HL,SP+r8): flags are computed from the low byte addition,
// per the documented (if surprising) hardware behavior.
func (c *CPU) addSPSigned(offset int8) uint16 {
	sp := c.sp
	result := uint16(int32(sp) + int32(offset))
	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (sp&0xF)+(uint16(uint8(offset))&0xF) > 0xF)
	c.setFlagToCondition(carryFlag, (sp&0xFF)+uint16(uint8(offset)) > 0xFF)
	return result
}
