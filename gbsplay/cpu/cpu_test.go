package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ujjwalsh/gbsplay/gbsplay/memory"
)

func newTestCPU() (*CPU, *memory.MMU) {
	mmu := memory.New()
	return New(mmu), mmu
}

func TestDecodeNOP(t *testing.T) {
	c, mmu := newTestCPU()
	mmu.LoadROM([]byte{0x00})
	c.pc = 0
	op := Decode(c)
	assert.NotNil(t, op)
	assert.Equal(t, uint16(0x00), c.currentOpcode)
	assert.Equal(t, uint16(1), c.pc)
}

func TestDecodeCBPrefix(t *testing.T) {
	c, mmu := newTestCPU()
	mmu.LoadROM([]byte{0xCB, 0x40})
	c.pc = 0
	op := Decode(c)
	assert.NotNil(t, op)
	assert.Equal(t, uint16(0xCB40), c.currentOpcode)
	assert.Equal(t, uint16(2), c.pc)
}

func TestUnknownOpcodeDAA(t *testing.T) {
	c, mmu := newTestCPU()
	mmu.LoadROM([]byte{0x27})
	c.pc = 0
	_, err := c.Step()
	assert.Error(t, err)
	var unkErr *UnknownOpcodeError
	assert.ErrorAs(t, err, &unkErr)
	assert.Equal(t, uint16(0x27), unkErr.Opcode)
}

func TestUnknownOpcodeBF(t *testing.T) {
	c, mmu := newTestCPU()
	mmu.LoadROM([]byte{0xBF})
	c.pc = 0
	_, err := c.Step()
	assert.Error(t, err, "0xBF is left undefined by the GBS driver source")
}

func TestRLCAClearsZeroFlag(t *testing.T) {
	c, _ := newTestCPU()
	c.a = 0
	c.setFlag(zeroFlag)
	c.rlca()
	assert.False(t, c.isSetFlag(zeroFlag), "RLCA must clear Z even when the result is 0")
}

func TestIncSetsHalfCarryAtNibbleBoundary(t *testing.T) {
	c, _ := newTestCPU()
	c.b = 0x0F
	c.inc(&c.b)
	assert.Equal(t, uint8(0x10), c.b)
	assert.True(t, c.isSetFlag(halfCarryFlag))
	assert.False(t, c.isSetFlag(zeroFlag))
}

func TestDecSetsZeroFlagAtWraparound(t *testing.T) {
	c, _ := newTestCPU()
	c.b = 0x01
	c.dec(&c.b)
	assert.Equal(t, uint8(0), c.b)
	assert.True(t, c.isSetFlag(zeroFlag))
	assert.True(t, c.isSetFlag(subFlag))
}

func TestAddToHLSetsCarryOnOverflow(t *testing.T) {
	c, _ := newTestCPU()
	c.setHL(0xFFFF)
	c.addToHL(1)
	assert.Equal(t, uint16(0), c.getHL())
	assert.True(t, c.isSetFlag(carryFlag))
	assert.True(t, c.isSetFlag(halfCarryFlag))
}

func TestBitTestAllEightBits(t *testing.T) {
	c, _ := newTestCPU()
	value := uint8(0b1010_0101)
	for i := uint8(0); i < 8; i++ {
		c.bitTest(i, value)
		want := (value>>i)&1 == 0
		assert.Equal(t, want, c.isSetFlag(zeroFlag), "bit %d", i)
		assert.True(t, c.isSetFlag(halfCarryFlag))
		assert.False(t, c.isSetFlag(subFlag))
	}
}

func TestLDSPHLandLDHLSPr8(t *testing.T) {
	c, _ := newTestCPU()
	c.setHL(0xC100)
	op := opcodeTable[0xF9] // LD SP,HL
	op(c)
	assert.Equal(t, uint16(0xC100), c.sp)

	mmu := memory.New()
	c2 := New(mmu)
	mmu.LoadROM([]byte{0x00, 0x02}) // offset +2
	c2.sp = 0xC000
	c2.pc = 1
	op2 := opcodeTable[0xF8] // LD HL,SP+r8
	op2(c2)
	assert.Equal(t, uint16(0xC002), c2.getHL())
}

func TestRSTRebasesToLoadAddress(t *testing.T) {
	c, mmu := newTestCPU()
	mmu.LoadROM(make([]byte, 0x4000))
	c.SetLoadAddress(0x4000)
	c.sp = 0xDFFF
	c.pc = 0x4010
	op := opcodeTable[0xC7] // RST 00
	op(c)
	assert.Equal(t, uint16(0x4000), c.pc)
}

func TestPushPopRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.sp = 0xDFFE
	c.setBC(0xBEEF)
	opcodeTable[0xC5](c) // PUSH BC
	c.setBC(0)
	opcodeTable[0xC1](c) // POP BC
	assert.Equal(t, uint16(0xBEEF), c.getBC())
}

func TestHaltAndForceCall(t *testing.T) {
	c, _ := newTestCPU()
	c.halted = true
	c.pc = 0x4005
	c.sp = 0xDFFE
	c.ForceCall(0x4010)
	assert.False(t, c.Halted())
	assert.Equal(t, uint16(0x4010), c.pc)
}
