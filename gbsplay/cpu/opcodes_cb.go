package cpu

// init builds the entire CB-prefixed table. Every CB opcode follows the
// same operand encoding as the primary LD grid (operand in the low 3
// bits, ordered B,C,D,E,H,L,(HL),A), which makes the whole 256-entry
// table mechanical to generate from two small tables of row functions.
func init() {
	t := &cbTable

	rotateShiftOps := [8]func(*CPU, *uint8){
		(*CPU).rlc, (*CPU).rrc, (*CPU).rl, (*CPU).rr,
		(*CPU).sla, (*CPU).sra, (*CPU).swap, (*CPU).srl,
	}
	gridRegs := [8]reg8{reg8B, reg8C, reg8D, reg8E, reg8H, reg8L, reg8HL, reg8A}

	for row, op := range rotateShiftOps {
		for col, reg := range gridRegs {
			opcode := uint8(row*8 + col)
			r, f := reg, op
			t[opcode] = func(c *CPU) int {
				c.modifyReg8(r, func(v *uint8) { f(c, v) })
				if r == reg8HL {
					return 16
				}
				return 8
			}
		}
	}

	// BIT b,r: 0x40-0x7F.
	for bit := uint8(0); bit < 8; bit++ {
		for col, reg := range gridRegs {
			opcode := 0x40 + bit*8 + uint8(col)
			b, r := bit, reg
			t[opcode] = func(c *CPU) int {
				c.bitTest(b, c.getReg8(r))
				if r == reg8HL {
					return 12
				}
				return 8
			}
		}
	}

	// RES b,r: 0x80-0xBF.
	for bit := uint8(0); bit < 8; bit++ {
		for col, reg := range gridRegs {
			opcode := 0x80 + bit*8 + uint8(col)
			b, r := bit, reg
			t[opcode] = func(c *CPU) int {
				c.setReg8(r, resBit(b, c.getReg8(r)))
				if r == reg8HL {
					return 16
				}
				return 8
			}
		}
	}

	// SET b,r: 0xC0-0xFF.
	for bit := uint8(0); bit < 8; bit++ {
		for col, reg := range gridRegs {
			opcode := 0xC0 + bit*8 + uint8(col)
			b, r := bit, reg
			t[opcode] = func(c *CPU) int {
				c.setReg8(r, setBit(b, c.getReg8(r)))
				if r == reg8HL {
					return 16
				}
				return 8
			}
		}
	}
}
