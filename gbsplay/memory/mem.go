// Package memory implements the 16-bit address space the GBS driver
// code executes against: banked ROM, VRAM/external-RAM stubs, internal
// RAM (with its echo), the I/O register file (routing the audio range
// to the APU and the timer range to the Timer), and high RAM.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/ujjwalsh/gbsplay/gbsplay/addr"
	"github.com/ujjwalsh/gbsplay/gbsplay/audio"
)

const (
	romBankSize = 0x4000
	ramSize     = 0x2000 // external RAM and internal RAM are both 8 KiB
	hramSize    = 0x7F   // FF80-FFFE
)

type region uint8

const (
	regionROM0 region = iota
	regionROMBank
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionIO
)

// MMU is the 16-bit address space dispatcher. It owns the ROM image,
// the Audio Processing Unit, the timer, and the scratch RAM regions a
// GBS driver touches.
type MMU struct {
	rom       []byte
	lastBank  uint8
	bank      uint8
	vram      [0x2000]byte // stub: reads 0xFF, writes ignored, never aliased
	extRAM    [ramSize]byte
	wram      [ramSize]byte
	hram      [hramSize]byte
	ie        byte // FFFF
	APU       *audio.APU
	Timer     *Timer
	regionMap [256]region
}

// defaultSampleRate is used until the player configures a real sink via
// ConfigureAudio; it keeps New() usable on its own for tests.
const defaultSampleRate = 44100

// New creates an MMU with no ROM loaded (every ROM read returns 0xFF)
// and an APU rendering silently at defaultSampleRate until a sink is
// attached with ConfigureAudio.
func New() *MMU {
	m := &MMU{
		APU:   audio.New(defaultSampleRate, nil),
		Timer: NewTimer(),
	}
	m.initRegionMap()
	return m
}

// ConfigureAudio replaces the MMU's APU with one rendering at
// sampleRate and flushing completed buffers to sink.
func (m *MMU) ConfigureAudio(sampleRate int, sink audio.Sink) {
	m.APU = audio.New(sampleRate, sink)
}

// LoadROM installs a ROM image, sized up to a multiple of 16 KiB, and
// resets bank selection to bank 1.
func (m *MMU) LoadROM(rom []byte) {
	size := len(rom)
	if rem := size % romBankSize; rem != 0 {
		size += romBankSize - rem
	}
	if size == 0 {
		size = romBankSize
	}
	padded := make([]byte, size)
	copy(padded, rom)
	m.rom = padded

	banks := uint8(size / romBankSize)
	if banks == 0 {
		banks = 1
	}
	m.lastBank = banks - 1
	if m.lastBank == 0 {
		m.lastBank = 1
	}
	m.bank = 1
}

func (m *MMU) initRegionMap() {
	for i := 0x00; i <= 0x3F; i++ {
		m.regionMap[i] = regionROM0
	}
	for i := 0x40; i <= 0x7F; i++ {
		m.regionMap[i] = regionROMBank
	}
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	m.regionMap[0xFE] = regionIO
	m.regionMap[0xFF] = regionIO
}

// Read reads a byte from the address space. Every read charges 4 cycles
// of emulation time onto the CPU that calls it; the CPU is responsible
// for accounting those cycles (see cpu.CPU.Step).
func (m *MMU) Read(address uint16) byte {
	switch m.regionMap[address>>8] {
	case regionROM0:
		return m.romAt(address)
	case regionROMBank:
		return m.romAt(address)
	case regionVRAM:
		return 0xFF
	case regionExtRAM:
		return m.extRAM[address&0x1FFF]
	case regionWRAM:
		return m.wram[address&0x1FFF]
	case regionEcho:
		return m.wram[address&0x1FFF]
	case regionIO:
		return m.readIO(address)
	}
	return 0xFF
}

func (m *MMU) romAt(address uint16) byte {
	if len(m.rom) == 0 {
		return 0xFF
	}
	if address < 0x4000 {
		if int(address) >= len(m.rom) {
			return 0xFF
		}
		return m.rom[address]
	}
	offset := int(address-0x4000) + int(m.bank)*romBankSize
	if offset >= len(m.rom) {
		return 0xFF
	}
	return m.rom[offset]
}

func (m *MMU) readIO(address uint16) byte {
	switch {
	case address == addr.IE:
		return m.ie
	case address >= addr.HighRAMStart && address <= 0xFFFE:
		return m.hram[address-addr.HighRAMStart]
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		return m.Timer.Read(address)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return m.APU.ReadRegister(address)
	default:
		slog.Debug("read from unmapped I/O register", "addr", fmt.Sprintf("0x%04X", address))
		return 0xFF
	}
}

// Write writes a byte to the address space, charging 4 cycles the same
// way Read does.
func (m *MMU) Write(address uint16, value byte) {
	switch m.regionMap[address>>8] {
	case regionROM0, regionROMBank:
		m.writeROM(address, value)
	case regionVRAM:
		// stubbed out: GBS playback never reads video back.
	case regionExtRAM:
		m.extRAM[address&0x1FFF] = value
	case regionWRAM:
		m.wram[address&0x1FFF] = value
	case regionEcho:
		m.wram[address&0x1FFF] = value
	case regionIO:
		m.writeIO(address, value)
	}
}

func (m *MMU) writeROM(address uint16, value byte) {
	if address < 0x2000 || address > 0x3FFF {
		return // ROM is read-only outside the bank-select window
	}
	bank := value & 0x1F
	if bank == 0 {
		bank = 1
	}
	if bank > m.lastBank {
		slog.Warn("ROM bank select out of range, clamping",
			"requested", fmt.Sprintf("0x%02X", bank),
			"last_bank", fmt.Sprintf("0x%02X", m.lastBank))
		bank = m.lastBank
	}
	m.bank = bank
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch {
	case address == addr.IE:
		m.ie = value
	case address >= addr.HighRAMStart && address <= 0xFFFE:
		m.hram[address-addr.HighRAMStart] = value
	case address == addr.DIV || address == addr.TIMA || address == addr.TMA || address == addr.TAC:
		m.Timer.Write(address, value)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		m.APU.WriteRegister(address, value)
	default:
		slog.Debug("write to unmapped I/O register", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
	}
}

// CurrentBank returns the ROM bank currently mapped at 0x4000-0x7FFF.
func (m *MMU) CurrentBank() uint8 {
	return m.bank
}
