package gbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHeader(t *testing.T) []byte {
	t.Helper()
	data := make([]byte, headerSize+16)
	copy(data[offMagic:], "GBS")
	data[offVersion] = 1
	data[offSubsongCount] = 3
	data[offDefaultSubsong] = 1
	data[offLoadAddress] = 0x00
	data[offLoadAddress+1] = 0x40
	data[offInitAddress] = 0x00
	data[offInitAddress+1] = 0x40
	data[offPlayAddress] = 0x10
	data[offPlayAddress+1] = 0x40
	data[offStackPointer] = 0xFE
	data[offStackPointer+1] = 0xFF
	data[offTimerModulo] = 0xC0
	data[offTimerControl] = 0x04
	copy(data[offTitle:], "Test Song")
	copy(data[offCode:], []byte{0xDE, 0xAD, 0xBE, 0xEF})
	return data
}

func TestParseValidHeader(t *testing.T) {
	data := buildHeader(t)
	f, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 3, f.SubsongCount)
	assert.Equal(t, uint16(0x4000), f.LoadAddress)
	assert.Equal(t, uint16(0x4000), f.InitAddress)
	assert.Equal(t, uint16(0x4010), f.PlayAddress)
	assert.Equal(t, uint16(0xFFFE), f.StackPointer)
	assert.Equal(t, "Test Song", f.Title)
	assert.Equal(t, append([]byte{0xDE, 0xAD, 0xBE, 0xEF}, make([]byte, 12)...), f.ROM)
}

func TestParseBadMagic(t *testing.T) {
	data := buildHeader(t)
	data[0] = 'X'
	_, err := Parse(data)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestParseTruncated(t *testing.T) {
	_, err := Parse([]byte{'G', 'B', 'S'})
	assert.ErrorIs(t, err, ErrTruncatedHeader)
}

func TestValidateSubsongOutOfRange(t *testing.T) {
	data := buildHeader(t)
	f, err := Parse(data)
	require.NoError(t, err)

	assert.NoError(t, f.ValidateSubsong(1))
	assert.NoError(t, f.ValidateSubsong(3))

	err = f.ValidateSubsong(4)
	var rangeErr *ErrSubsongOutOfRange
	assert.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, 4, rangeErr.Requested)
}

func TestTimerTCDefault(t *testing.T) {
	f := &File{TimerControl: 0}
	assert.Equal(t, 70256, f.TimerTC())
}

func TestTimerTCCustom(t *testing.T) {
	// modulo=0xC0, ctrl bit2 set with ctrl=0x05 -> shift=((5+3)&3)=0 -> 16<<0=16
	f := &File{TimerModulo: 0xC0, TimerControl: 0x05}
	assert.Equal(t, (256-0xC0)*16, f.TimerTC())
}
