// Package opl3 models the per-operator register state of a YMF262 (OPL3) voice.
package opl3

// Waveform selects the operator's oscillator shape (register 0xE0, WS bits).
type Waveform uint8

const (
	WaveSine Waveform = iota
	WaveHalfSine
	WaveAbsSine
	WavePulseSine
)

// Native field widths in bits.
const (
	WaveformBits = 2
	MultBits     = 4
	FlagBits     = 1
	EnvelopeBits = 4
)

// OperatorSetup holds the raw configuration fields of one operator.
// Every field keeps its hardware width; values above it are truncated
// when the register image is built.
type OperatorSetup struct {
	Waveform Waveform
	Mult     uint8 // frequency multiplier code
	KSR      uint8 // envelope scaling
	EGT      uint8 // sustain hold
	Vib      uint8 // vibrato
	AM       uint8 // tremolo
	AR       uint8 // attack rate
	DR       uint8 // decay rate
	SL       uint8 // sustain level
	RR       uint8 // release rate
}

// Register offsets of the per-operator register groups.
const (
	RegFlagsMult  = 0x20
	RegLevel      = 0x40
	RegAttackDec  = 0x60
	RegSustainRel = 0x80
	RegWaveSelect = 0xE0
)

// RegisterBases lists the groups in the order Registers returns them.
var RegisterBases = [5]byte{RegFlagsMult, RegLevel, RegAttackDec, RegSustainRel, RegWaveSelect}

// Registers packs the operator into its five register bytes, ordered as
// RegisterBases. The level register (KSL/TL) is not modelled and stays zero.
func (o *OperatorSetup) Registers() [5]byte {
	var flags byte
	flags |= (o.AM & 1) << 7
	flags |= (o.Vib & 1) << 6
	flags |= (o.EGT & 1) << 5
	flags |= (o.KSR & 1) << 4
	flags |= o.Mult & 0x0f

	return [5]byte{
		flags,
		0,
		(o.AR&0x0f)<<4 | o.DR&0x0f,
		(o.SL&0x0f)<<4 | o.RR&0x0f,
		byte(o.Waveform) & 0x03,
	}
}
