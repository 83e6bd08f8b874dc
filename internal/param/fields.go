package param

import "github.com/alkime/opledit/internal/opl3"

// Kind identifies an editable operator field.
type Kind int

const (
	KindWaveform Kind = iota
	KindMultiplier
	KindEnvScaling
	KindSustainHold
	KindVibrato
	KindTremolo
	KindAttack
	KindDecay
	KindSustain
	KindRelease

	numKinds
)

// EnvelopeLevels is the value count of the 4-bit envelope rates and levels.
const EnvelopeLevels = 0x10

var (
	WaveformLabels = []string{
		"Sine",
		"HalfSine",
		"AbsSine",
		"PulseSine",
	}

	// MultiplierLabels follows the chip's MULT table, where codes 10/11,
	// 12/13 and 14/15 select the same ratio.
	MultiplierLabels = []string{
		"0.5",
		"1",
		"2",
		"3",
		"4",
		"5",
		"6",
		"7",
		"8",
		"9",
		"10",
		"10",
		"12",
		"12",
		"15",
		"15",
	}

	SwitchLabels = []string{
		"OFF",
		"ON",
	}
)

type kindInfo struct {
	name     string
	template string
	field    field
	max      int
	labels   []string
}

var kinds = [numKinds]kindInfo{
	KindWaveform:    {"waveform", "OP{op} Waveform", waveformField{}, len(WaveformLabels), WaveformLabels},
	KindMultiplier:  {"multiplier", "OP{op} Freq Mult", multField{}, len(MultiplierLabels), MultiplierLabels},
	KindEnvScaling:  {"env-scaling", "OP{op} Env Scale", ksrField{}, len(SwitchLabels), SwitchLabels},
	KindSustainHold: {"sustain-hold", "OP{op} Sus Hold", egtField{}, len(SwitchLabels), SwitchLabels},
	KindVibrato:     {"vibrato", "OP{op} Vibrato", vibField{}, len(SwitchLabels), SwitchLabels},
	KindTremolo:     {"tremolo", "OP{op} Tremolo", amField{}, len(SwitchLabels), SwitchLabels},
	KindAttack:      {"attack", "OP{op} Attack", arField{}, EnvelopeLevels, nil},
	KindDecay:       {"decay", "OP{op} Decay", drField{}, EnvelopeLevels, nil},
	KindSustain:     {"sustain", "OP{op} Sustain", slField{}, EnvelopeLevels, nil},
	KindRelease:     {"release", "OP{op} Release", rrField{}, EnvelopeLevels, nil},
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kinds[k].name
}

// Kinds lists every kind in menu order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// New builds the descriptor of the given kind for operator op, shown as
// operator number index. It panics on an unknown kind.
func New(kind Kind, op *opl3.OperatorSetup, index int) *Descriptor {
	if kind < 0 || kind >= numKinds {
		panic("param: unknown kind")
	}
	s := kinds[kind]
	return bind(kind, op, index, s.field, s.max, s.template, s.labels)
}

func NewWaveform(op *opl3.OperatorSetup, index int) *Descriptor {
	return New(KindWaveform, op, index)
}

func NewMultiplier(op *opl3.OperatorSetup, index int) *Descriptor {
	return New(KindMultiplier, op, index)
}

func NewEnvScaling(op *opl3.OperatorSetup, index int) *Descriptor {
	return New(KindEnvScaling, op, index)
}

func NewSustainHold(op *opl3.OperatorSetup, index int) *Descriptor {
	return New(KindSustainHold, op, index)
}

func NewVibrato(op *opl3.OperatorSetup, index int) *Descriptor {
	return New(KindVibrato, op, index)
}

func NewTremolo(op *opl3.OperatorSetup, index int) *Descriptor {
	return New(KindTremolo, op, index)
}

func NewAttack(op *opl3.OperatorSetup, index int) *Descriptor {
	return New(KindAttack, op, index)
}

func NewDecay(op *opl3.OperatorSetup, index int) *Descriptor {
	return New(KindDecay, op, index)
}

func NewSustain(op *opl3.OperatorSetup, index int) *Descriptor {
	return New(KindSustain, op, index)
}

func NewRelease(op *opl3.OperatorSetup, index int) *Descriptor {
	return New(KindRelease, op, index)
}

// Field bindings. Narrowing to uint8 is lossless because bind checks that
// the domain fits width().

type waveformField struct{}

func (waveformField) get(op *opl3.OperatorSetup) int    { return int(op.Waveform) }
func (waveformField) set(op *opl3.OperatorSetup, v int) { op.Waveform = opl3.Waveform(v) }
func (waveformField) width() int                        { return opl3.WaveformBits }

type multField struct{}

func (multField) get(op *opl3.OperatorSetup) int    { return int(op.Mult) }
func (multField) set(op *opl3.OperatorSetup, v int) { op.Mult = uint8(v) }
func (multField) width() int                        { return opl3.MultBits }

type ksrField struct{}

func (ksrField) get(op *opl3.OperatorSetup) int    { return int(op.KSR) }
func (ksrField) set(op *opl3.OperatorSetup, v int) { op.KSR = uint8(v) }
func (ksrField) width() int                        { return opl3.FlagBits }

type egtField struct{}

func (egtField) get(op *opl3.OperatorSetup) int    { return int(op.EGT) }
func (egtField) set(op *opl3.OperatorSetup, v int) { op.EGT = uint8(v) }
func (egtField) width() int                        { return opl3.FlagBits }

type vibField struct{}

func (vibField) get(op *opl3.OperatorSetup) int    { return int(op.Vib) }
func (vibField) set(op *opl3.OperatorSetup, v int) { op.Vib = uint8(v) }
func (vibField) width() int                        { return opl3.FlagBits }

type amField struct{}

func (amField) get(op *opl3.OperatorSetup) int    { return int(op.AM) }
func (amField) set(op *opl3.OperatorSetup, v int) { op.AM = uint8(v) }
func (amField) width() int                        { return opl3.FlagBits }

type arField struct{}

func (arField) get(op *opl3.OperatorSetup) int    { return int(op.AR) }
func (arField) set(op *opl3.OperatorSetup, v int) { op.AR = uint8(v) }
func (arField) width() int                        { return opl3.EnvelopeBits }

type drField struct{}

func (drField) get(op *opl3.OperatorSetup) int    { return int(op.DR) }
func (drField) set(op *opl3.OperatorSetup, v int) { op.DR = uint8(v) }
func (drField) width() int                        { return opl3.EnvelopeBits }

type slField struct{}

func (slField) get(op *opl3.OperatorSetup) int    { return int(op.SL) }
func (slField) set(op *opl3.OperatorSetup, v int) { op.SL = uint8(v) }
func (slField) width() int                        { return opl3.EnvelopeBits }

type rrField struct{}

func (rrField) get(op *opl3.OperatorSetup) int    { return int(op.RR) }
func (rrField) set(op *opl3.OperatorSetup, v int) { op.RR = uint8(v) }
func (rrField) width() int                        { return opl3.EnvelopeBits }
