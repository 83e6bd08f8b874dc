package opl3

// NumOperators is the operator count of an OPL3 four-operator voice.
const NumOperators = 4

// Patch is a named voice. Operators are indexed from zero; display
// numbering starts at one.
type Patch struct {
	Name      string
	Operators [NumOperators]OperatorSetup
}

// NewPatch returns a patch with every operator at a usable default: sine
// wave, multiplier 1, fast attack and full sustain.
func NewPatch(name string) *Patch {
	p := &Patch{Name: name}
	for i := range p.Operators {
		p.Operators[i] = OperatorSetup{
			Waveform: WaveSine,
			Mult:     1,
			AR:       0x0f,
			DR:       0x04,
			SL:       0x00,
			RR:       0x06,
		}
	}
	return p
}

// Operator returns the operator with the given 1-based number, or nil when
// the number is out of range.
func (p *Patch) Operator(number int) *OperatorSetup {
	if number < 1 || number > NumOperators {
		return nil
	}
	return &p.Operators[number-1]
}
