package uictl

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Dial is a control that can read some value.
type Dial[N Number] interface {
	Read() N
}

// CappedDial is a Dial with a maximum cap value.
type CappedDial[N Number] interface {
	Dial[N]
	Cap() (num, max N)
}

// Clamp limits v to [lo, hi].
func Clamp[N Number](v, lo, hi N) N {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Fill reports how far a capped dial is through its range, in [0, 1].
func Fill[N Number](d CappedDial[N]) float64 {
	num, max := d.Cap()
	if max <= 0 {
		return 0
	}
	return Clamp(float64(num)/float64(max), 0, 1)
}
