// Package param binds editable operator fields to a uniform editing and
// rendering contract. A Descriptor knows one field's range and how to print
// it, so encoder and display code can drive any field without knowing what
// it means.
//
// Descriptors are not safe for concurrent use; serialize access through a
// single owner.
package param

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/alkime/opledit/internal/opl3"
	"github.com/alkime/opledit/pkg/uictl"
)

// OperatorPlaceholder is substituted with the operator number in name templates.
const OperatorPlaceholder = "{op}"

// ErrOutOfRange is returned by Validate for values outside [0, Max()).
var ErrOutOfRange = errors.New("value out of range")

// field reads and writes one scalar of an operator record. Implementations
// are zero-size, so storing one in a Descriptor does not allocate.
type field interface {
	get(op *opl3.OperatorSetup) int
	set(op *opl3.OperatorSetup, v int)
	width() int
}

// Descriptor is an editable binding to one field of one operator.
type Descriptor struct {
	op       *opl3.OperatorSetup
	field    field
	kind     Kind
	index    int
	max      int
	template string
	name     string
	labels   []string
}

func bind(kind Kind, op *opl3.OperatorSetup, index int, f field, max int, template string, labels []string) *Descriptor {
	if op == nil {
		panic("param: nil operator")
	}
	if max < 1 {
		panic(fmt.Sprintf("param: %s: max %d must be positive", kind, max))
	}
	if bits.Len(uint(max-1)) > f.width() {
		panic(fmt.Sprintf("param: %s: max %d does not fit a %d-bit field", kind, max, f.width()))
	}
	if labels != nil && len(labels) < max {
		panic(fmt.Sprintf("param: %s: %d labels for %d values", kind, len(labels), max))
	}

	return &Descriptor{
		op:       op,
		field:    f,
		kind:     kind,
		index:    index,
		max:      max,
		template: template,
		name:     formatName(template, index),
		labels:   labels,
	}
}

func formatName(template string, index int) string {
	return strings.Replace(template, OperatorPlaceholder, strconv.Itoa(index), 1)
}

// Kind reports which operator field the descriptor edits.
func (d *Descriptor) Kind() Kind { return d.kind }

// Operator returns the operator number used in the name.
func (d *Descriptor) Operator() int { return d.index }

// Max returns the exclusive upper bound of the value domain.
func (d *Descriptor) Max() int { return d.max }

// Labels returns the label table, or nil for numeric fields.
func (d *Descriptor) Labels() []string { return d.labels }

// Value returns the raw value of the bound field.
func (d *Descriptor) Value() int {
	return d.field.get(d.op)
}

// SetValue writes v to the bound field. Values outside [0, Max()) are a
// programming error and panic; interactive edits go through OnEncoderDelta.
func (d *Descriptor) SetValue(v int) {
	if err := d.Validate(v); err != nil {
		panic("param: " + err.Error())
	}
	d.field.set(d.op, v)
}

// Validate reports whether v may be passed to SetValue.
func (d *Descriptor) Validate(v int) error {
	if v < 0 || v >= d.max {
		return fmt.Errorf("%s: %d not in [0, %d): %w", d.name, v, d.max, ErrOutOfRange)
	}
	return nil
}

// OnEncoderDelta moves the value by delta steps, saturating at 0 and Max()-1.
func (d *Descriptor) OnEncoderDelta(delta int) {
	d.SetValue(step(d.Value(), delta, d.max-1))
}

// step adds delta to cur without overflowing for extreme deltas.
func step(cur, delta, hi int) int {
	switch {
	case delta > 0 && delta > hi-cur:
		return hi
	case delta < 0 && delta < -cur:
		return 0
	}
	return uictl.Clamp(cur+delta, 0, hi)
}

// Name returns the display name with the operator number filled in.
func (d *Descriptor) Name() string { return d.name }

// Text returns the display text for the current value: its label when the
// table has one, hexadecimal otherwise.
func (d *Descriptor) Text() string {
	v := d.Value()
	if v >= 0 && v < len(d.labels) && d.labels[v] != "" {
		return d.labels[v]
	}
	return hexString(v, d.max)
}

// hexString formats v in lowercase hex, zero-padded to the width of max-1.
func hexString(v, max int) string {
	s := strconv.FormatInt(int64(v), 16)
	width := len(strconv.FormatInt(int64(max-1), 16))
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// ParamString writes the name into buf as a NUL-terminated string, truncated
// to fit, and returns the number of bytes before the terminator.
func (d *Descriptor) ParamString(buf []byte) int {
	return putString(buf, d.name)
}

// ValueString writes the value text into buf with the same contract as
// ParamString.
func (d *Descriptor) ValueString(buf []byte) int {
	return putString(buf, d.Text())
}

func putString(buf []byte, s string) int {
	if len(buf) == 0 {
		return 0
	}
	n := copy(buf[:len(buf)-1], s)
	buf[n] = 0
	return n
}

// Read implements uictl.Dial.
func (d *Descriptor) Read() int { return d.Value() }

// Cap implements uictl.CappedDial.
func (d *Descriptor) Cap() (num, max int) { return d.Value(), d.max - 1 }

var _ uictl.CappedDial[int] = (*Descriptor)(nil)
