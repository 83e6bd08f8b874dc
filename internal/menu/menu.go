// Package menu arranges parameter descriptors into focusable rows and routes
// encoder input to the focused one.
package menu

import (
	"errors"
	"fmt"

	"github.com/alkime/opledit/internal/opl3"
	"github.com/alkime/opledit/internal/param"
	"github.com/alkime/opledit/pkg/collections"
	"github.com/alkime/opledit/pkg/uictl"
)

// ErrNoRow is returned when a row index does not exist.
var ErrNoRow = errors.New("no such row")

// Row is a redraw snapshot of one descriptor.
type Row struct {
	Index    int    `json:"index"`
	Operator int    `json:"operator"`
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Text     string `json:"text"`
	Value    int    `json:"value"`
	Max      int    `json:"max"`
	Focused  bool   `json:"focused"`

	desc *param.Descriptor
}

// Descriptor returns the descriptor the row was taken from, or nil for a
// detached row.
func (r Row) Descriptor() *param.Descriptor { return r.desc }

// Detached returns a copy of the row without its descriptor, safe to hand
// to goroutines that do not own the menu.
func (r Row) Detached() Row {
	r.desc = nil
	return r
}

// Read implements uictl.Dial.
func (r Row) Read() int { return r.Value }

// Cap implements uictl.CappedDial with the largest legal value as the cap.
func (r Row) Cap() (num, max int) { return r.Value, r.Max - 1 }

var _ uictl.CappedDial[int] = Row{}

// Menu is an ordered list of descriptors with one focused row.
type Menu struct {
	rows  []*param.Descriptor
	focus int
}

// New creates a menu over the given descriptors, focused on the first.
func New(rows ...*param.Descriptor) *Menu {
	return &Menu{rows: rows}
}

// Build lays out one row per editable field for every operator of the patch,
// operator by operator.
func Build(p *opl3.Patch) *Menu {
	kinds := param.Kinds()
	rows := make([]*param.Descriptor, 0, len(p.Operators)*len(kinds))
	for i := range p.Operators {
		for _, k := range kinds {
			rows = append(rows, param.New(k, &p.Operators[i], i+1))
		}
	}
	return New(rows...)
}

// Len returns the number of rows.
func (m *Menu) Len() int { return len(m.rows) }

// Focus returns the focused row index.
func (m *Menu) Focus() int { return m.focus }

// Focused returns the focused descriptor, or nil for an empty menu.
func (m *Menu) Focused() *param.Descriptor {
	if len(m.rows) == 0 {
		return nil
	}
	return m.rows[m.focus]
}

// SetFocus focuses row i.
func (m *Menu) SetFocus(i int) error {
	if i < 0 || i >= len(m.rows) {
		return fmt.Errorf("focus %d: %w", i, ErrNoRow)
	}
	m.focus = i
	return nil
}

// MoveFocus moves the focus by delta rows, stopping at the first and last row.
func (m *Menu) MoveFocus(delta int) {
	if len(m.rows) == 0 {
		return
	}
	last := len(m.rows) - 1
	switch {
	case delta > last-m.focus:
		m.focus = last
	case delta < -m.focus:
		m.focus = 0
	default:
		m.focus = uictl.Clamp(m.focus+delta, 0, last)
	}
}

// OnEncoderDelta forwards an encoder tick to the focused descriptor.
func (m *Menu) OnEncoderDelta(delta int) {
	if d := m.Focused(); d != nil {
		d.OnEncoderDelta(delta)
	}
}

// Apply sends delta to row i regardless of focus.
func (m *Menu) Apply(i, delta int) error {
	if i < 0 || i >= len(m.rows) {
		return fmt.Errorf("row %d: %w", i, ErrNoRow)
	}
	m.rows[i].OnEncoderDelta(delta)
	return nil
}

// Row returns the snapshot of row i.
func (m *Menu) Row(i int) (Row, error) {
	if i < 0 || i >= len(m.rows) {
		return Row{}, fmt.Errorf("row %d: %w", i, ErrNoRow)
	}
	return m.snapshot(i), nil
}

// Descriptors returns up to n descriptors starting at from.
func (m *Menu) Descriptors(from, n int) []*param.Descriptor {
	return collections.Window(m.rows, from, n)
}

// Rows returns snapshots of up to n rows starting at from.
func (m *Menu) Rows(from, n int) []Row {
	idx := collections.Window(m.indices(), from, n)
	return collections.Apply(idx, m.snapshot)
}

// All returns snapshots of every row.
func (m *Menu) All() []Row {
	return collections.Apply(m.indices(), m.snapshot)
}

// Window returns the first row of an n-row viewport that keeps the focus
// visible, scrolling as little as possible from prev.
func (m *Menu) Window(prev, n int) int {
	if n <= 0 || len(m.rows) <= n {
		return 0
	}
	switch {
	case m.focus < prev:
		prev = m.focus
	case m.focus >= prev+n:
		prev = m.focus - n + 1
	}
	return uictl.Clamp(prev, 0, len(m.rows)-n)
}

func (m *Menu) indices() []int {
	out := make([]int, len(m.rows))
	for i := range out {
		out[i] = i
	}
	return out
}

func (m *Menu) snapshot(i int) Row {
	d := m.rows[i]
	return Row{
		Index:    i,
		Operator: d.Operator(),
		Kind:     d.Kind().String(),
		Name:     d.Name(),
		Text:     d.Text(),
		Value:    d.Value(),
		Max:      d.Max(),
		Focused:  i == m.focus,
		desc:     d,
	}
}
