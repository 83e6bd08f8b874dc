package menu_test

import (
	"math"
	"testing"

	"github.com/alkime/opledit/internal/menu"
	"github.com/alkime/opledit/internal/opl3"
	"github.com/alkime/opledit/internal/param"
	"github.com/alkime/opledit/pkg/uictl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	p := opl3.NewPatch("organ")
	m := menu.Build(p)

	require.Equal(t, opl3.NumOperators*len(param.Kinds()), m.Len())

	all := m.All()
	assert.Equal(t, "OP1 Waveform", all[0].Name)
	assert.Equal(t, "OP1 Release", all[9].Name)
	assert.Equal(t, "OP2 Waveform", all[10].Name)
	assert.Equal(t, "OP4 Release", all[len(all)-1].Name)
	assert.Equal(t, 4, all[len(all)-1].Operator)
	assert.True(t, all[0].Focused)
	assert.Same(t, all[0].Descriptor(), m.Focused())
}

func TestFocus(t *testing.T) {
	m := menu.Build(opl3.NewPatch("organ"))
	last := m.Len() - 1

	m.MoveFocus(3)
	assert.Equal(t, 3, m.Focus())

	m.MoveFocus(-10)
	assert.Equal(t, 0, m.Focus(), "stops at first row")

	m.MoveFocus(math.MaxInt)
	assert.Equal(t, last, m.Focus(), "stops at last row")

	m.MoveFocus(math.MinInt)
	assert.Equal(t, 0, m.Focus())

	require.NoError(t, m.SetFocus(11))
	assert.Equal(t, "OP2 Freq Mult", m.Focused().Name())

	require.ErrorIs(t, m.SetFocus(-1), menu.ErrNoRow)
	require.ErrorIs(t, m.SetFocus(m.Len()), menu.ErrNoRow)
	assert.Equal(t, 11, m.Focus(), "failed focus keeps the old row")
}

func TestEncoderRouting(t *testing.T) {
	p := opl3.NewPatch("organ")
	m := menu.Build(p)

	// OP2 Attack
	require.NoError(t, m.SetFocus(16))
	m.OnEncoderDelta(-20)
	assert.Equal(t, uint8(0), p.Operators[1].AR)
	assert.Equal(t, uint8(0x0f), p.Operators[0].AR, "other operators untouched")

	require.NoError(t, m.Apply(0, 2))
	assert.Equal(t, opl3.WaveAbsSine, p.Operators[0].Waveform)
	assert.Equal(t, 16, m.Focus(), "apply does not move focus")

	require.ErrorIs(t, m.Apply(m.Len(), 1), menu.ErrNoRow)
}

func TestRows(t *testing.T) {
	p := opl3.NewPatch("organ")
	p.Operators[0].Vib = 1
	m := menu.Build(p)

	rows := m.Rows(3, 3)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"OP1 Sus Hold", "OP1 Vibrato", "OP1 Tremolo"},
		[]string{rows[0].Name, rows[1].Name, rows[2].Name})
	assert.Equal(t, "ON", rows[1].Text)
	assert.Equal(t, 1, rows[1].Value)
	assert.Equal(t, 2, rows[1].Max)
	assert.Equal(t, "vibrato", rows[1].Kind)
	assert.False(t, rows[1].Focused)

	assert.Nil(t, rows[0].Detached().Descriptor())
	assert.Equal(t, rows[0].Name, rows[0].Detached().Name)

	descs := m.Descriptors(6, 4)
	require.Len(t, descs, 4)
	assert.Equal(t, "OP1 Attack", descs[0].Name())
	assert.Equal(t, "OP1 Release", descs[3].Name())

	assert.Empty(t, m.Rows(m.Len(), 5))
	assert.Len(t, m.Rows(m.Len()-2, 5), 2)

	row, err := m.Row(6)
	require.NoError(t, err)
	assert.Equal(t, "OP1 Attack", row.Name)
	assert.Equal(t, "f", row.Text)

	_, err = m.Row(-1)
	require.ErrorIs(t, err, menu.ErrNoRow)
}

func TestWindow(t *testing.T) {
	m := menu.Build(opl3.NewPatch("organ"))

	assert.Equal(t, 0, m.Window(0, 2))

	require.NoError(t, m.SetFocus(5))
	assert.Equal(t, 4, m.Window(0, 2), "scrolls down just enough")
	assert.Equal(t, 4, m.Window(4, 2), "stays put while focus is visible")

	require.NoError(t, m.SetFocus(1))
	assert.Equal(t, 1, m.Window(4, 2), "scrolls back up")

	assert.Equal(t, 0, m.Window(7, 1000), "viewport larger than menu")
}

func TestEmptyMenu(t *testing.T) {
	m := menu.New()
	assert.Nil(t, m.Focused())
	assert.NotPanics(t, func() {
		m.MoveFocus(1)
		m.OnEncoderDelta(1)
	})
	assert.Empty(t, m.All())
}

func TestRowFill(t *testing.T) {
	m := menu.Build(opl3.NewPatch("organ"))

	attack, err := m.Row(6)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, uictl.Fill[int](attack), 1e-9, "AR defaults to 0x0f")

	decay, err := m.Row(7)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/15.0, uictl.Fill[int](decay), 1e-9)

	vib, err := m.Row(4)
	require.NoError(t, err)
	assert.Zero(t, uictl.Fill[int](vib.Detached()))
}
