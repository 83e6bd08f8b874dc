package uictl_test

import (
	"testing"

	"github.com/alkime/opledit/pkg/uictl"
	"github.com/stretchr/testify/assert"
)

type fixedDial struct{ num, max int }

func (d fixedDial) Read() int            { return d.num }
func (d fixedDial) Cap() (num, max int) { return d.num, d.max }

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, uictl.Clamp(-3, 0, 15))
	assert.Equal(t, 15, uictl.Clamp(99, 0, 15))
	assert.Equal(t, 7, uictl.Clamp(7, 0, 15))
	assert.InDelta(t, 0.5, uictl.Clamp(0.5, 0.0, 1.0), 1e-9)
	assert.Equal(t, uint8(3), uictl.Clamp[uint8](200, 0, 3))
}

func TestFill(t *testing.T) {
	assert.InDelta(t, 0.0, uictl.Fill[int](fixedDial{0, 15}), 1e-9)
	assert.InDelta(t, 1.0, uictl.Fill[int](fixedDial{15, 15}), 1e-9)
	assert.InDelta(t, 0.2, uictl.Fill[int](fixedDial{3, 15}), 1e-9)
	assert.InDelta(t, 0.0, uictl.Fill[int](fixedDial{1, 0}), 1e-9, "zero cap")
}
