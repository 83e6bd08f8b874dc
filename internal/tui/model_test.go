package tui_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alkime/opledit/internal/console"
	"github.com/alkime/opledit/internal/lcd"
	"github.com/alkime/opledit/internal/opl3"
	"github.com/alkime/opledit/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// outputChecker provides helpers for testing teatest output.
type outputChecker struct {
	intervl, timeout time.Duration
}

func defaultChecker() outputChecker {
	return outputChecker{
		intervl: 100 * time.Millisecond,
		timeout: 3 * time.Second,
	}
}

// checkStrings waits until one stretch of output contains every substring.
func (o outputChecker) checkStrings(t *testing.T, tm *teatest.TestModel, substrs ...string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(buf []byte) bool {
		for _, s := range substrs {
			if !bytes.Contains(buf, []byte(s)) {
				return false
			}
		}
		return true
	},
		teatest.WithCheckInterval(o.intervl),
		teatest.WithDuration(o.timeout))
}

type fixture struct {
	console *console.Console
	ctx     context.Context
	quit    context.CancelFunc
	tm      *teatest.TestModel
}

func newFixture(t *testing.T, layout lcd.Layout) fixture {
	t.Helper()

	c := console.New(opl3.NewPatch("bell"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	runCtx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(runCtx)
	}()
	t.Cleanup(func() {
		stop()
		<-done
	})

	d, err := lcd.New(16, 2, layout)
	require.NoError(t, err)

	ctx, quit := context.WithCancel(context.Background())
	m := tui.New(ctx, quit, c, d)
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 60))

	return fixture{console: c, ctx: ctx, quit: quit, tm: tm}
}

func (f fixture) quitAndWait(t *testing.T) {
	t.Helper()
	f.tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	f.tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))
	assert.ErrorIs(t, f.ctx.Err(), context.Canceled, "quit cancels the session")
}

func TestEditing(t *testing.T) {
	f := newFixture(t, lcd.LayoutDetail)
	checker := defaultChecker()

	checker.checkStrings(t, f.tm, "OP1 Waveform", "0x20:01")

	f.tm.Send(tea.KeyMsg{Type: tea.KeyRight})
	checker.checkStrings(t, f.tm, "HalfSine")

	f.tm.Send(tui.EncoderMsg{Delta: 100})
	checker.checkStrings(t, f.tm, "PulseSine", "0xe0:03")

	f.tm.Send(tea.KeyMsg{Type: tea.KeyDown})
	checker.checkStrings(t, f.tm, "> OP1 Freq Mult")

	f.tm.Send(tea.KeyMsg{Type: tea.KeyPgDown})
	checker.checkStrings(t, f.tm, "0x20:00")

	f.quitAndWait(t)

	snap, err := f.console.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Rows[0].Value, "waveform saturated at PulseSine")
	assert.Equal(t, 0, snap.Rows[1].Value, "coarse step saturated at 0.5")
	assert.Equal(t, 1, snap.Focus)
}

func TestNavigation(t *testing.T) {
	f := newFixture(t, lcd.LayoutList)
	checker := defaultChecker()

	checker.checkStrings(t, f.tm, "Operator 1")

	f.tm.Send(tea.KeyMsg{Type: tea.KeyEnd})
	checker.checkStrings(t, f.tm, "Operator 4", "> OP4 Release")

	f.tm.Send(tea.KeyMsg{Type: tea.KeyUp})
	checker.checkStrings(t, f.tm, "> OP4 Sustain")

	f.tm.Send(tea.KeyMsg{Type: tea.KeyHome})
	checker.checkStrings(t, f.tm, "Operator 1")

	f.tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	checker.checkStrings(t, f.tm, "first")

	f.quitAndWait(t)
}

func TestRemoteChange(t *testing.T) {
	f := newFixture(t, lcd.LayoutDetail)
	checker := defaultChecker()

	checker.checkStrings(t, f.tm, "OP1 Waveform")

	snap, err := f.console.DeltaRow(context.Background(), 4, 1)
	require.NoError(t, err)
	f.tm.Send(tui.ChangedMsg{Change: console.Change{Row: snap.Rows[4], Focus: snap.Focus}})
	checker.checkStrings(t, f.tm, "0x20:41")

	f.quitAndWait(t)
}
