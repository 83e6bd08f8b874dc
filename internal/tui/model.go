// Package tui is the terminal front panel: an emulated character LCD, the
// focused operator's parameter rows and its register image.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alkime/opledit/internal/console"
	"github.com/alkime/opledit/internal/lcd"
	"github.com/alkime/opledit/internal/menu"
	"github.com/alkime/opledit/internal/opl3"
	"github.com/alkime/opledit/internal/tui/style"
	"github.com/alkime/opledit/pkg/uictl"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// Console is the part of *console.Console the front panel drives.
type Console interface {
	Delta(ctx context.Context, delta int) (console.Snapshot, error)
	MoveFocus(ctx context.Context, delta int) (console.Snapshot, error)
	SetFocus(ctx context.Context, row int) (console.Snapshot, error)
	Render(ctx context.Context, d *lcd.Display, top int) (console.Frame, error)
}

// EncoderMsg carries one hardware encoder movement into the program.
type EncoderMsg struct {
	Delta int
}

// ChangedMsg reports an edit made by another collaborator, such as the
// remote panel, so the screen can catch up.
type ChangedMsg struct {
	Change console.Change
}

type frameMsg struct {
	frame console.Frame
}

type errMsg struct {
	err error
}

// Model is the front panel.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	console  Console
	display  *lcd.Display
	keys     KeyMap
	help     help.Model
	progress progress.Model

	frame console.Frame
	ready bool
	err   error
}

// New creates the front panel. cancel, if set, is called on quit.
func New(ctx context.Context, cancel context.CancelFunc, c Console, d *lcd.Display) *Model {
	return &Model{
		ctx:     ctx,
		cancel:  cancel,
		console: c,
		display: d,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(32),
			progress.WithoutPercentage(),
		),
	}
}

// Init draws the first frame.
func (m *Model) Init() tea.Cmd {
	return m.exec(nil)
}

// Update handles messages for the front panel.
func (m *Model) Update(teaMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := teaMsg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			return m, m.move(-1)
		case key.Matches(msg, m.keys.Down):
			return m, m.move(1)
		case key.Matches(msg, m.keys.First):
			return m, m.focus(0)
		case key.Matches(msg, m.keys.Last):
			return m, m.focus(len(m.frame.Rows) - 1)
		case key.Matches(msg, m.keys.Dec):
			return m, m.turn(-1)
		case key.Matches(msg, m.keys.Inc):
			return m, m.turn(1)
		case key.Matches(msg, m.keys.DecBig):
			return m, m.turn(-CoarseStep)
		case key.Matches(msg, m.keys.IncBig):
			return m, m.turn(CoarseStep)
		}

	case EncoderMsg:
		return m, m.turn(msg.Delta)

	case ChangedMsg:
		return m, m.exec(nil)

	case frameMsg:
		// commands finish in any order; keep the newest state
		if !m.ready || msg.frame.Rev > m.frame.Rev {
			m.frame = msg.frame
			m.ready = true
		}
		m.err = nil

	case errMsg:
		m.err = msg.err
		if errors.Is(msg.err, console.ErrStopped) {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m *Model) turn(delta int) tea.Cmd {
	return m.exec(func(ctx context.Context) error {
		_, err := m.console.Delta(ctx, delta)
		return err
	})
}

func (m *Model) move(delta int) tea.Cmd {
	return m.exec(func(ctx context.Context) error {
		_, err := m.console.MoveFocus(ctx, delta)
		return err
	})
}

func (m *Model) focus(row int) tea.Cmd {
	return m.exec(func(ctx context.Context) error {
		_, err := m.console.SetFocus(ctx, row)
		return err
	})
}

// exec runs action, if any, then redraws the display.
func (m *Model) exec(action func(ctx context.Context) error) tea.Cmd {
	ctx, c, d, top := m.ctx, m.console, m.display, m.frame.Top
	return func() tea.Msg {
		if action != nil {
			if err := action(ctx); err != nil {
				return errMsg{err: err}
			}
		}
		f, err := c.Render(ctx, d, top)
		if err != nil {
			return errMsg{err: err}
		}
		return frameMsg{frame: f}
	}
}

// View renders the front panel.
func (m *Model) View() string {
	if !m.ready {
		if m.err != nil {
			return style.Error.Render(m.err.Error()) + "\n"
		}
		return style.Subtitle.Render("starting...") + "\n"
	}

	var sb strings.Builder

	sb.WriteString(style.Title.Render("opledit"))
	sb.WriteString(" ")
	sb.WriteString(style.Subtitle.Render(m.frame.Patch))
	sb.WriteString("\n\n")

	sb.WriteString(style.LCD.Render(strings.Join(m.frame.Lines, "\n")))
	sb.WriteString("\n\n")

	sb.WriteString(style.Panel.Render(m.operatorView()))
	sb.WriteString("\n")

	if m.err != nil {
		sb.WriteString(style.Error.Render(m.err.Error()))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))

	return sb.String()
}

func (m *Model) operatorView() string {
	var sb strings.Builder

	sb.WriteString(style.Label.Render(fmt.Sprintf("Operator %d", m.frame.Operator)))
	sb.WriteString("\n")

	for _, row := range m.frame.Rows {
		if row.Operator != m.frame.Operator {
			continue
		}
		sb.WriteString(renderRow(row))
		sb.WriteString("\n")
	}

	if row, ok := m.frame.Focused(); ok {
		sb.WriteString("\n")
		sb.WriteString(m.progress.ViewAs(uictl.Fill[int](row)))
		sb.WriteString(" ")
		sb.WriteString(style.Subtitle.Render(fmt.Sprintf("%d/%d", row.Value, row.Max-1)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(style.Muted.Render(formatRegisters(m.frame.Registers)))

	return sb.String()
}

func renderRow(row menu.Row) string {
	line := fmt.Sprintf("%-16s %s", row.Name, row.Text)
	if row.Focused {
		return style.Focused.Render("> " + line)
	}
	return style.Row.Render("  " + line)
}

// formatRegisters lays out an operator's register image as base:value pairs.
func formatRegisters(regs [5]byte) string {
	parts := make([]string, len(regs))
	for i, b := range regs {
		parts[i] = fmt.Sprintf("%#02x:%02x", opl3.RegisterBases[i], b)
	}
	return strings.Join(parts, " ")
}
