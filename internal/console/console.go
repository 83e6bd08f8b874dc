// Package console owns a patch and its menu on a single goroutine. Input
// and display collaborators running elsewhere reach the descriptors only
// through it, since descriptors carry no locking of their own.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/alkime/opledit/internal/lcd"
	"github.com/alkime/opledit/internal/menu"
	"github.com/alkime/opledit/internal/opl3"
	"github.com/alkime/opledit/pkg/channels"
	"github.com/alkime/opledit/pkg/collections"
)

var (
	// ErrStopped is returned for requests made after Run has returned.
	ErrStopped = errors.New("console stopped")
	// ErrStarted is returned by every Run call after the first.
	ErrStarted = errors.New("console already started")
)

// Change describes one mutation, published to subscribers after it is applied.
type Change struct {
	Row   menu.Row `json:"row"`
	Focus int      `json:"focus"`
}

// Snapshot is a consistent copy of everything a display needs.
type Snapshot struct {
	Patch     string     `json:"patch"`
	Focus     int        `json:"focus"`
	Rows      []menu.Row `json:"rows"`
	Operator  int        `json:"operator"`
	Registers [5]byte    `json:"registers"`
	// Rev counts requests handled so far; a larger Rev is a newer state.
	Rev uint64 `json:"rev"`
}

// Frame is a snapshot together with the display text rendered from it.
type Frame struct {
	Snapshot
	Lines []string
	// Top is the first menu row shown on the display.
	Top int
}

type request struct {
	fn    func(m *menu.Menu) (changed int, err error)
	reply chan response
}

type response struct {
	snap Snapshot
	err  error
}

// Console serializes every read and write of one patch.
type Console struct {
	patch  *opl3.Patch
	menu   *menu.Menu
	logger *slog.Logger

	requests chan request
	stopped  chan struct{}
	changes  *channels.Broadcaster[Change]
	subs     int
	rev      uint64
	started  atomic.Bool
}

// New creates a console for the patch with the standard menu layout.
func New(patch *opl3.Patch, logger *slog.Logger) *Console {
	return &Console{
		patch:    patch,
		menu:     menu.Build(patch),
		logger:   logger,
		requests: make(chan request),
		stopped:  make(chan struct{}),
		changes:  channels.NewBroadcaster[Change](),
	}
}

// Subscribe registers ch for change notifications. Must be called before Run.
func (c *Console) Subscribe(ch chan<- Change) error {
	if err := c.changes.Subscribe(ch); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	c.subs++
	return nil
}

// Run processes requests until ctx is done. A console runs once.
func (c *Console) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrStarted
	}
	defer close(c.stopped)

	var publish chan<- Change
	if c.subs > 0 {
		pubCtx, cancel := context.WithCancel(context.Background())
		in, err := c.changes.Run(pubCtx)
		if err != nil {
			cancel()
			return fmt.Errorf("start change broadcaster: %w", err)
		}
		publish = in
		// publishing happens only on this goroutine, so closing after the
		// loop exits cannot race a send
		defer func() {
			cancel()
			c.changes.Wait()
		}()
	}

	c.logger.Debug("console started", "patch", c.patch.Name, "rows", c.menu.Len())

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("console stopped", "reason", ctx.Err())
			return ctx.Err()
		case req := <-c.requests:
			c.rev++
			changed, err := req.fn(c.menu)
			if err == nil && changed >= 0 {
				row, _ := c.menu.Row(changed)
				row = row.Detached()
				c.logger.Debug("parameter changed",
					"name", row.Name,
					"value", row.Value,
					"text", row.Text,
				)
				if publish != nil {
					publish <- Change{Row: row, Focus: c.menu.Focus()}
				}
			}
			req.reply <- response{snap: c.snapshot(), err: err}
		}
	}
}

// do runs fn on the owner goroutine. fn returns the index of the row it
// changed, or -1 when nothing needs publishing.
func (c *Console) do(ctx context.Context, fn func(m *menu.Menu) (int, error)) (Snapshot, error) {
	req := request{fn: fn, reply: make(chan response, 1)}

	select {
	case c.requests <- req:
	case <-c.stopped:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	// the owner always replies once it has accepted a request
	resp := <-req.reply
	return resp.snap, resp.err
}

// Snapshot returns the current state.
func (c *Console) Snapshot(ctx context.Context) (Snapshot, error) {
	return c.do(ctx, func(*menu.Menu) (int, error) { return -1, nil })
}

// Delta sends an encoder delta to the focused row.
func (c *Console) Delta(ctx context.Context, delta int) (Snapshot, error) {
	return c.do(ctx, func(m *menu.Menu) (int, error) {
		if m.Focused() == nil {
			return -1, menu.ErrNoRow
		}
		m.OnEncoderDelta(delta)
		return m.Focus(), nil
	})
}

// DeltaRow sends an encoder delta to a specific row.
func (c *Console) DeltaRow(ctx context.Context, row, delta int) (Snapshot, error) {
	return c.do(ctx, func(m *menu.Menu) (int, error) {
		if err := m.Apply(row, delta); err != nil {
			return -1, err
		}
		return row, nil
	})
}

// SetFocus focuses a row.
func (c *Console) SetFocus(ctx context.Context, row int) (Snapshot, error) {
	return c.do(ctx, func(m *menu.Menu) (int, error) {
		if err := m.SetFocus(row); err != nil {
			return -1, err
		}
		return m.Focus(), nil
	})
}

// MoveFocus moves the focus by delta rows.
func (c *Console) MoveFocus(ctx context.Context, delta int) (Snapshot, error) {
	return c.do(ctx, func(m *menu.Menu) (int, error) {
		if m.Len() == 0 {
			return -1, menu.ErrNoRow
		}
		m.MoveFocus(delta)
		return m.Focus(), nil
	})
}

// Render draws the display on the owner goroutine. top is the first row of
// the previous viewport; the returned frame's Top keeps the focus visible.
func (c *Console) Render(ctx context.Context, d *lcd.Display, top int) (Frame, error) {
	var f Frame
	snap, err := c.do(ctx, func(m *menu.Menu) (int, error) {
		f.Top = m.Window(top, d.Lines())
		descs := m.Descriptors(f.Top, d.Lines())
		srcs := make([]lcd.Source, len(descs))
		for i, desc := range descs {
			srcs[i] = desc
		}
		d.Render(srcs, m.Focus()-f.Top)
		f.Lines = d.Text()
		return -1, nil
	})
	f.Snapshot = snap
	return f, err
}

func (c *Console) snapshot() Snapshot {
	s := Snapshot{
		Rev:   c.rev,
		Patch: c.patch.Name,
		Focus: c.menu.Focus(),
		Rows:  collections.Apply(c.menu.All(), menu.Row.Detached),
	}
	if d := c.menu.Focused(); d != nil {
		s.Operator = d.Operator()
		if op := c.patch.Operator(d.Operator()); op != nil {
			s.Registers = op.Registers()
		}
	}
	return s
}

// Focused returns the focused row of the snapshot.
func (s Snapshot) Focused() (menu.Row, bool) {
	if s.Focus < 0 || s.Focus >= len(s.Rows) {
		return menu.Row{}, false
	}
	return s.Rows[s.Focus], true
}
