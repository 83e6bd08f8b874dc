// Package encoder turns relative MIDI control-change messages from endless
// rotary encoders into signed step deltas.
package encoder

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/alkime/opledit/pkg/channels"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Event is one decoded encoder movement. Positive deltas turn clockwise.
type Event struct {
	Delta   int
	Channel uint8
}

// Mode is the relative value encoding a controller sends.
type Mode int

const (
	// TwosComplement sends 1..63 for clockwise and 127..65 for -1..-63.
	TwosComplement Mode = iota
	// BinaryOffset centres on 64: 65 is +1, 63 is -1.
	BinaryOffset
	// SignMagnitude uses bit 6 as the sign and bits 0-5 as the step count.
	SignMagnitude
)

func (m Mode) String() string {
	switch m {
	case TwosComplement:
		return "twos-complement"
	case BinaryOffset:
		return "binary-offset"
	case SignMagnitude:
		return "sign-magnitude"
	default:
		return "unknown"
	}
}

// ParseMode maps a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{TwosComplement, BinaryOffset, SignMagnitude} {
		if s == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown encoder mode %q", s)
}

// Delta decodes a 7-bit controller value.
func (m Mode) Delta(v uint8) int {
	v &= 0x7f
	switch m {
	case BinaryOffset:
		return int(v) - 64
	case SignMagnitude:
		mag := int(v & 0x3f)
		if v&0x40 != 0 {
			return -mag
		}
		return mag
	default:
		if v >= 64 {
			return int(v) - 128
		}
		return int(v)
	}
}

// AnyChannel makes a Decoder accept every MIDI channel.
const AnyChannel = -1

// Decoder picks one controller's messages out of a MIDI stream.
type Decoder struct {
	Controller uint8
	Channel    int
	Mode       Mode
}

// Decode reports the event carried by msg, if msg is a non-zero movement of
// the configured controller.
func (d Decoder) Decode(msg gomidi.Message) (Event, bool) {
	var ch, cc, val uint8
	if !msg.GetControlChange(&ch, &cc, &val) {
		return Event{}, false
	}
	if cc != d.Controller {
		return Event{}, false
	}
	if d.Channel != AnyChannel && int(ch) != d.Channel {
		return Event{}, false
	}
	delta := d.Mode.Delta(val)
	if delta == 0 {
		return Event{}, false
	}
	return Event{Delta: delta, Channel: ch}, true
}

// Listener forwards decoded events from a MIDI input to a channel.
type Listener struct {
	dec     Decoder
	out     chan<- Event
	logger  *slog.Logger
	dropped atomic.Int64
}

// NewListener creates a listener delivering to out. Sends never block the
// MIDI driver; events that do not fit are dropped and counted.
func NewListener(dec Decoder, out chan<- Event, logger *slog.Logger) *Listener {
	return &Listener{dec: dec, out: out, logger: logger}
}

// Handle is the gomidi receive callback.
func (l *Listener) Handle(msg gomidi.Message, _ int32) {
	ev, ok := l.dec.Decode(msg)
	if !ok {
		return
	}
	if err := channels.SendNonBlock(l.out, ev); err != nil {
		n := l.dropped.Add(1)
		l.logger.Debug("encoder event dropped", "delta", ev.Delta, "dropped", n, "error", err)
	}
}

// Dropped returns how many events could not be delivered.
func (l *Listener) Dropped() int64 {
	return l.dropped.Load()
}

// Listen receives from in until ctx is done.
func (l *Listener) Listen(ctx context.Context, in drivers.In) error {
	stop, err := gomidi.ListenTo(in, l.Handle)
	if err != nil {
		return fmt.Errorf("listen on %q: %w", in.String(), err)
	}
	l.logger.Info("listening for encoder", "port", in.String(),
		"controller", l.dec.Controller, "mode", l.dec.Mode.String())

	<-ctx.Done()
	stop()
	return nil
}

// OpenInPort finds a MIDI input by name.
func OpenInPort(name string) (drivers.In, error) {
	in, err := gomidi.FindInPort(name)
	if err != nil {
		return nil, fmt.Errorf("find midi input %q: %w", name, err)
	}
	return in, nil
}

// InPorts lists the names of the available MIDI inputs.
func InPorts() []string {
	var names []string
	for _, in := range gomidi.GetInPorts() {
		names = append(names, in.String())
	}
	return names
}

// CloseDriver releases the registered MIDI driver and its ports.
func CloseDriver() {
	gomidi.CloseDriver()
}
