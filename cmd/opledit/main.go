package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/alkime/opledit/internal/config"
	"github.com/alkime/opledit/internal/console"
	"github.com/alkime/opledit/internal/encoder"
	"github.com/alkime/opledit/internal/lcd"
	"github.com/alkime/opledit/internal/logger"
	"github.com/alkime/opledit/internal/menu"
	"github.com/alkime/opledit/internal/opl3"
	"github.com/alkime/opledit/internal/server"
	"github.com/alkime/opledit/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// CLI defines the opledit command structure.
type CLI struct {
	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Edit a patch on the terminal front panel"`

	// Subcommands
	Serve ServeCmd `cmd:"" help:"Run the remote panel HTTP server without a terminal UI"`
	Dump  DumpCmd  `cmd:"" help:"Print every parameter of a default patch"`
	Ports PortsCmd `cmd:"" help:"List available MIDI input ports"`
}

// TUICmd is the default command that runs the front panel.
type TUICmd struct {
	Patch string `arg:"" optional:"" default:"init" help:"Patch name"`
	Serve bool   `flag:"" help:"Also run the remote panel HTTP server"`
}

// Run executes the TUI command.
func (c *TUICmd) Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// the terminal belongs to the UI, so logs go to a file
	logFile, err := logger.OpenFile(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logger.SetupLogger(cfg, logFile)

	display, err := newDisplay(cfg)
	if err != nil {
		return err
	}

	con := console.New(opl3.NewPatch(c.Patch), log)

	var changes chan console.Change
	if c.Serve {
		changes = make(chan console.Change, 16)
		if err := con.Subscribe(changes); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	wg.Go(func() {
		if err := con.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("console stopped", "error", err)
		}
	})

	p := tea.NewProgram(tui.New(ctx, cancel, con, display), tea.WithAltScreen())

	if c.Serve {
		gin.DefaultWriter = logFile
		gin.DefaultErrorWriter = logFile
		srv := server.New(cfg, con, log)
		wg.Go(func() {
			if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("server stopped", "error", err)
			}
		})
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case ch := <-changes:
					p.Send(tui.ChangedMsg{Change: ch})
				}
			}
		})
	}

	events, err := startEncoder(ctx, &wg, cfg, log)
	if err != nil {
		return err
	}
	if events != nil {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case ev := <-events:
					p.Send(tui.EncoderMsg{Delta: ev.Delta})
				}
			}
		})
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}

// ServeCmd runs the remote panel on its own.
type ServeCmd struct {
	Patch string `arg:"" optional:"" default:"init" help:"Patch name"`
}

// Run executes the serve command.
func (c *ServeCmd) Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := logger.SetupLogger(cfg, os.Stdout)

	log.Info("Starting opledit server",
		"env", cfg.Env,
		"port", cfg.Port,
		"patch", c.Patch,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	con := console.New(opl3.NewPatch(c.Patch), log)

	var wg sync.WaitGroup
	defer func() {
		stop()
		wg.Wait()
	}()

	wg.Go(func() {
		if err := con.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("console stopped", "error", err)
		}
	})

	events, err := startEncoder(ctx, &wg, cfg, log)
	if err != nil {
		return err
	}
	if events != nil {
		wg.Go(func() {
			for {
				select {
				case <-ctx.Done():
					return
				case ev := <-events:
					if _, err := con.Delta(ctx, ev.Delta); err != nil && ctx.Err() == nil {
						log.Warn("encoder delta rejected", "delta", ev.Delta, "error", err)
					}
				}
			}
		})
	}

	err = server.New(cfg, con, log).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// DumpCmd prints a default patch the way the display shows it.
type DumpCmd struct {
	Patch string `arg:"" optional:"" default:"init" help:"Patch name"`
}

// Run executes the dump command.
//
//nolint:unparam // error return required by Kong interface
func (c *DumpCmd) Run() error {
	p := opl3.NewPatch(c.Patch)
	m := menu.Build(p)

	fmt.Printf("patch %q\n", p.Name)
	for _, row := range m.All() {
		fmt.Printf("%2d  %-16s %-10s %2d/%d\n", row.Index, row.Name, row.Text, row.Value, row.Max-1)
	}
	for i := range p.Operators {
		fmt.Printf("OP%d registers % x\n", i+1, p.Operators[i].Registers())
	}

	return nil
}

// PortsCmd lists MIDI inputs usable as MIDI_PORT.
type PortsCmd struct{}

// Run executes the ports command.
//
//nolint:unparam // error return required by Kong interface
func (c *PortsCmd) Run() error {
	defer encoder.CloseDriver()

	ports := encoder.InPorts()
	if len(ports) == 0 {
		fmt.Println("no MIDI inputs found")
		return nil
	}
	for _, name := range ports {
		fmt.Println(name)
	}

	return nil
}

func newDisplay(cfg *config.Config) (*lcd.Display, error) {
	layout, err := lcd.ParseLayout(cfg.LCDLayout)
	if err != nil {
		return nil, err
	}
	d, err := lcd.New(cfg.LCDCols, cfg.LCDRows, layout)
	if err != nil {
		return nil, fmt.Errorf("invalid display settings: %w", err)
	}
	return d, nil
}

// startEncoder listens on the configured MIDI port. It returns a nil channel
// when no port is configured.
func startEncoder(
	ctx context.Context,
	wg *sync.WaitGroup,
	cfg *config.Config,
	log *slog.Logger,
) (<-chan encoder.Event, error) {
	if cfg.MIDIPort == "" {
		log.Debug("no MIDI port configured, encoder disabled")
		return nil, nil
	}

	mode, err := encoder.ParseMode(cfg.EncoderMode)
	if err != nil {
		return nil, err
	}

	in, err := encoder.OpenInPort(cfg.MIDIPort)
	if err != nil {
		return nil, err
	}

	events := make(chan encoder.Event, 64)
	l := encoder.NewListener(encoder.Decoder{
		Controller: cfg.EncoderCC,
		Channel:    cfg.EncoderChannel,
		Mode:       mode,
	}, events, log)

	wg.Go(func() {
		defer encoder.CloseDriver()
		if err := l.Listen(ctx, in); err != nil {
			log.Error("encoder stopped", "error", err)
		}
		if n := l.Dropped(); n > 0 {
			log.Warn("encoder events dropped", "count", n)
		}
	})

	return events, nil
}

func main() {
	// Set up text-based logger until a command configures its own
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("opledit"),
		kong.Description("OPL3 operator editor"),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
