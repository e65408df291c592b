//go:build unix

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/tinyrange/irqmux"
	"github.com/tinyrange/irqmux/internal/sigline"
)

func run() error {
	configPath := flag.String("config", "", "path to a linemon YAML config")
	interval := flag.Duration("interval", 5*time.Second, "stats reporting interval")
	slots := flag.Int("slots", irqmux.DefaultSlots, "wrapper pool size")
	verbose := flag.Bool("verbose", false, "log every delivery")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `linemon - watch signal lines through the interrupt mux

USAGE:
  linemon [flags] [SIGNAL ...]

FLAGS:
  -config PATH   Load lines and pool size from a YAML config
  -interval DUR  How often to print per-slot stats (default: 5s)
  -slots N       Wrapper pool size when no config is given (default: %d)
  -verbose       Log each delivery as it happens

CONFIG FORMAT:
  slots: 7
  lines:
    - signal: SIGUSR1
      name: worker-wakeup
    - signal: SIGUSR2

EXAMPLES:
  linemon SIGUSR1 SIGUSR2          Watch two signal lines
  linemon -config linemon.yml      Watch the configured lines
`, irqmux.DefaultSlots)
	}
	flag.Parse()

	cfg := Config{Slots: *slots}
	if *configPath != "" {
		var err error
		cfg, err = LoadConfig(*configPath)
		if err != nil {
			return err
		}
	}
	for _, arg := range flag.Args() {
		cfg.Lines = append(cfg.Lines, LineConfig{Signal: arg})
	}
	if len(cfg.Lines) == 0 {
		flag.Usage()
		return fmt.Errorf("no signal lines to watch")
	}

	src := sigline.New()
	mux := irqmux.New(src, irqmux.WithSlots(cfg.Slots))

	deliver := func(ctx any) {
		if *verbose {
			slog.Info("delivery", "line", ctx)
		}
	}

	type watched struct {
		line int
		name string
	}
	var lines []watched
	for _, lc := range cfg.Lines {
		line, err := sigline.Lookup(lc.Signal)
		if err != nil {
			return err
		}
		name := lc.Name
		if name == "" {
			name = sigline.Name(line)
		}
		if err := mux.Register(line, deliver, name, 0); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		lines = append(lines, watched{line: line, name: name})
		slog.Info("watching", "line", line, "signal", sigline.Name(line), "name", name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			for _, w := range lines {
				if err := mux.Deregister(w.line, deliver, w.name); err != nil {
					slog.Warn("deregister failed", "line", w.line, "err", err)
				}
			}
			return nil
		case <-ticker.C:
			printStats(mux.Stats())
		}
	}
}

func printStats(stats []irqmux.SlotStats) {
	if len(stats) == 0 {
		fmt.Println("no bound slots")
		return
	}
	for _, st := range stats {
		fmt.Printf("line %3d %-10s handlers=%d dispatches=%d invocations=%d\n",
			st.Line, sigline.Name(st.Line), st.Handlers, st.Dispatches, st.Invocations)
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "linemon: %v\n", err)
		os.Exit(1)
	}
}
