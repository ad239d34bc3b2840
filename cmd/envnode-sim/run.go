//go:build !rp2040

package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"envnode-go/bus"
	"envnode-go/services/button"
	"envnode-go/services/config"
	"envnode-go/services/control"
	"envnode-go/services/display"
	"envnode-go/services/httpd"
	"envnode-go/services/led"
	"envnode-go/services/platform"
	"envnode-go/services/sensor"
	"envnode-go/types"
	"envnode-go/x/logx"
)

type runOptions struct {
	configPath string
	listen     string
	interval   time.Duration
}

func newRunCmd() *cobra.Command {
	var o runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the control loop and an interactive console",
		Example: `  envnode-sim run
  envnode-sim run --listen :8080 --interval 2s
  envnode-sim run --config node.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if o.configPath != "" {
				var err error
				if cfg, err = config.Load(o.configPath); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("interval") {
				cfg.SensorInterval = o.interval
				cfg = cfg.Normalize()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, o.listen)
		},
	}
	cmd.Flags().StringVar(&o.configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&o.listen, "listen", ":8080", `HTTP listen address ("" for offline)`)
	cmd.Flags().DurationVar(&o.interval, "interval", 2*time.Second, "sensor sampling interval (min 1s)")
	return cmd
}

func run(ctx context.Context, cfg config.Config, listen string) error {
	board, sim := platform.OpenSim(cfg)
	con := newConsole(os.Stdout)
	sim.Panel.OnDisplay = con.capture
	sim.LED.OnWrite = con.onLED

	latch := &button.Latch{}
	if _, err := button.Watch(board.Button, types.EdgeFalling, types.PullUp, latch); err != nil {
		return err
	}

	var srv control.Server
	if listen != "" {
		ln, err := net.Listen("tcp", listen)
		if err != nil {
			return err
		}
		logx.Println("main", "serving on http://"+ln.Addr().String()+"/")
		srv = httpd.New(ln, cfg.HTTP.ReadBuffer, cfg.HTTP.ReadTimeout)
	} else {
		logx.Println("main", "offline")
	}

	b := bus.NewBus(8)
	loop := control.New(
		sensor.New(board.Sensor, cfg.SensorInterval, nil),
		display.NewPresenter(board.Surface),
		led.New(board.Strip),
		&button.Debounce{Latch: latch, Window: cfg.Debounce},
		srv,
		control.Options{Tick: cfg.Tick, Bus: b.NewConnection("node")},
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		r := newREPL(sim, con, b.NewConnection("repl"), os.Stdout)
		r.run(ctx, os.Stdin)
		cancel()
	}()

	err := loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
