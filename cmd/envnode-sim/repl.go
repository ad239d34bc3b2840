//go:build !rp2040

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"envnode-go/bus"
	"envnode-go/drivers/dht"
	"envnode-go/services/platform"
	"envnode-go/types"
)

const help = `commands:
  press                      press and release the button
  temp <celsius>             set the simulated temperature
  hum <percent>              set the simulated humidity (0-100)
  fault timeout|checksum|none
  show                       print the OLED and the LED
  state                      print the retained state on the bus
  quit`

var errUsage = errors.New("usage")

type repl struct {
	sim  *platform.Sim
	con  *console
	conn *bus.Connection
	out  io.Writer
}

func newREPL(sim *platform.Sim, con *console, conn *bus.Connection, out io.Writer) *repl {
	return &repl{sim: sim, con: con, conn: conn, out: out}
}

// run reads commands until quit, EOF or ctx is done.
func (r *repl) run(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(r.out, `type "help" for commands`)
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			quit, err := r.exec(line)
			if err != nil {
				fmt.Fprintln(r.out, colorMuted.Sprint(err.Error()))
			}
			if quit {
				return
			}
		}
	}
}

// exec runs one command line and reports whether the session should end.
func (r *repl) exec(line string) (bool, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "press":
		r.sim.Button.Press()
	case "temp":
		v, err := intArg(args, -40, 80)
		if err != nil {
			return false, err
		}
		_, rh := r.sim.Line.Values()
		r.sim.Line.Set(v, rh)
	case "hum":
		v, err := intArg(args, 0, 100)
		if err != nil {
			return false, err
		}
		c, _ := r.sim.Line.Values()
		r.sim.Line.Set(c, v)
	case "fault":
		if len(args) != 2 {
			return false, fmt.Errorf("%w: fault timeout|checksum|none", errUsage)
		}
		f, ok := map[string]dht.Fault{
			"none":     dht.FaultNone,
			"timeout":  dht.FaultTimeout,
			"checksum": dht.FaultChecksum,
		}[args[1]]
		if !ok {
			return false, fmt.Errorf("%w: fault timeout|checksum|none", errUsage)
		}
		r.sim.Line.SetFault(f)
	case "show":
		r.con.show()
	case "state":
		r.state()
	case "help", "?":
		fmt.Fprintln(r.out, help)
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", args[0])
	}
	return false, nil
}

func intArg(args []string, lo, hi int) (int, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("%w: %s <n>", errUsage, args[0])
	}
	v, err := strconv.Atoi(args[1])
	if err != nil || v < lo || v > hi {
		return 0, fmt.Errorf("%s: want an integer in %d..%d", args[0], lo, hi)
	}
	return v, nil
}

// state replays the retained state topics.
func (r *repl) state() {
	sub := r.conn.Subscribe(bus.T("state", "+"))
	defer sub.Unsubscribe()

	var lines []string
	for {
		select {
		case m := <-sub.Channel():
			lines = append(lines, describe(m))
			continue
		case <-time.After(20 * time.Millisecond):
		}
		break
	}
	if len(lines) == 0 {
		fmt.Fprintln(r.out, colorMuted.Sprint("(no state yet)"))
		return
	}
	sort.Strings(lines)
	fmt.Fprintln(r.out, strings.Join(lines, "\n"))
}

func describe(m *bus.Message) string {
	key := colorLabel.Sprint(m.Topic.String())
	switch v := m.Payload.(type) {
	case types.Reading:
		return fmt.Sprintf("%s %d C %d%% at %s", key, v.TemperatureC, v.HumidityPct, v.At.Format("15:04:05"))
	case types.RGB:
		return fmt.Sprintf("%s %d,%d,%d", key, v.R, v.G, v.B)
	default:
		return fmt.Sprintf("%s %v", key, v)
	}
}
