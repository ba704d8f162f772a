package vip

import (
	"log"
	"time"

	"github.com/okv/c8/chip8"
)

// StateKind tells a StateFunc why it is being invoked.
type StateKind int

const (
	QuietState StateKind = iota // periodic refresh; no new stop condition
	ClearState                  // a stop condition was cleared
	DebugState                  // execution passed a debug point
	BreakState                  // execution stopped at a breakpoint
	PauseState                  // execution paused by the user
	HaltState                   // execution halted by a fault
)

// StateFunc observes machine state on behalf of a debugger. It is
// called from the Runner goroutine with execution stopped; the machine
// must not be retained after it returns.
type StateFunc func(*chip8.Machine, StateKind)

// stepsPerFrame paces the CPU at about 700 instructions per second,
// the speed most ROMs were written for.
const stepsPerFrame = 12

// Runner owns a System and drives it: CPU steps in 60Hz frame batches,
// timer decrement, keypad routing, display publication, live program
// swap, and debugger commands. All System access happens on the Run
// goroutine.
type Runner struct {
	dev   bool
	state StateFunc

	// Update is offered the System after each frame in which the
	// display changed. The receiver must copy what it needs and then
	// receive from UpdateDone before touching anything else.
	Update     chan *System
	UpdateDone chan bool

	swap chan []byte
	keys chan keyEvent
	dbg  chan dbgCmd
}

type keyEvent struct {
	key  byte
	down bool
}

type dbgCmd struct {
	cmd  string
	addr uint16
}

// NewRunner returns a Runner. In dev mode a machine fault pauses
// execution instead of ending the run, and the program may be swapped
// while running. The state callback may be nil.
func NewRunner(devMode bool, state StateFunc) *Runner {
	if state == nil {
		state = func(*chip8.Machine, StateKind) {}
	}
	return &Runner{
		dev:        devMode,
		state:      state,
		Update:     make(chan *System),
		UpdateDone: make(chan bool),
		swap:       make(chan []byte),
		keys:       make(chan keyEvent),
		dbg:        make(chan dbgCmd),
	}
}

// Swap replaces the running program with rom, resetting the machine
// and its peripherals.
func (r *Runner) Swap(rom []byte) {
	if !r.dev {
		panic("Swap called while not running in dev mode")
	}
	r.swap <- rom
}

// Press routes a keypad key (0-15) going down into the execution loop.
func (r *Runner) Press(key byte) { r.keys <- keyEvent{key, true} }

// Release routes a keypad key coming back up into the execution loop.
func (r *Runner) Release(key byte) { r.keys <- keyEvent{key, false} }

// Debug passes a debugger command to the execution loop: "break" and
// "debug" set or, with address zero, clear their address; "pause",
// "step", "cont", and "exit" control execution. Single-letter forms
// are accepted.
func (r *Runner) Debug(cmd string, addr uint16) {
	r.dbg <- dbgCmd{cmd, addr}
}

// Run executes rom until a fault (when not in dev mode) or an "exit"
// debug command.
func (r *Runner) Run(rom []byte) error {
	var (
		s      = New(rom)
		frame  = time.NewTicker(time.Second / 60)
		paused bool
		step   bool
		brk    = -1
		dbg    = -1
		drawn  = -1
	)
	defer frame.Stop()
	for {
		select {
		case rom := <-r.swap:
			s = New(rom)
			paused, step = false, false
			r.state(s.m, ClearState)
			continue
		case k := <-r.keys:
			if k.down {
				s.pad.Press(k.key)
			} else {
				s.pad.Release(k.key)
			}
			continue
		case c := <-r.dbg:
			switch c.cmd {
			case "b", "break":
				brk = addrOrClear(c.addr)
			case "d", "debug":
				dbg = addrOrClear(c.addr)
			case "p", "pause":
				paused = true
				r.state(s.m, PauseState)
			case "s", "step":
				step = paused // only meaningful while stopped
			case "c", "cont":
				paused = false
				r.state(s.m, ClearState)
			case "exit":
				return nil
			}
			continue
		case <-frame.C:
		}

		m := s.m
		if !paused {
			if m.Delay > 0 {
				m.Delay--
			}
			if m.Sound > 0 {
				m.Sound--
			}
		}
		for i := 0; i < stepsPerFrame && (!paused || step); i++ {
			single := step
			step = false
			if err := m.Exec(); err != nil {
				r.state(m, HaltState)
				if !r.dev {
					return err
				}
				log.Printf("halt: %v", err)
				paused = true
				break
			}
			if single {
				r.state(m, PauseState)
				break
			}
			if m.Waiting {
				// Nothing to do until a key arrives.
				break
			}
			if int(m.PC) == brk {
				paused = true
				r.state(m, BreakState)
				break
			}
			if int(m.PC) == dbg {
				r.state(m, DebugState)
			}
		}
		r.state(m, QuietState)

		if o := s.scr.Ops(); o != drawn {
			select {
			case r.Update <- s:
				<-r.UpdateDone
				drawn = o
			default:
				// The GUI is busy; offer again next frame.
			}
		}
	}
}

func addrOrClear(addr uint16) int {
	if addr == 0 {
		return -1
	}
	return int(addr)
}
