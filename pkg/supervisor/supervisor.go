// Package supervisor owns the startup and safety state machine: the
// power-on bootloader gate and the watchdog-serviced control loop.
package supervisor

import (
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/input"
)

// Gate is the one-time power-on bootloader check. If the encoder switch is
// held while the device powers up, the firmware acknowledges visually and
// hands control to the bootloader instead of ever entering the loop.
type Gate struct {
	Held        func() bool // samples the encoder switch once
	Acknowledge func()      // "all indicators lit" signal
	Enter       func()      // transfers control to the bootloader
}

// Check samples the gate condition once. On hardware Enter never returns;
// the boolean result exists so tests can observe the decision.
func (g *Gate) Check() bool {
	if !g.Held() {
		return false
	}
	g.Acknowledge()
	g.Enter()
	return true
}

// Loop is the poll/dispatch/service cycle. The watchdog must be armed
// before Run; every iteration services it exactly once, before the fixed
// delay. An iteration that overruns the hardware timeout resets the device.
// That reset is an external fault path, not a transition this code models.
type Loop struct {
	poller   *input.Poller
	dispatch func(input.Event)
	service  func() // watchdog service
	delay    func() // fixed inter-iteration delay, doubles as the debounce window
	events   []input.Event
}

func NewLoop(poller *input.Poller, dispatch func(input.Event), service, delay func()) *Loop {
	return &Loop{
		poller:   poller,
		dispatch: dispatch,
		service:  service,
		delay:    delay,
		events:   make([]input.Event, 0, 8),
	}
}

// Step runs a single iteration: sample, dispatch, service, wait.
func (l *Loop) Step() {
	l.events = l.poller.Poll(l.events[:0])
	for _, ev := range l.events {
		l.dispatch(ev)
	}
	l.service()
	l.delay()
}

// Run executes Step forever. It never returns.
func (l *Loop) Run() {
	for {
		l.Step()
	}
}
