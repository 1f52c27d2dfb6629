package supervisor

import (
	"testing"

	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/input"
)

func TestGateHeldEntersBootloader(t *testing.T) {
	var order []string
	g := Gate{
		Held:        func() bool { return true },
		Acknowledge: func() { order = append(order, "ack") },
		Enter:       func() { order = append(order, "enter") },
	}

	if !g.Check() {
		t.Fatal("Expected gate to report bootloader entry")
	}

	// Visual acknowledgment must precede the bootloader handoff.
	if len(order) != 2 || order[0] != "ack" || order[1] != "enter" {
		t.Errorf("Expected [ack enter], got %v", order)
	}
}

func TestGateNotHeldContinuesBoot(t *testing.T) {
	g := Gate{
		Held:        func() bool { return false },
		Acknowledge: func() { t.Error("Acknowledge called without gate condition") },
		Enter:       func() { t.Error("Enter called without gate condition") },
	}

	if g.Check() {
		t.Error("Expected normal boot")
	}
}

func TestLoopServicesWatchdogOncePerIteration(t *testing.T) {
	high := func() bool { return true }
	poller := input.NewPoller(high, high, high, high, high, high)

	var trace []string
	loop := NewLoop(poller,
		func(input.Event) { trace = append(trace, "dispatch") },
		func() { trace = append(trace, "service") },
		func() { trace = append(trace, "delay") },
	)

	const iterations = 5
	for i := 0; i < iterations; i++ {
		loop.Step()
	}

	services, delays := 0, 0
	for i, step := range trace {
		switch step {
		case "dispatch":
			t.Fatalf("Unexpected dispatch with idle inputs at step %d", i)
		case "service":
			services++
			// The service call comes before the iteration's delay.
			if i+1 >= len(trace) || trace[i+1] != "delay" {
				t.Errorf("Step %d: service not immediately followed by delay", i)
			}
		case "delay":
			delays++
		}
	}
	if services != iterations {
		t.Errorf("Expected %d watchdog services, got %d", iterations, services)
	}
	if delays != iterations {
		t.Errorf("Expected %d delays, got %d", iterations, delays)
	}
}

func TestLoopDispatchesPolledEvents(t *testing.T) {
	key1 := true
	readKey1 := func() bool { return key1 }
	high := func() bool { return true }
	poller := input.NewPoller(readKey1, high, high, high, high, high)

	var got []input.Event
	loop := NewLoop(poller,
		func(ev input.Event) { got = append(got, ev) },
		func() {},
		func() {},
	)

	loop.Step() // idle
	key1 = false
	loop.Step() // press
	loop.Step() // held, no new event
	key1 = true
	loop.Step() // release

	want := []input.Event{
		{Kind: input.KeyPressed, Channel: input.Key1},
		{Kind: input.KeyReleased, Channel: input.Key1},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d events, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Event %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}
