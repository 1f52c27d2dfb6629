package main

import (
	"machine"
	"time"

	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/actions"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/composite"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/display"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/hidout"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/input"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/joystick"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/leds"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/protocol"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/storage"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/supervisor"
	"github.com/tuffrabit/tinygo-macropad-rp2040/serial"

	"tinygo.org/x/drivers/ws2812"
)

const (
	pixelCount = 3

	// Loop cadence. Short enough that the 2ms sampling period doubles as
	// the debounce window for the mechanical switches.
	loopDelay = 2 * time.Millisecond

	// Host enumeration settle time before HID traffic starts.
	usbSettle = 500 * time.Millisecond
)

var (
	pinKey1      = machine.GPIO2
	pinKey2      = machine.GPIO3
	pinKey3      = machine.GPIO4
	pinEncoderA  = machine.GPIO6
	pinEncoderB  = machine.GPIO7
	pinEncoderSW = machine.GPIO8
	pinNeoPixel  = machine.GPIO9
)

func main() {
	// The descriptor must be in place before the host enumerates.
	composite.Install()

	inputs := []machine.Pin{pinKey1, pinKey2, pinKey3, pinEncoderA, pinEncoderB, pinEncoderSW}
	for _, pin := range inputs {
		pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	pinNeoPixel.Configure(machine.PinConfig{Mode: machine.PinOutput})

	strip := leds.NewStrip(ws2812.New(pinNeoPixel), pixelCount)

	// Let the pullups and the pixel chain settle before the first read.
	time.Sleep(10 * time.Millisecond)
	strip.Clear()

	// Storage is best effort. A dead flash region degrades the boot
	// counters and the stats commands but never the input loop.
	store, err := storage.New(machine.Flash, true)
	if err != nil {
		store = nil
	}

	gate := supervisor.Gate{
		Held: func() bool { return !pinEncoderSW.Get() },
		Acknowledge: func() {
			strip.LitAll(127)
		},
		Enter: func() {
			if store != nil {
				store.RecordBootloaderEntry()
			}
			machine.EnterBootloader()
		},
	}
	gate.Check()

	strip.SetColor(0, 255, 33, 140)
	strip.SetColor(1, 255, 216, 0)
	strip.SetColor(2, 33, 177, 255)
	strip.Show()

	profile := config.DefaultProfile()
	kb, ms, js := hidout.New(joystick.Port())
	dispatcher := actions.NewDispatcher(actions.TableFromProfile(profile), kb, ms, js)

	if store != nil {
		store.RecordBoot()
	}

	time.Sleep(usbSettle)

	machine.Watchdog.Configure(machine.WatchdogConfig{
		TimeoutMillis: machine.WatchdogMaxTimeout,
	})
	machine.Watchdog.Start()

	handler := protocol.NewHandler(profile, store)
	diag := serial.NewSerial(machine.Serial, handler)
	go diag.Handle()

	monitor := display.NewMonitor()

	poller := input.NewPoller(
		pinKey1.Get,
		pinKey2.Get,
		pinKey3.Get,
		pinEncoderA.Get,
		pinEncoderB.Get,
		pinEncoderSW.Get,
	)

	loop := supervisor.NewLoop(poller,
		func(ev input.Event) {
			dispatcher.Dispatch(ev)
			monitor.ShowEvent(ev)
		},
		machine.Watchdog.Update,
		func() { time.Sleep(loopDelay) },
	)
	loop.Run()
}
