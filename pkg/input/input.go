// Package input turns raw pin levels into discrete key and rotation events.
// Every monitored input is polled once per loop iteration; the poll
// interval doubles as the debounce window, so a level is only trusted once
// it has been seen stable across one full interval.
package input

// Channel identifies one button-like input.
type Channel uint8

const (
	Key1 Channel = iota
	Key2
	Key3
	EncoderSwitch
)

func (c Channel) String() string {
	switch c {
	case Key1:
		return "key1"
	case Key2:
		return "key2"
	case Key3:
		return "key3"
	case EncoderSwitch:
		return "encsw"
	default:
		return "unknown"
	}
}

// Kind is the event discriminator.
type Kind uint8

const (
	KeyPressed Kind = iota
	KeyReleased
	RotatedCW
	RotatedCCW
)

// Event is one decoded input transition. Events are transient: produced and
// consumed within a single loop iteration, never stored.
type Event struct {
	Kind    Kind
	Channel Channel // meaningful for KeyPressed/KeyReleased only
}

func (e Event) String() string {
	switch e.Kind {
	case KeyPressed:
		return e.Channel.String() + " down"
	case KeyReleased:
		return e.Channel.String() + " up"
	case RotatedCW:
		return "enc cw"
	case RotatedCCW:
		return "enc ccw"
	default:
		return "unknown"
	}
}

// PinReader samples the instantaneous level of one pin. Non-blocking.
type PinReader func() bool

// EdgeDetector latches the last reported state of one button-like input and
// emits an event exactly when the sampled level differs from the latch.
type EdgeDetector struct {
	channel Channel
	active  bool
}

func NewEdgeDetector(ch Channel) EdgeDetector {
	return EdgeDetector{channel: ch}
}

// Observe compares the sampled level against the latch. The switches are
// wired active-low, so a low level means pressed. Returns the event and
// true on a transition, false when the level is unchanged.
func (d *EdgeDetector) Observe(level bool) (Event, bool) {
	active := !level
	if active == d.active {
		return Event{}, false
	}
	d.active = active
	if active {
		return Event{Kind: KeyPressed, Channel: d.channel}, true
	}
	return Event{Kind: KeyReleased, Channel: d.channel}, true
}

// QuadratureDecoder latches encoder phase A and resolves rotation direction
// from phase B's level at the instant phase A goes active. Phase A's
// return to inactive emits nothing.
type QuadratureDecoder struct {
	phaseA bool
}

// Observe decodes one encoder sample. a is the active-converted level of
// phase A (the poller inverts the pulled-up pin); b is phase B's level as
// sampled. b high at a's rising edge means clockwise.
func (q *QuadratureDecoder) Observe(a, b bool) (Event, bool) {
	if a == q.phaseA {
		return Event{}, false
	}
	q.phaseA = a
	if !a {
		return Event{}, false
	}
	if b {
		return Event{Kind: RotatedCW}, true
	}
	return Event{Kind: RotatedCCW}, true
}

// Poller owns every input latch. No other component reads or writes them;
// all access goes through Poll. The scan order is fixed: Key1, Key2, Key3,
// encoder, encoder switch.
type Poller struct {
	keys      [3]EdgeDetector
	encSwitch EdgeDetector
	encoder   QuadratureDecoder

	readKeys [3]PinReader
	readA    PinReader
	readB    PinReader
	readSw   PinReader
}

func NewPoller(key1, key2, key3, encoderA, encoderB, encoderSwitch PinReader) *Poller {
	return &Poller{
		keys: [3]EdgeDetector{
			NewEdgeDetector(Key1),
			NewEdgeDetector(Key2),
			NewEdgeDetector(Key3),
		},
		encSwitch: NewEdgeDetector(EncoderSwitch),
		readKeys:  [3]PinReader{key1, key2, key3},
		readA:     encoderA,
		readB:     encoderB,
		readSw:    encoderSwitch,
	}
}

// Poll samples every input once and appends the resulting events to buf.
// Reusing the caller's buffer keeps the hot loop allocation-free.
func (p *Poller) Poll(buf []Event) []Event {
	for i := range p.keys {
		if ev, ok := p.keys[i].Observe(p.readKeys[i]()); ok {
			buf = append(buf, ev)
		}
	}
	// Phase A idles high like the keys; phase B's direction sense already
	// matches its raw level.
	if ev, ok := p.encoder.Observe(!p.readA(), p.readB()); ok {
		buf = append(buf, ev)
	}
	if ev, ok := p.encSwitch.Observe(p.readSw()); ok {
		buf = append(buf, ev)
	}
	return buf
}
