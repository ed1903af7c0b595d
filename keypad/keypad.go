// Package keypad turns raw key samples from a small RGB keypad into a
// debounced press/release event stream, and optionally runs autonomous
// per-key behaviors (color modes, blinking, action triggers) on top of it.
//
// The package is pure logic: all I/O goes through the BusChannel the engine
// is constructed with (see drivers/neokey for the NeoKey 1x4 channel).
// Everything is single-threaded and caller-driven: the engine owns no
// goroutines and no timers; state advances only inside Poll, at whatever
// cadence the caller's loop provides.
package keypad

import (
	"time"

	"neokey-go/errcode"
)

// DefaultDebounceInterval is used when Config.DebounceInterval is zero.
// 20 ms rides out mechanical chatter while keeping taps responsive.
const DefaultDebounceInterval = 20 * time.Millisecond

// Config controls engine behaviour. Zero fields take defaults.
type Config struct {
	// DebounceInterval is how long a raw sample must hold steady before a
	// transition is reported. Higher values reject more chatter at the cost
	// of latency.
	DebounceInterval time.Duration
}

// Engine owns the per-key debounce state for one channel, the event queue,
// and an ordered set of behaviors run once per poll cycle.
type Engine struct {
	ch       BusChannel
	debounce time.Duration

	keys    []keyState
	queue   eventQueue
	colors  []Color // last color set per key; Blinker restores from here
	scratch []Event // events of the current poll, reused across cycles

	behaviors []Behavior

	// Built-in behaviors, created on first use and attached in that order.
	modeToggle *ColorModeToggle
	blinker    *Blinker
	actions    *ActionTrigger
	autoColor  *AutoColor
}

// New creates an engine over ch. The key count is fixed for the engine's
// lifetime at whatever ch reports now.
func New(ch BusChannel, cfg Config) *Engine {
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = DefaultDebounceInterval
	}
	n := ch.KeyCount()
	return &Engine{
		ch:       ch,
		debounce: cfg.DebounceInterval,
		keys:     make([]keyState, n),
		colors:   make([]Color, n),
	}
}

// KeyCount reports the number of keys behind the engine's channel.
func (e *Engine) KeyCount() int { return len(e.keys) }

// Poll runs one cycle: sample the channel, advance every key's debounce
// state in ascending index order, queue confirmed transitions, then let each
// behavior observe the new events and the tick. It reports how many events
// were queued.
//
// If the mask read fails, no key state changes and the queue is untouched;
// the returned error carries errcode.Transport. A behavior's color-write
// failure is also returned, but only after all keys and behaviors have been
// stepped, so the event state stays consistent.
func (e *Engine) Poll(now time.Time) (int, error) {
	mask, err := e.ch.ReadMask()
	if err != nil {
		return 0, &errcode.E{C: errcode.Transport, Op: "keypad.poll", Err: err}
	}

	e.scratch = e.scratch[:0]
	for i := range e.keys {
		pressed, ok := e.keys[i].update(mask.Bit(i), now, e.debounce)
		if !ok {
			continue
		}
		ev := Event{Key: i, Pressed: pressed, Time: now}
		e.scratch = append(e.scratch, ev)
		e.queue.push(ev)
	}

	var firstErr error
	for _, b := range e.behaviors {
		for _, ev := range e.scratch {
			if err := b.OnEvent(ev); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	for _, b := range e.behaviors {
		if err := b.OnTick(now); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return len(e.scratch), firstErr
}

// NextEvent pops the oldest queued event, reporting false when the queue is
// exhausted. Single-step consumption; the alternative is Drain. Either way
// an event is delivered once.
func (e *Engine) NextEvent() (Event, bool) { return e.queue.next() }

// Drain returns all queued events in FIFO order and empties the queue.
func (e *Engine) Drain() []Event { return e.queue.drain() }

// Pending reports how many events are queued but not yet consumed.
func (e *Engine) Pending() int { return e.queue.len() }

// ReadEvents is the one-call loop body: Poll followed by Drain. Any events
// left over from earlier polls are included, oldest first.
func (e *Engine) ReadEvents(now time.Time) ([]Event, error) {
	if _, err := e.Poll(now); err != nil {
		return nil, err
	}
	return e.Drain(), nil
}

// Pressed reports the debounced state of one key.
func (e *Engine) Pressed(key int) (bool, error) {
	if err := e.checkKey("keypad.pressed", key); err != nil {
		return false, err
	}
	return e.keys[key].stable, nil
}

// SetColor writes a key's color through the channel and remembers it as the
// key's base color (behaviors restore from this cache).
func (e *Engine) SetColor(key int, c Color) error {
	if err := e.checkKey("keypad.set_color", key); err != nil {
		return err
	}
	if err := e.writeColor(key, c); err != nil {
		return err
	}
	e.colors[key] = c
	return nil
}

// Color returns the last color set through the engine for key. Colors
// written behind the engine's back (directly on the channel) are not seen.
func (e *Engine) Color(key int) (Color, error) {
	if err := e.checkKey("keypad.color", key); err != nil {
		return 0, err
	}
	return e.colors[key], nil
}

// Fill sets every key to c.
func (e *Engine) Fill(c Color) error {
	for k := range e.keys {
		if err := e.SetColor(k, c); err != nil {
			return err
		}
	}
	return nil
}

// Attach appends a behavior to the per-poll sequence. Behaviors run in
// attachment order, events before ticks.
func (e *Engine) Attach(b Behavior) { e.behaviors = append(e.behaviors, b) }

// SetColorModes installs (or replaces) the cyclic color-mode behavior: each
// press of modeKey advances to the next mode and repaints every key from its
// table. The first mode is applied immediately.
func (e *Engine) SetColorModes(modeKey int, modes []ColorMode) error {
	if err := e.checkKey("keypad.set_color_modes", modeKey); err != nil {
		return err
	}
	if len(modes) == 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "keypad.set_color_modes", Msg: "no modes"}
	}
	for _, m := range modes {
		if len(m.Colors) != len(e.keys) {
			return &errcode.E{C: errcode.InvalidParams, Op: "keypad.set_color_modes",
				Msg: "mode " + m.Name + ": color table size mismatch"}
		}
	}
	if e.modeToggle == nil {
		e.modeToggle = &ColorModeToggle{eng: e}
		e.Attach(e.modeToggle)
	}
	e.modeToggle.modeKey = modeKey
	e.modeToggle.modes = modes
	e.modeToggle.current = 0
	return e.modeToggle.apply()
}

// ColorModes returns the installed mode behavior, or nil.
func (e *Engine) ColorModes() *ColorModeToggle { return e.modeToggle }

// EnableBlink starts blinking a key: onFor lit with the key's base color,
// offFor dark, phased from the next poll tick.
func (e *Engine) EnableBlink(key int, onFor, offFor time.Duration) error {
	if err := e.checkKey("keypad.enable_blink", key); err != nil {
		return err
	}
	if onFor <= 0 || offFor <= 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "keypad.enable_blink", Msg: "non-positive period"}
	}
	if e.blinker == nil {
		e.blinker = &Blinker{eng: e, keys: make([]blinkState, len(e.keys))}
		e.Attach(e.blinker)
	}
	e.blinker.enable(key, onFor, offFor)
	return nil
}

// DisableBlink stops blinking a key and restores its base color.
func (e *Engine) DisableBlink(key int) error {
	if err := e.checkKey("keypad.disable_blink", key); err != nil {
		return err
	}
	if e.blinker == nil {
		return nil
	}
	return e.blinker.disable(key)
}

// ArmAction registers fn to run synchronously, exactly once, on each press
// of key; the matching release re-arms it. A nil fn disarms the key.
func (e *Engine) ArmAction(key int, fn func(Event)) error {
	if err := e.checkKey("keypad.arm_action", key); err != nil {
		return err
	}
	if e.actions == nil {
		e.actions = &ActionTrigger{keys: make([]actionState, len(e.keys))}
		e.Attach(e.actions)
	}
	e.actions.arm(key, fn)
	return nil
}

// SetAutoColor installs fn to pick each key's color on every confirmed
// transition. Installing repaints every key its released color, so the
// resting state is well defined. A nil fn removes the behavior.
func (e *Engine) SetAutoColor(fn func(Event) Color) error {
	if e.autoColor == nil {
		if fn == nil {
			return nil
		}
		e.autoColor = &AutoColor{eng: e}
		e.Attach(e.autoColor)
	}
	e.autoColor.fn = fn
	if fn == nil {
		return nil
	}
	for k := range e.keys {
		if err := e.SetColor(k, fn(Event{Key: k, Pressed: false})); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) checkKey(op string, key int) error {
	if key < 0 || key >= len(e.keys) {
		return &errcode.E{C: errcode.InvalidKey, Op: op}
	}
	return nil
}

// writeColor pushes a color without touching the base-color cache; behaviors
// use it for transient states like blink-off.
func (e *Engine) writeColor(key int, c Color) error {
	if err := e.ch.WriteColor(key, c); err != nil {
		return &errcode.E{C: errcode.Transport, Op: "keypad.write_color", Err: err}
	}
	return nil
}
