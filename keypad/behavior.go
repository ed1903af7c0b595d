package keypad

import "time"

// Behavior is autonomous logic layered on the event stream. The engine calls
// OnEvent once per confirmed transition and OnTick once per poll, in
// attachment order, synchronously inside the caller's Poll. Implementations
// must not block and must not touch the engine from other goroutines.
type Behavior interface {
	OnEvent(ev Event) error
	OnTick(now time.Time) error
}

// ColorMode is one entry in a ColorModeToggle table: a display name and one
// color per key.
type ColorMode struct {
	Name   string
	Colors []Color
}

// ColorModeToggle cycles through a fixed set of per-key color tables. Each
// press of the mode key advances one mode; entering a mode repaints every
// key from its table. There is no terminal mode.
type ColorModeToggle struct {
	eng     *Engine
	modeKey int
	modes   []ColorMode
	current int
}

// Mode reports the current mode index.
func (t *ColorModeToggle) Mode() int { return t.current }

// ModeName reports the current mode's name.
func (t *ColorModeToggle) ModeName() string { return t.modes[t.current].Name }

func (t *ColorModeToggle) OnEvent(ev Event) error {
	if !ev.Pressed || ev.Key != t.modeKey {
		return nil
	}
	t.current = (t.current + 1) % len(t.modes)
	return t.apply()
}

func (t *ColorModeToggle) OnTick(time.Time) error { return nil }

func (t *ColorModeToggle) apply() error {
	for k, c := range t.modes[t.current].Colors {
		if err := t.eng.SetColor(k, c); err != nil {
			return err
		}
	}
	return nil
}

// blinkState is one key's slot in a Blinker.
type blinkState struct {
	active bool
	onFor  time.Duration
	offFor time.Duration
	lit    bool
	next   time.Time // zero until the first tick phases the key in
}

// Blinker toggles enabled keys between their base color and dark on per-key
// schedules. Phase timers are independent: keys stay in step only if they
// are enabled together with equal periods and tick together.
type Blinker struct {
	eng  *Engine
	keys []blinkState
}

func (b *Blinker) enable(key int, onFor, offFor time.Duration) {
	b.keys[key] = blinkState{active: true, onFor: onFor, offFor: offFor}
}

func (b *Blinker) disable(key int) error {
	s := &b.keys[key]
	if !s.active {
		return nil
	}
	*s = blinkState{}
	// Leave the key showing its base color, whatever phase it was in.
	return b.eng.writeColor(key, b.eng.colors[key])
}

// Blinking reports whether key is currently enabled.
func (b *Blinker) Blinking(key int) bool { return b.keys[key].active }

func (b *Blinker) OnEvent(Event) error { return nil }

func (b *Blinker) OnTick(now time.Time) error {
	for i := range b.keys {
		s := &b.keys[i]
		if !s.active {
			continue
		}
		if s.next.IsZero() {
			// First tick after enable: key is already lit with its base
			// color, just schedule the first off edge.
			s.lit = true
			s.next = now.Add(s.onFor)
			continue
		}
		if now.Before(s.next) {
			continue
		}
		s.lit = !s.lit
		c := Off
		if s.lit {
			c = b.eng.colors[i]
			s.next = now.Add(s.onFor)
		} else {
			s.next = now.Add(s.offFor)
		}
		if err := b.eng.writeColor(i, c); err != nil {
			return err
		}
	}
	return nil
}

// actionState is one key's slot in an ActionTrigger.
type actionState struct {
	fn    func(Event)
	fired bool
}

// ActionTrigger runs a callback when an armed key is pressed: exactly once
// per press, synchronously in the poll that confirmed it. The matching
// release re-arms the key.
type ActionTrigger struct {
	keys []actionState
}

// Armed reports whether key has a callback registered.
func (a *ActionTrigger) Armed(key int) bool { return a.keys[key].fn != nil }

func (a *ActionTrigger) arm(key int, fn func(Event)) {
	a.keys[key] = actionState{fn: fn}
}

func (a *ActionTrigger) OnEvent(ev Event) error {
	s := &a.keys[ev.Key]
	if s.fn == nil {
		return nil
	}
	if !ev.Pressed {
		s.fired = false
		return nil
	}
	if s.fired {
		return nil
	}
	s.fired = true
	s.fn(ev)
	return nil
}

func (a *ActionTrigger) OnTick(time.Time) error { return nil }

// AutoColor derives a key's color from each confirmed transition ("white
// while held" and the like). Installed via Engine.SetAutoColor, which also
// paints every key its released color.
type AutoColor struct {
	eng *Engine
	fn  func(Event) Color
}

func (a *AutoColor) OnEvent(ev Event) error {
	if a.fn == nil {
		return nil
	}
	return a.eng.SetColor(ev.Key, a.fn(ev))
}

func (a *AutoColor) OnTick(time.Time) error { return nil }
