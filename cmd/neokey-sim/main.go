// Command neokey-sim runs the keypad engine against a scripted channel on
// the host: no hardware, simulated clock. It replays a key-press timeline
// with switch chatter mixed in and checks that the debounced event stream,
// the color-mode toggle, and the action trigger behave. Exit status is
// non-zero on any mismatch, so it doubles as a smoke test.
//
//	go run ./cmd/neokey-sim [-config keypad.yml] [-v]
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"neokey-go/keypad"
	"neokey-go/keypad/config"
)

// simChannel is a 4-key channel fed from a mask script. Color writes are
// recorded, not displayed.
type simChannel struct {
	masks  []keypad.RawMask
	step   int
	colors [4]keypad.Color
	writes int
}

func (s *simChannel) KeyCount() int { return 4 }

func (s *simChannel) ReadMask() (keypad.RawMask, error) {
	m := s.masks[s.step]
	if s.step < len(s.masks)-1 {
		s.step++
	}
	return m, nil
}

func (s *simChannel) WriteColor(key int, c keypad.Color) error {
	s.colors[key] = c
	s.writes++
	return nil
}

func main() {
	cfgPath := flag.String("config", "", "optional YAML keypad config")
	verbose := flag.Bool("v", false, "print every event")
	flag.Parse()

	// Tick 0 idle; key 0 chatters at tick 1 (gone by tick 2: no event);
	// key 0 held from tick 3; key 2 held from tick 5; both released at
	// tick 9. Trailing idle ticks let the releases confirm.
	script := []keypad.RawMask{
		0b0000,
		0b0001, 0b0000,
		0b0001, 0b0001, 0b0101, 0b0101, 0b0101, 0b0101,
		0b0000, 0b0000, 0b0000,
	}
	ch := &simChannel{masks: script}

	cfg := keypad.Config{DebounceInterval: 20 * time.Millisecond}
	eng := keypad.New(ch, cfg)

	builtinModes := *cfgPath == ""
	if *cfgPath != "" {
		f, err := config.Load(*cfgPath)
		if err != nil {
			fail("load config: %v", err)
		}
		eng = keypad.New(ch, f.EngineConfig())
		if err := f.Apply(eng); err != nil {
			fail("apply config: %v", err)
		}
	} else {
		if err := eng.SetColorModes(0, []keypad.ColorMode{
			{Name: "red", Colors: []keypad.Color{0x200000, 0x200000, 0x200000, 0x200000}},
			{Name: "blue", Colors: []keypad.Color{0x000020, 0x000020, 0x000020, 0x000020}},
		}); err != nil {
			fail("set color modes: %v", err)
		}
	}

	fires := 0
	if err := eng.ArmAction(2, func(keypad.Event) { fires++ }); err != nil {
		fail("arm action: %v", err)
	}

	// One poll per scripted tick, 20 ms of simulated time apart.
	now := time.Unix(0, 0)
	var events []keypad.Event
	for range script {
		evs, err := eng.ReadEvents(now)
		if err != nil {
			fail("poll: %v", err)
		}
		for _, ev := range evs {
			if *verbose {
				fmt.Printf("t=%3dms key %d pressed=%v\n",
					ev.Time.Sub(time.Unix(0, 0)).Milliseconds(), ev.Key, ev.Pressed)
			}
			events = append(events, ev)
		}
		now = now.Add(20 * time.Millisecond)
	}

	// Expected: press 0, press 2, release 0, release 2. Chatter filtered.
	want := []struct {
		key     int
		pressed bool
	}{
		{0, true}, {2, true}, {0, false}, {2, false},
	}
	if len(events) != len(want) {
		fail("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, w := range want {
		if events[i].Key != w.key || events[i].Pressed != w.pressed {
			fail("event %d = {key %d pressed %v}, want {key %d pressed %v}",
				i, events[i].Key, events[i].Pressed, w.key, w.pressed)
		}
	}
	if fires != 1 {
		fail("action fired %d times, want 1", fires)
	}
	if builtinModes {
		// Key 0's single press should have advanced red -> blue.
		if m := eng.ColorModes().Mode(); m != 1 {
			fail("mode = %d, want 1", m)
		}
	}

	fmt.Printf("ok: %d events, %d color writes\n", len(events), ch.writes)
	os.Exit(0)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "neokey-sim: "+format+"\n", args...)
	os.Exit(1)
}
