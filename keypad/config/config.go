// Package config loads keypad settings (debounce, brightness, blink
// schedules, color-mode tables) from YAML, for host-side tools that don't
// want the tables compiled in. Firmware builds can ignore this package and
// construct keypad.Config directly.
package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"neokey-go/keypad"
)

// File is the on-disk document.
//
//	debounce_ms: 20
//	brightness: 51
//	mode_key: 0
//	modes:
//	  - name: normal
//	    colors: ["#200000", "#002000", "#000020", "#202000"]
//	blink:
//	  - {key: 3, on_ms: 300, off_ms: 700}
type File struct {
	DebounceMs int     `yaml:"debounce_ms"`
	Brightness int     `yaml:"brightness"`
	ModeKey    *int    `yaml:"mode_key"`
	Modes      []Mode  `yaml:"modes"`
	Blink      []Blink `yaml:"blink"`
}

// Mode is one color-mode table entry.
type Mode struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

// Blink is one per-key blink schedule.
type Blink struct {
	Key   int `yaml:"key"`
	OnMs  int `yaml:"on_ms"`
	OffMs int `yaml:"off_ms"`
}

// Load reads and parses path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a document strictly (unknown fields are errors) and
// validates it.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if f.DebounceMs < 0 {
		return fmt.Errorf("config: negative debounce_ms")
	}
	if f.Brightness < 0 || f.Brightness > 255 {
		return fmt.Errorf("config: brightness out of 0..255")
	}
	if f.ModeKey != nil && len(f.Modes) == 0 {
		return fmt.Errorf("config: mode_key without modes")
	}
	if f.ModeKey == nil && len(f.Modes) > 0 {
		return fmt.Errorf("config: modes without mode_key")
	}
	for i, m := range f.Modes {
		if len(m.Colors) == 0 {
			return fmt.Errorf("config: mode %d (%s): empty color table", i, m.Name)
		}
		if len(m.Colors) != len(f.Modes[0].Colors) {
			return fmt.Errorf("config: mode %d (%s): color table size differs", i, m.Name)
		}
		for _, s := range m.Colors {
			if _, err := ParseColor(s); err != nil {
				return fmt.Errorf("config: mode %d (%s): %w", i, m.Name, err)
			}
		}
	}
	for i, b := range f.Blink {
		if b.Key < 0 {
			return fmt.Errorf("config: blink %d: negative key", i)
		}
		if b.OnMs <= 0 || b.OffMs <= 0 {
			return fmt.Errorf("config: blink %d: non-positive period", i)
		}
	}
	return nil
}

// EngineConfig maps the file onto keypad.Config. Zero debounce_ms defers to
// the engine default.
func (f *File) EngineConfig() keypad.Config {
	return keypad.Config{
		DebounceInterval: time.Duration(f.DebounceMs) * time.Millisecond,
	}
}

// ModeTables converts the modes section into behavior tables.
func (f *File) ModeTables() []keypad.ColorMode {
	out := make([]keypad.ColorMode, 0, len(f.Modes))
	for _, m := range f.Modes {
		cm := keypad.ColorMode{Name: m.Name, Colors: make([]keypad.Color, len(m.Colors))}
		for i, s := range m.Colors {
			cm.Colors[i], _ = ParseColor(s) // validated in Parse
		}
		out = append(out, cm)
	}
	return out
}

// Apply installs the file's behaviors on an engine: color modes first, then
// blink schedules. Key indexes are re-checked against the engine, so a file
// written for a bigger chain fails loudly here rather than clamping.
func (f *File) Apply(eng *keypad.Engine) error {
	if f.ModeKey != nil {
		if err := eng.SetColorModes(*f.ModeKey, f.ModeTables()); err != nil {
			return err
		}
	}
	for _, b := range f.Blink {
		on := time.Duration(b.OnMs) * time.Millisecond
		off := time.Duration(b.OffMs) * time.Millisecond
		if err := eng.EnableBlink(b.Key, on, off); err != nil {
			return err
		}
	}
	return nil
}

// ParseColor reads "#RRGGBB" or "0xRRGGBB".
func ParseColor(s string) (keypad.Color, error) {
	var hex string
	switch {
	case len(s) == 7 && s[0] == '#':
		hex = s[1:]
	case len(s) == 8 && (s[:2] == "0x" || s[:2] == "0X"):
		hex = s[2:]
	default:
		return 0, fmt.Errorf("bad color %q", s)
	}
	var v keypad.Color
	for _, c := range []byte(hex) {
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return 0, fmt.Errorf("bad color %q", s)
		}
		v = v<<4 | keypad.Color(d)
	}
	return v, nil
}
