package neokey

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"tinygo.org/x/drivers"

	"neokey-go/drivers/seesaw"
	"neokey-go/keypad"
)

// Compile-time check.
var _ drivers.I2C = (*fakeBus)(nil)

// fakeBus hosts scripted NeoKey boards keyed by I2C address. Addresses with
// no board answer with a bus error, like an empty slot would.
type fakeBus struct {
	boards map[uint16]*fakeBoard
}

type fakeBoard struct {
	gpio    uint32 // raw pin levels; keys idle high behind pull-ups
	writes  [][]byte
	pending [2]byte
}

func newFakeBus(addrs ...uint16) *fakeBus {
	f := &fakeBus{boards: make(map[uint16]*fakeBoard)}
	for _, a := range addrs {
		f.boards[a] = &fakeBoard{gpio: keyMask}
	}
	return f
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	b, ok := f.boards[addr]
	if !ok {
		return errors.New("i2c: no ack")
	}
	if len(w) > 0 {
		b.writes = append(b.writes, append([]byte(nil), w...))
		if len(w) == 2 {
			b.pending = [2]byte{w[0], w[1]}
		}
		return nil
	}
	switch b.pending {
	case [2]byte{0x00, 0x01}: // status / hardware id
		r[0] = seesaw.HardwareID
	case [2]byte{0x01, 0x04}: // gpio / bulk
		r[0] = byte(b.gpio >> 24)
		r[1] = byte(b.gpio >> 16)
		r[2] = byte(b.gpio >> 8)
		r[3] = byte(b.gpio)
	default:
		return errors.New("fake: read of unscripted register")
	}
	return nil
}

// press pulls a key's pin low, the way the switch does.
func (b *fakeBoard) press(key int)   { b.gpio &^= 1 << uint(keyShift+key) }
func (b *fakeBoard) release(key int) { b.gpio |= 1 << uint(keyShift+key) }

func (b *fakeBoard) wrote(p []byte) bool {
	for _, w := range b.writes {
		if bytes.Equal(w, p) {
			return true
		}
	}
	return false
}

func configured(t *testing.T, bus *fakeBus, addr uint16) *Device {
	t.Helper()
	d := New(bus, addr)
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestConfigureBringsUpBoard(t *testing.T) {
	bus := newFakeBus(0x30)
	configured(t, bus, 0x30)

	board := bus.boards[0x30]
	mask := []byte{0x00, 0x00, 0x00, 0xF0}
	for _, want := range [][]byte{
		append([]byte{0x01, 0x03}, mask...), // dir clear: inputs
		append([]byte{0x01, 0x0B}, mask...), // pull enable
		append([]byte{0x01, 0x08}, mask...), // interrupts on
		{0x0E, 0x01, 3},                     // pixel pin
		{0x0E, 0x03, 0x00, 12},              // 4 pixels * GRB
	} {
		if !board.wrote(want) {
			t.Fatalf("missing write % X", want)
		}
	}
}

func TestConfigureRejectsBadAddress(t *testing.T) {
	bus := newFakeBus(0x20)
	d := New(bus, 0x20)
	if err := d.Configure(); err != ErrBadAddress {
		t.Fatalf("err = %v, want ErrBadAddress", err)
	}
}

func TestReadMaskInvertsActiveLow(t *testing.T) {
	bus := newFakeBus(0x30)
	d := configured(t, bus, 0x30)

	m, err := d.ReadMask()
	if err != nil {
		t.Fatal(err)
	}
	if m != 0 {
		t.Fatalf("idle mask = %04b, want 0", m)
	}

	bus.boards[0x30].press(2)
	m, err = d.ReadMask()
	if err != nil {
		t.Fatal(err)
	}
	if m != 0b0100 {
		t.Fatalf("mask = %04b, want 0100", m)
	}

	if pressed, err := d.Pressed(2); err != nil || !pressed {
		t.Fatalf("Pressed(2) = %v, %v", pressed, err)
	}
	if pressed, _ := d.Pressed(0); pressed {
		t.Fatal("key 0 reads pressed")
	}
}

func TestWriteColorPacksGRBWithBrightness(t *testing.T) {
	bus := newFakeBus(0x30)
	d := configured(t, bus, 0x30) // default brightness 51

	if err := d.WriteColor(1, keypad.RGB(0xFF, 0x00, 0x00)); err != nil {
		t.Fatal(err)
	}
	// Red scaled to 51, GRB order, byte offset 3.
	if !bus.boards[0x30].wrote([]byte{0x0E, 0x04, 0x00, 0x03, 0, 51, 0}) {
		t.Fatalf("pixel write missing; got %v", bus.boards[0x30].writes)
	}
}

func TestWriteColorRejectsBadKey(t *testing.T) {
	bus := newFakeBus(0x30)
	d := configured(t, bus, 0x30)
	if err := d.WriteColor(4, 0xFFFFFF); err != ErrBadKey {
		t.Fatalf("err = %v, want ErrBadKey", err)
	}
}

func TestDetectFindsBoards(t *testing.T) {
	bus := newFakeBus(0x30, 0x32, 0x3F)
	got, err := Detect(bus, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint16{0x30, 0x32, 0x3F}
	if len(got) != len(want) {
		t.Fatalf("found %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("found %v, want %v", got, want)
		}
	}
}

func TestDetectEmptyWindow(t *testing.T) {
	bus := newFakeBus()
	if _, err := Detect(bus, 0, 0); err != ErrNoDevice {
		t.Fatalf("err = %v, want ErrNoDevice", err)
	}
}

func TestChainNumbersKeysByBoardOrder(t *testing.T) {
	bus := newFakeBus(0x30, 0x31)
	first := configured(t, bus, 0x31) // deliberate: order != address order
	second := configured(t, bus, 0x30)
	ch := NewChain(first, second)

	if ch.KeyCount() != 8 {
		t.Fatalf("key count = %d", ch.KeyCount())
	}

	bus.boards[0x31].press(0) // key 0 of the chain
	bus.boards[0x30].press(3) // key 7 of the chain
	m, err := ch.ReadMask()
	if err != nil {
		t.Fatal(err)
	}
	if m != 0b1000_0001 {
		t.Fatalf("mask = %08b, want 10000001", m)
	}

	// Key 5 lives on the second board as its key 1.
	if err := ch.WriteColor(5, keypad.RGB(0, 0, 0xFF)); err != nil {
		t.Fatal(err)
	}
	if !bus.boards[0x30].wrote([]byte{0x0E, 0x04, 0x00, 0x03, 0, 0, 51}) {
		t.Fatal("chain write landed on the wrong board or offset")
	}
	if err := ch.WriteColor(8, 0); err != ErrBadKey {
		t.Fatalf("err = %v, want ErrBadKey", err)
	}
}

func TestChainReadFailsWhole(t *testing.T) {
	bus := newFakeBus(0x30, 0x31)
	first := configured(t, bus, 0x30)
	second := configured(t, bus, 0x31)
	ch := NewChain(first, second)

	delete(bus.boards, 0x31) // board falls off the bus
	if _, err := ch.ReadMask(); err == nil {
		t.Fatal("partial chain read succeeded")
	}
}

// TestEngineOverDevice wires the real driver under the debounce engine, the
// way callers assemble the two.
func TestEngineOverDevice(t *testing.T) {
	bus := newFakeBus(0x30)
	d := configured(t, bus, 0x30)
	eng := keypad.New(d, keypad.Config{DebounceInterval: 10 * time.Millisecond})

	clock := time.Unix(0, 0)
	pollTwice := func() []keypad.Event {
		t.Helper()
		var out []keypad.Event
		for i := 0; i < 2; i++ {
			clock = clock.Add(10 * time.Millisecond)
			evs, err := eng.ReadEvents(clock)
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, evs...)
		}
		return out
	}

	board := bus.boards[0x30]
	board.press(1)
	evs := pollTwice()
	if len(evs) != 1 || evs[0].Key != 1 || !evs[0].Pressed {
		t.Fatalf("events = %+v, want press of key 1", evs)
	}
	board.release(1)
	evs = pollTwice()
	if len(evs) != 1 || evs[0].Pressed {
		t.Fatalf("events = %+v, want release of key 1", evs)
	}
}
