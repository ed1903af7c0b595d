package seesaw

import (
	"bytes"
	"errors"
	"testing"

	"tinygo.org/x/drivers"
)

// Compile-time check.
var _ drivers.I2C = (*fakeI2C)(nil)

// fakeI2C is a scripted seesaw. Writes are logged; reads are served from the
// register addressed by the preceding write.
type fakeI2C struct {
	hwid    byte
	gpio    uint32
	writes  [][]byte
	pending [2]byte
	err     error
}

func newFakeSeesaw() *fakeI2C { return &fakeI2C{hwid: HardwareID} }

func (f *fakeI2C) Tx(addr uint16, w, r []byte) error {
	if f.err != nil {
		return f.err
	}
	if len(w) > 0 {
		f.writes = append(f.writes, append([]byte(nil), w...))
		if len(w) == 2 {
			f.pending = [2]byte{w[0], w[1]}
		}
		return nil
	}
	switch f.pending {
	case [2]byte{modStatus, statusHWID}:
		r[0] = f.hwid
	case [2]byte{modGPIO, gpioBulk}:
		r[0] = byte(f.gpio >> 24)
		r[1] = byte(f.gpio >> 16)
		r[2] = byte(f.gpio >> 8)
		r[3] = byte(f.gpio)
	default:
		return errors.New("fake: read of unscripted register")
	}
	return nil
}

func (f *fakeI2C) wrote(p []byte) bool {
	for _, w := range f.writes {
		if bytes.Equal(w, p) {
			return true
		}
	}
	return false
}

func TestConfigureResetsAndChecksID(t *testing.T) {
	bus := newFakeSeesaw()
	d := New(bus, 0x30)
	if err := d.Configure(); err != nil {
		t.Fatal(err)
	}
	if !bus.wrote([]byte{modStatus, statusSWRST, 0xFF}) {
		t.Fatal("no soft reset issued")
	}
}

func TestConfigureRejectsWrongHardware(t *testing.T) {
	bus := newFakeSeesaw()
	bus.hwid = 0x42
	d := New(bus, 0x30)
	if err := d.Configure(); err != ErrWrongHardware {
		t.Fatalf("err = %v, want ErrWrongHardware", err)
	}
}

func TestPinModeBulkPullup(t *testing.T) {
	bus := newFakeSeesaw()
	d := New(bus, 0x30)
	if err := d.PinModeBulkPullup(0x000000F0); err != nil {
		t.Fatal(err)
	}
	mask := []byte{0x00, 0x00, 0x00, 0xF0}
	for _, fn := range []byte{gpioDirClrBulk, gpioPullEnSet, gpioBulkSet} {
		want := append([]byte{modGPIO, fn}, mask...)
		if !bus.wrote(want) {
			t.Fatalf("missing write % X", want)
		}
	}
}

func TestSetGPIOInterrupts(t *testing.T) {
	bus := newFakeSeesaw()
	d := New(bus, 0x30)
	if err := d.SetGPIOInterrupts(0xF0, true); err != nil {
		t.Fatal(err)
	}
	if !bus.wrote([]byte{modGPIO, gpioIntenSet, 0, 0, 0, 0xF0}) {
		t.Fatal("enable went to the wrong register")
	}
	if err := d.SetGPIOInterrupts(0xF0, false); err != nil {
		t.Fatal(err)
	}
	if !bus.wrote([]byte{modGPIO, gpioIntenClr, 0, 0, 0, 0xF0}) {
		t.Fatal("disable went to the wrong register")
	}
}

func TestDigitalReadBulkAssemblesAndMasks(t *testing.T) {
	bus := newFakeSeesaw()
	bus.gpio = 0xAABBCCDD
	d := New(bus, 0x30)
	got, err := d.DigitalReadBulk(0x0000FFF0)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x0000CCD0 {
		t.Fatalf("bulk read = %08X, want 0000CCD0", got)
	}
}

func TestReadPropagatesBusError(t *testing.T) {
	bus := newFakeSeesaw()
	bus.err = errors.New("i2c: nack")
	d := New(bus, 0x30)
	if _, err := d.HardwareID(); err == nil {
		t.Fatal("bus error swallowed")
	}
}
