// Package neokey drives the Adafruit NeoKey 1x4: four mechanical keys with
// per-key NeoPixels behind a seesaw chip. A Device (or a Chain of them)
// implements keypad.BusChannel, so the debounce engine can run on top.
package neokey

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"neokey-go/drivers/seesaw"
	"neokey-go/keypad"
)

const (
	// BaseAddress..LastAddress is the window selected by the board's four
	// address bridges.
	BaseAddress = 0x30
	LastAddress = BaseAddress | 0x0F

	// KeyCount is fixed by the hardware.
	KeyCount = 4

	pixelPin = 3        // seesaw pin driving the NeoPixel string
	keyShift = 4        // keys sit on seesaw GPIO 4..7
	keyMask  = 0xF << keyShift
)

// DefaultBrightness is applied when Config.Brightness is zero (~20% of full
// scale; full brightness is blinding at desk distance).
const DefaultBrightness = 51

// Errors returned by the driver.
var (
	ErrBadAddress = errors.New("neokey: address outside 0x30..0x3f")
	ErrBadKey     = errors.New("neokey: key out of range")
	ErrNoDevice   = errors.New("neokey: no device found")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Brightness scales every written color, 1..255. Default 51.
	Brightness uint8
	// ReadDelay is passed through to the seesaw register reads.
	ReadDelay time.Duration
}

// Device is one NeoKey 1x4 board.
type Device struct {
	ss seesaw.Device
	px *seesaw.Pixels
}

// New creates a NeoKey connection at addr. The I2C bus must already be
// configured. This function only creates the Device object; call Configure
// before using it.
func New(bus drivers.I2C, addr uint16) *Device {
	return &Device{ss: seesaw.New(bus, addr)}
}

// Configure resets and verifies the seesaw, sets the four key pins to
// pulled-up inputs with interrupts enabled, brings up the pixel string, and
// darkens it.
func (d *Device) Configure(cfgs ...Config) error {
	var cfg Config
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.Brightness == 0 {
		cfg.Brightness = DefaultBrightness
	}
	if a := d.ss.Addr(); a < BaseAddress || a > LastAddress {
		return ErrBadAddress
	}
	if err := d.ss.Configure(seesaw.Config{ReadDelay: cfg.ReadDelay}); err != nil {
		return err
	}
	if err := d.ss.PinModeBulkPullup(keyMask); err != nil {
		return err
	}
	if err := d.ss.SetGPIOInterrupts(keyMask, true); err != nil {
		return err
	}
	px, err := seesaw.NewPixels(&d.ss, pixelPin, KeyCount, seesaw.GRB)
	if err != nil {
		return err
	}
	px.SetBrightness(cfg.Brightness)
	d.px = px
	return px.Fill(0, 0, 0)
}

// Addr reports the board's I2C address.
func (d *Device) Addr() uint16 { return d.ss.Addr() }

// KeyCount implements keypad.BusChannel.
func (d *Device) KeyCount() int { return KeyCount }

// ReadMask samples the four keys in one transaction. The switches sit behind
// pull-ups, so the raw bulk read is inverted before masking: a set bit in
// the result means pressed.
func (d *Device) ReadMask() (keypad.RawMask, error) {
	bits, err := d.ss.DigitalReadBulk(keyMask)
	if err != nil {
		return 0, err
	}
	bits = ^bits & keyMask
	return keypad.RawMask(bits >> keyShift), nil
}

// WriteColor sets the pixel under one key.
func (d *Device) WriteColor(key int, c keypad.Color) error {
	if key < 0 || key >= KeyCount {
		return ErrBadKey
	}
	return d.px.SetColor(key, c.R(), c.G(), c.B())
}

// Fill sets all four pixels to one color.
func (d *Device) Fill(c keypad.Color) error {
	return d.px.Fill(c.R(), c.G(), c.B())
}

// SetBrightness rescales subsequently written colors, 0..255.
func (d *Device) SetBrightness(b uint8) { d.px.SetBrightness(b) }

// Pressed reads one key's electrical state immediately, bypassing any
// debouncing layered above.
func (d *Device) Pressed(key int) (bool, error) {
	if key < 0 || key >= KeyCount {
		return false, ErrBadKey
	}
	mask, err := d.ReadMask()
	if err != nil {
		return false, err
	}
	return mask.Bit(key), nil
}

// Detect probes the NeoKey address window [base, last] (zero means the full
// 0x30..0x3F window) and returns the addresses that answer with the seesaw
// hardware id, ascending. ErrNoDevice if none do.
func Detect(bus drivers.I2C, base, last uint16) ([]uint16, error) {
	if base == 0 {
		base = BaseAddress
	}
	if last == 0 {
		last = LastAddress
	}
	if base < BaseAddress || last > LastAddress || base > last {
		return nil, ErrBadAddress
	}
	var found []uint16
	for a := base; a <= last; a++ {
		ss := seesaw.New(bus, a)
		id, err := ss.HardwareID()
		if err != nil || id != seesaw.HardwareID {
			continue
		}
		found = append(found, a)
	}
	if len(found) == 0 {
		return nil, ErrNoDevice
	}
	return found, nil
}

var _ keypad.BusChannel = (*Device)(nil)
