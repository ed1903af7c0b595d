// Package seesaw drives Adafruit's seesaw I2C I/O expander. Only the surface
// a keypad needs is implemented: soft reset and identification, bulk GPIO
// input with pull-ups, GPIO interrupt enables, and the NeoPixel sub-module.
//
// Register reads are two transactions: address the register, pause for the
// chip to stage the answer, then read back. The pause is Config.ReadDelay.
package seesaw

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

// Errors returned by the driver.
var (
	ErrWrongHardware = errors.New("seesaw: unexpected hardware id")
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// ReadDelay is the pause between addressing a register and reading it
	// back. Default 250 µs.
	ReadDelay time.Duration
}

// Device wraps an I2C connection to one seesaw chip.
type Device struct {
	bus       drivers.I2C
	addr      uint16
	readDelay time.Duration
	buf       [20]byte // transaction scratch, avoids allocations
}

// New creates a seesaw connection. The I2C bus must already be configured.
// This function only creates the Device object; it does not touch the chip.
func New(bus drivers.I2C, addr uint16) Device {
	return Device{
		bus:       bus,
		addr:      addr,
		readDelay: 250 * time.Microsecond,
	}
}

// Addr reports the device's I2C address.
func (d *Device) Addr() uint16 { return d.addr }

// Configure resets the chip, waits for it to come back, and verifies the
// hardware id. It may be called with no cfg.
func (d *Device) Configure(cfgs ...Config) error {
	if len(cfgs) > 0 && cfgs[0].ReadDelay > 0 {
		d.readDelay = cfgs[0].ReadDelay
	}
	if err := d.SoftReset(); err != nil {
		return err
	}
	time.Sleep(10 * time.Millisecond)
	id, err := d.HardwareID()
	if err != nil {
		return err
	}
	if id != HardwareID {
		return ErrWrongHardware
	}
	return nil
}

// SoftReset restarts the chip. Give it ~10 ms before using it again.
func (d *Device) SoftReset() error {
	return d.write8(modStatus, statusSWRST, 0xFF)
}

// HardwareID reads the chip identification byte.
func (d *Device) HardwareID() (byte, error) {
	var r [1]byte
	if err := d.read(modStatus, statusHWID, r[:]); err != nil {
		return 0, err
	}
	return r[0], nil
}

// PinModeBulkPullup configures every pin in mask as a pulled-up input.
func (d *Device) PinModeBulkPullup(mask uint32) error {
	if err := d.write32(modGPIO, gpioDirClrBulk, mask); err != nil {
		return err
	}
	if err := d.write32(modGPIO, gpioPullEnSet, mask); err != nil {
		return err
	}
	// Driving the (input) pins high selects pull-up rather than pull-down.
	return d.write32(modGPIO, gpioBulkSet, mask)
}

// SetGPIOInterrupts enables or disables interrupt generation for the masked
// pins. The INT line itself is the board's concern; polling works without it.
func (d *Device) SetGPIOInterrupts(mask uint32, enable bool) error {
	fn := byte(gpioIntenClr)
	if enable {
		fn = gpioIntenSet
	}
	return d.write32(modGPIO, fn, mask)
}

// DigitalReadBulk samples all 32 GPIO pins at once and masks the result.
func (d *Device) DigitalReadBulk(mask uint32) (uint32, error) {
	var r [4]byte
	if err := d.read(modGPIO, gpioBulk, r[:]); err != nil {
		return 0, err
	}
	v := uint32(r[0])<<24 | uint32(r[1])<<16 | uint32(r[2])<<8 | uint32(r[3])
	return v & mask, nil
}

// ---- low-level register I/O ----

func (d *Device) write(mod, fn byte, data []byte) error {
	d.buf[0], d.buf[1] = mod, fn
	n := copy(d.buf[2:], data)
	return d.bus.Tx(d.addr, d.buf[:2+n], nil)
}

func (d *Device) write8(mod, fn, v byte) error {
	d.buf[0], d.buf[1], d.buf[2] = mod, fn, v
	return d.bus.Tx(d.addr, d.buf[:3], nil)
}

func (d *Device) write16(mod, fn byte, v uint16) error {
	d.buf[0], d.buf[1] = mod, fn
	d.buf[2] = byte(v >> 8)
	d.buf[3] = byte(v)
	return d.bus.Tx(d.addr, d.buf[:4], nil)
}

func (d *Device) write32(mod, fn byte, v uint32) error {
	d.buf[0], d.buf[1] = mod, fn
	d.buf[2] = byte(v >> 24)
	d.buf[3] = byte(v >> 16)
	d.buf[4] = byte(v >> 8)
	d.buf[5] = byte(v)
	return d.bus.Tx(d.addr, d.buf[:6], nil)
}

func (d *Device) read(mod, fn byte, r []byte) error {
	d.buf[0], d.buf[1] = mod, fn
	if err := d.bus.Tx(d.addr, d.buf[:2], nil); err != nil {
		return err
	}
	time.Sleep(d.readDelay)
	return d.bus.Tx(d.addr, nil, r)
}
