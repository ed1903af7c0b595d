package seesaw

import (
	"errors"

	"neokey-go/x/mathx"
)

// PixelOrder selects the wire byte order of the attached LED string.
type PixelOrder uint8

const (
	GRB PixelOrder = iota // WS2812 / NeoKey
	RGB
)

var (
	ErrPixelRange = errors.New("seesaw: pixel index out of range")
)

// Pixels drives a NeoPixel string attached to a seesaw pin through the
// NEOPIXEL sub-module. Colors are written straight through (the seesaw keeps
// the frame buffer); brightness is applied in software on the way out.
type Pixels struct {
	dev        *Device
	n          int
	order      PixelOrder
	brightness uint8
}

// NewPixels configures the seesaw NeoPixel sub-module for n pixels on pin
// and returns a handle. Brightness starts at full scale.
func NewPixels(dev *Device, pin uint8, n int, order PixelOrder) (*Pixels, error) {
	p := &Pixels{dev: dev, n: n, order: order, brightness: 0xFF}
	if err := dev.write8(modNeoPixel, pixelSpeed, 0x01); err != nil { // 800 kHz
		return nil, err
	}
	if err := dev.write16(modNeoPixel, pixelBufLength, uint16(3*n)); err != nil {
		return nil, err
	}
	if err := dev.write8(modNeoPixel, pixelPin, pin); err != nil {
		return nil, err
	}
	return p, nil
}

// Len reports the number of pixels in the string.
func (p *Pixels) Len() int { return p.n }

// SetBrightness scales all subsequently written colors by b/255.
func (p *Pixels) SetBrightness(b uint8) { p.brightness = b }

// Brightness reports the current scale.
func (p *Pixels) Brightness() uint8 { return p.brightness }

// SetColor writes one pixel and latches the string.
func (p *Pixels) SetColor(i int, r, g, b uint8) error {
	if i < 0 || i >= p.n {
		return ErrPixelRange
	}
	var px [3]byte
	p.encode(px[:], r, g, b)
	if err := p.writeBuf(uint16(3*i), px[:]); err != nil {
		return err
	}
	return p.Show()
}

// Fill writes every pixel the same color and latches the string.
func (p *Pixels) Fill(r, g, b uint8) error {
	buf := make([]byte, 3*p.n)
	for i := 0; i < p.n; i++ {
		p.encode(buf[3*i:], r, g, b)
	}
	// The seesaw accepts at most 30 buffer bytes per transaction; chunk.
	for off := 0; off < len(buf); off += 12 {
		end := mathx.Min(off+12, len(buf))
		if err := p.writeBuf(uint16(off), buf[off:end]); err != nil {
			return err
		}
	}
	return p.Show()
}

// Show latches the staged frame onto the LEDs.
func (p *Pixels) Show() error {
	return p.dev.write(modNeoPixel, pixelShow, nil)
}

func (p *Pixels) encode(dst []byte, r, g, b uint8) {
	r = mathx.Scale8(r, p.brightness)
	g = mathx.Scale8(g, p.brightness)
	b = mathx.Scale8(b, p.brightness)
	if p.order == GRB {
		dst[0], dst[1], dst[2] = g, r, b
	} else {
		dst[0], dst[1], dst[2] = r, g, b
	}
}

// writeBuf stores data into the frame buffer at a big-endian byte offset.
func (p *Pixels) writeBuf(offset uint16, data []byte) error {
	d := p.dev
	d.buf[0], d.buf[1] = modNeoPixel, pixelBuf
	d.buf[2] = byte(offset >> 8)
	d.buf[3] = byte(offset)
	n := copy(d.buf[4:], data)
	return d.bus.Tx(d.addr, d.buf[:4+n], nil)
}
