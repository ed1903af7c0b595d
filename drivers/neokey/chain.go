package neokey

import "neokey-go/keypad"

// Chain composes several NeoKey boards into one logical channel. Key numbers
// follow board order: 0-3 on the first board, 4-7 on the second, and so on.
// Board order in the slice, not address order, decides the numbering.
//
// All boards share the caller's I2C bus; a chain read is one bulk read per
// board. If any board's read fails the whole sample fails, so the engine
// above never sees a half-updated mask.
type Chain struct {
	devs []*Device
}

// NewChain builds a chain over already-Configured devices.
func NewChain(devs ...*Device) *Chain {
	return &Chain{devs: devs}
}

// KeyCount implements keypad.BusChannel.
func (c *Chain) KeyCount() int { return KeyCount * len(c.devs) }

// ReadMask samples every board and packs the per-board masks into one.
func (c *Chain) ReadMask() (keypad.RawMask, error) {
	var mask keypad.RawMask
	for i, d := range c.devs {
		m, err := d.ReadMask()
		if err != nil {
			return 0, err
		}
		mask |= m << uint(i*KeyCount)
	}
	return mask, nil
}

// WriteColor routes the write to the board owning key.
func (c *Chain) WriteColor(key int, col keypad.Color) error {
	if key < 0 || key >= c.KeyCount() {
		return ErrBadKey
	}
	return c.devs[key/KeyCount].WriteColor(key%KeyCount, col)
}

// Fill sets every key on every board to one color.
func (c *Chain) Fill(col keypad.Color) error {
	for _, d := range c.devs {
		if err := d.Fill(col); err != nil {
			return err
		}
	}
	return nil
}

var _ keypad.BusChannel = (*Chain)(nil)
