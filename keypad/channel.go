package keypad

// RawMask is one hardware sample of every key at once: bit i is set iff key i
// reads electrically pressed. A mask is produced fresh each poll and not
// retained beyond it.
type RawMask uint32

// Bit reports the raw state of key i.
func (m RawMask) Bit(i int) bool { return m&(1<<uint(i)) != 0 }

// Color is a packed 24-bit RGB value, 0xRRGGBB. How it reaches the LED driver
// (byte order, brightness scaling) is the channel's concern.
type Color uint32

// RGB packs three 8-bit components into a Color.
func RGB(r, g, b uint8) Color {
	return Color(r)<<16 | Color(g)<<8 | Color(b)
}

func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// Off is the all-LEDs-dark color.
const Off Color = 0x000000

// BusChannel is the transport the engine drives: one synchronous sample of
// all keys, and per-key color writes. Implementations carry the device's
// register layout and addressing; the engine only sees this surface.
//
// A channel is a single-owner resource. Neither the engine nor the channel
// adds locking; callers sharing one physical bus between engines must
// serialize access themselves.
type BusChannel interface {
	// KeyCount reports the fixed number of keys behind this channel.
	KeyCount() int
	// ReadMask samples every key in one transaction.
	ReadMask() (RawMask, error)
	// WriteColor sets the indicator color under one key.
	WriteColor(key int, c Color) error
}
