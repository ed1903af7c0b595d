package seesaw

// Module bases. Every seesaw transaction addresses a module base byte
// followed by a function byte.
const (
	modStatus   = 0x00
	modGPIO     = 0x01
	modNeoPixel = 0x0E
)

// STATUS module functions.
const (
	statusHWID  = 0x01
	statusSWRST = 0x7F
)

// GPIO module functions.
const (
	gpioDirSetBulk = 0x02
	gpioDirClrBulk = 0x03
	gpioBulk       = 0x04
	gpioBulkSet    = 0x05
	gpioBulkClr    = 0x06
	gpioIntenSet   = 0x08
	gpioIntenClr   = 0x09
	gpioPullEnSet  = 0x0B
)

// NEOPIXEL module functions.
const (
	pixelPin       = 0x01
	pixelSpeed     = 0x02
	pixelBufLength = 0x03
	pixelBuf       = 0x04
	pixelShow      = 0x05
)

// HardwareID is the chip id reported by the SAMD09 seesaw boards this
// driver targets.
const HardwareID = 0x55
