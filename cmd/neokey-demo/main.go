// Command neokey-demo: NeoKey 1x4 bring-up on RP2040/Pico.
//
// Build/flash (TinyGo):
//
//	tinygo flash -target pico ./cmd/neokey-demo
//
// Wiring assumptions:
//   - I2C0 @ 400 kHz on Pico defaults: SDA=GP4, SCL=GP5.
//   - NeoKey 1x4 at address 0x30 (no bridges soldered).
//   - Key events are echoed on UART0 (GP0/GP1, 115200 8N1).
//
// Key 0 toggles between two color modes, key 3 blinks, and every key prints
// a line on the UART when it fires.
package main

import (
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"machine"

	"neokey-go/drivers/neokey"
	"neokey-go/keypad"
	"neokey-go/x/conv"
)

const pollEvery = 5 * time.Millisecond

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(3 * time.Second)
	println("\n== neokey-demo: NeoKey 1x4 + UART event console ==")

	machine.I2C0.Configure(machine.I2CConfig{Frequency: 400_000})
	_ = uartx.UART0.Configure(uartx.UARTConfig{BaudRate: 115200})

	dev := neokey.New(machine.I2C0, neokey.BaseAddress)
	if err := dev.Configure(); err != nil {
		for {
			println("neokey configure failed:", err.Error())
			time.Sleep(2 * time.Second)
		}
	}

	eng := keypad.New(dev, keypad.Config{})

	// ------------------------------------------------------------------
	// EDITABLE CONFIGURATION
	// ------------------------------------------------------------------
	must(eng.SetColorModes(0, []keypad.ColorMode{
		{Name: "dim", Colors: []keypad.Color{
			0x200000, 0x002000, 0x000020, 0x202000,
		}},
		{Name: "bright", Colors: []keypad.Color{
			0xFF0000, 0x00FF00, 0x0000FF, 0xFFFF00,
		}},
	}))
	must(eng.EnableBlink(3, 300*time.Millisecond, 700*time.Millisecond))
	for k := 0; k < eng.KeyCount(); k++ {
		must(eng.ArmAction(k, logEvent))
	}

	for {
		if _, err := eng.Poll(time.Now()); err != nil {
			println("poll:", err.Error())
			time.Sleep(time.Second)
			continue
		}
		for {
			ev, ok := eng.NextEvent()
			if !ok {
				break
			}
			if !ev.Pressed {
				logEvent(ev)
			}
		}
		time.Sleep(pollEvery)
	}
}

// logEvent writes one "key N pressed/released" line on UART0. Presses arrive
// here via ArmAction, releases via the main loop.
func logEvent(ev keypad.Event) {
	var num [20]byte
	line := make([]byte, 0, 24)
	line = append(line, "key "...)
	line = append(line, conv.Itoa(num[:], int64(ev.Key))...)
	if ev.Pressed {
		line = append(line, " pressed\r\n"...)
	} else {
		line = append(line, " released\r\n"...)
	}
	_, _ = uartx.UART0.Write(line)
}

func must(err error) {
	if err != nil {
		for {
			println("setup failed:", err.Error())
			time.Sleep(2 * time.Second)
		}
	}
}
