package keypad

import "time"

// keyState is the per-key confirm-on-stability filter. The reported (stable)
// state changes only after the raw sample has agreed with itself for the full
// debounce interval; any flicker restarts the window, so chatter can never
// produce more than one transition.
type keyState struct {
	stable       bool // debounced state reported to the caller
	candidate    bool // most recent raw sample
	pending      bool // a debounce window is open
	pendingSince time.Time
}

// update feeds one raw sample taken at now. The second result reports
// whether a transition committed on this sample; the first is the newly
// stable state (equal to the press direction of the transition).
func (k *keyState) update(raw bool, now time.Time, debounce time.Duration) (bool, bool) {
	if raw != k.candidate {
		// Level changed since the last sample: restart the window.
		k.candidate = raw
		k.pending = true
		k.pendingSince = now
		return false, false
	}
	if !k.pending {
		return false, false
	}
	if k.candidate == k.stable {
		// Flickered away and back; nothing to confirm.
		k.pending = false
		return false, false
	}
	if now.Sub(k.pendingSince) < debounce {
		return false, false
	}
	k.stable = k.candidate
	k.pending = false
	return k.stable, true
}
