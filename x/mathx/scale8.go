package mathx

// Scale8 scales v by s/255 with rounding. Used for LED brightness, where
// s==255 must be the identity and s==0 must force zero.
func Scale8(v, s uint8) uint8 {
	return uint8((uint16(v)*uint16(s) + 127) / 255)
}
