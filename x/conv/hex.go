package conv

// U16Hex writes a 2-digit-per-byte uppercase hex rendering of n without 0x,
// zero-padded to 4 digits. Handy for I2C addresses in log lines.
func U16Hex(buf []byte, n uint16) []byte {
	if len(buf) < 4 {
		return buf[:0]
	}
	const hexd = "0123456789ABCDEF"
	i := len(buf)
	for j := 0; j < 4; j++ {
		i--
		buf[i] = hexd[n&0xF]
		n >>= 4
	}
	return buf[i:]
}
