package conv

import "testing"

func TestItoa(t *testing.T) {
	var buf [20]byte
	cases := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{42, "42"},
		{-3, "-3"},
		{1234567890, "1234567890"},
	}
	for _, c := range cases {
		if got := string(Itoa(buf[:], c.n)); got != c.want {
			t.Fatalf("Itoa(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestU16Hex(t *testing.T) {
	var buf [4]byte
	if got := string(U16Hex(buf[:], 0x30)); got != "0030" {
		t.Fatalf("U16Hex(0x30) = %q", got)
	}
	if got := string(U16Hex(buf[:], 0xBEEF)); got != "BEEF" {
		t.Fatalf("U16Hex(0xBEEF) = %q", got)
	}
}
