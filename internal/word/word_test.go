package word

import "testing"

func TestSignExtendPositive(t *testing.T) {
	got := SignExtend(0x05, 5) // bit 4 clear
	if got != 0x0005 {
		t.Fatalf("SignExtend(0x05, 5) = 0x%04X, want 0x0005", got)
	}
}

func TestSignExtendNegative(t *testing.T) {
	got := SignExtend(0x1F, 5) // -1 in 5 bits, bit 4 set
	if got != 0xFFFF {
		t.Fatalf("SignExtend(0x1F, 5) = 0x%04X, want 0xFFFF", got)
	}
}

func TestSignExtendOffset9(t *testing.T) {
	got := SignExtend(0x1FF, 9) // -1 in 9 bits
	if got != 0xFFFF {
		t.Fatalf("SignExtend(0x1FF, 9) = 0x%04X, want 0xFFFF", got)
	}

	got = SignExtend(0x0FF, 9) // +255 in 9 bits, sign bit clear
	if got != 0x00FF {
		t.Fatalf("SignExtend(0x0FF, 9) = 0x%04X, want 0x00FF", got)
	}
}

func TestSignExtendFullWidth(t *testing.T) {
	if got := SignExtend(0x7FFF, 16); got != 0x7FFF {
		t.Fatalf("SignExtend(0x7FFF, 16) = 0x%04X, want 0x7FFF", got)
	}
	if got := SignExtend(0x8000, 16); got != 0x8000 {
		t.Fatalf("SignExtend(0x8000, 16) = 0x%04X, want 0x8000", got)
	}
}

func TestSwapEndianRoundTrip(t *testing.T) {
	cases := []uint16{0x0000, 0xFFFF, 0x3000, 0x00FF, 0xABCD}

	for _, x := range cases {
		if got := SwapEndian(SwapEndian(x)); got != x {
			t.Fatalf("SwapEndian(SwapEndian(0x%04X)) = 0x%04X, want 0x%04X", x, got, x)
		}
	}
}

func TestSwapEndianSwapsBytes(t *testing.T) {
	got := SwapEndian(0x3000)
	if got != 0x0030 {
		t.Fatalf("SwapEndian(0x3000) = 0x%04X, want 0x0030", got)
	}
}
