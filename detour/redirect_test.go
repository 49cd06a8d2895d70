package detour

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"godetour/process"
)

func TestNearRedirect(t *testing.T) {
	from := process.Address(0x1000)
	to := process.Address(0x40500000)

	buf, err := redirect(Arch32, from, to, 5)
	if err != nil {
		t.Fatalf("redirect: %v", err)
	}
	if len(buf) != 5 {
		t.Fatalf("got %d bytes, want 5", len(buf))
	}
	if buf[0] != 0xE9 {
		t.Fatalf("opcode = %#x, want 0xE9", buf[0])
	}
	disp := int32(binary.LittleEndian.Uint32(buf[1:5]))
	if resolved := int64(from) + 5 + int64(disp); resolved != int64(to) {
		t.Errorf("displacement resolves to %#x, want %#x", resolved, uint64(to))
	}
}

func TestNearRedirectBackward(t *testing.T) {
	// Jumping to a lower address needs a negative displacement.
	from := process.Address(0x40500000)
	to := process.Address(0x1000)

	buf, err := redirect(Arch32, from, to, 5)
	if err != nil {
		t.Fatalf("redirect: %v", err)
	}
	disp := int32(binary.LittleEndian.Uint32(buf[1:5]))
	if disp >= 0 {
		t.Fatalf("displacement = %d, want negative", disp)
	}
	if resolved := int64(from) + 5 + int64(disp); resolved != int64(to) {
		t.Errorf("displacement resolves to %#x, want %#x", resolved, uint64(to))
	}
}

func TestNearRedirectPadding(t *testing.T) {
	buf, err := redirect(Arch32, 0x1000, 0x2000, 8)
	if err != nil {
		t.Fatalf("redirect: %v", err)
	}
	if len(buf) != 8 {
		t.Fatalf("got %d bytes, want 8", len(buf))
	}
	if !bytes.Equal(buf[5:], []byte{nop, nop, nop}) {
		t.Errorf("padding = % X, want 90 90 90", buf[5:])
	}
}

func TestFarRedirect(t *testing.T) {
	to := process.Address(0x7FF6_1234_5678)

	buf, err := redirect(Arch64, 0x1000, to, 14)
	if err != nil {
		t.Fatalf("redirect: %v", err)
	}
	if !bytes.Equal(buf[:6], []byte{0xFF, 0x25, 0x00, 0x00, 0x00, 0x00}) {
		t.Fatalf("prefix = % X, want FF 25 00 00 00 00", buf[:6])
	}
	if got := binary.LittleEndian.Uint64(buf[6:14]); got != uint64(to) {
		t.Errorf("absolute target = %#x, want %#x", got, uint64(to))
	}
}

func TestRedirectTooShort(t *testing.T) {
	cases := []struct {
		name    string
		arch    Arch
		reserve uint
	}{
		{"near 4 bytes", Arch32, 4},
		{"near 0 bytes", Arch32, 0},
		{"far 5 bytes", Arch64, 5},
		{"far 13 bytes", Arch64, 13},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := redirect(tc.arch, 0x1000, 0x2000, tc.reserve)
			if !errors.Is(err, process.ErrInstructionTooShort) {
				t.Errorf("err = %v, want ErrInstructionTooShort", err)
			}
		})
	}
}

func TestReturnRedirectUnpadded(t *testing.T) {
	// The trailing trampoline jump carries no NOP padding.
	if got := len(returnRedirect(Arch32, 0x5000, 0x1005)); got != 5 {
		t.Errorf("near return redirect = %d bytes, want 5", got)
	}
	if got := len(returnRedirect(Arch64, 0x5000, 0x100E)); got != 14 {
		t.Errorf("far return redirect = %d bytes, want 14", got)
	}
}
