package process

import (
	"testing"
)

// byteReader serves reads from a byte slice mapped at base, truncating at
// the end like a read crossing into unmapped space.
type byteReader struct {
	base Address
	data []byte
}

func (b *byteReader) Read(addr Address, size uint) ([]byte, error) {
	off := int(addr - b.base)
	if off < 0 || off >= len(b.data) {
		return nil, ErrProcessNotOpen
	}
	end := off + int(size)
	if end > len(b.data) {
		end = len(b.data)
	}
	return b.data[off:end], nil
}

func TestReadUintSizes(t *testing.T) {
	r := &byteReader{base: 0x1000, data: []byte{0x78, 0x56, 0x34, 0x12, 0xEF, 0xBE, 0xAD, 0xDE}}

	if v, err := ReadUint8(r, 0x1000); err != nil || v != 0x78 {
		t.Errorf("ReadUint8 = %#x, %v; want 0x78", v, err)
	}
	if v, err := ReadUint16(r, 0x1000); err != nil || v != 0x5678 {
		t.Errorf("ReadUint16 = %#x, %v; want 0x5678", v, err)
	}
	if v, err := ReadUint32(r, 0x1000); err != nil || v != 0x12345678 {
		t.Errorf("ReadUint32 = %#x, %v; want 0x12345678", v, err)
	}
	if v, err := ReadUint64(r, 0x1000); err != nil || v != 0xDEADBEEF12345678 {
		t.Errorf("ReadUint64 = %#x, %v; want 0xDEADBEEF12345678", v, err)
	}
}

func TestReadPointerWidth(t *testing.T) {
	r := &byteReader{base: 0x1000, data: []byte{0x44, 0x33, 0x22, 0x11, 0x88, 0x77, 0x66, 0x55}}

	p32, err := ReadPointer(r, 0x1000, true)
	if err != nil {
		t.Fatalf("ReadPointer 32: %v", err)
	}
	if p32 != 0x11223344 {
		t.Errorf("32-bit pointer = %s, want 0x11223344", p32)
	}

	p64, err := ReadPointer(r, 0x1000, false)
	if err != nil {
		t.Fatalf("ReadPointer 64: %v", err)
	}
	if p64 != 0x5566778811223344 {
		t.Errorf("64-bit pointer = %s, want 0x5566778811223344", p64)
	}
}

func TestReadFloats(t *testing.T) {
	// 1.5 as float32 little-endian, then 2.5 as float64.
	r := &byteReader{base: 0x1000, data: []byte{0x00, 0x00, 0xC0, 0x3F}}
	if v, err := ReadFloat32(r, 0x1000); err != nil || v != 1.5 {
		t.Errorf("ReadFloat32 = %v, %v; want 1.5", v, err)
	}

	r = &byteReader{base: 0x1000, data: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x40}}
	if v, err := ReadFloat64(r, 0x1000); err != nil || v != 2.5 {
		t.Errorf("ReadFloat64 = %v, %v; want 2.5", v, err)
	}
}

func TestReadShortReadRejected(t *testing.T) {
	r := &byteReader{base: 0x1000, data: []byte{0x01, 0x02}}
	if _, err := ReadUint64(r, 0x1000); err == nil {
		t.Error("short read did not fail a typed read")
	}
}

func TestReadNTS(t *testing.T) {
	r := &byteReader{base: 0x1000, data: append([]byte("player.exe\x00garbage"), 0)}

	s, err := ReadNTS(r, 0x1000, 32)
	if err != nil {
		t.Fatalf("ReadNTS: %v", err)
	}
	if s != "player.exe" {
		t.Errorf("ReadNTS = %q, want player.exe", s)
	}
}

func TestReadNTSUnterminated(t *testing.T) {
	// No terminator inside the window: the whole window is the string.
	r := &byteReader{base: 0x1000, data: []byte("abcdef")}
	s, err := ReadNTS(r, 0x1000, 4)
	if err != nil {
		t.Fatalf("ReadNTS: %v", err)
	}
	if s != "abcd" {
		t.Errorf("ReadNTS = %q, want abcd", s)
	}
}

func TestReadNTSZeroLength(t *testing.T) {
	r := &byteReader{base: 0x1000, data: []byte("x")}
	s, err := ReadNTS(r, 0x1000, 0)
	if err != nil || s != "" {
		t.Errorf("ReadNTS = %q, %v; want empty", s, err)
	}
}

func TestAddressString(t *testing.T) {
	if got := Address(0xDEAD).String(); got != "0xDEAD" {
		t.Errorf("String = %q, want 0xDEAD", got)
	}
}

func TestModuleRefEndAddress(t *testing.T) {
	m := ModuleRef{BaseAddress: 0x400000, Size: 0x1000}
	if got := m.EndAddress(); got != 0x400FFF {
		t.Errorf("EndAddress = %s, want 0x400FFF", got)
	}
}
