package process

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Reader reads bytes out of a target process. A read crossing into an
// inaccessible region may legally return fewer bytes than requested.
type Reader interface {
	Read(addr Address, size uint) ([]byte, error)
}

// readFull rejects short reads; a truncated value is useless to the typed
// helpers below.
func readFull(r Reader, addr Address, size uint) ([]byte, error) {
	data, err := r.Read(addr, size)
	if err != nil {
		return nil, err
	}
	if uint(len(data)) < size {
		return nil, fmt.Errorf("short read at %s: want %d bytes, got %d", addr, size, len(data))
	}
	return data, nil
}

// ReadUint8 reads an unsigned 8-bit integer at addr.
func ReadUint8(r Reader, addr Address) (uint8, error) {
	data, err := readFull(r, addr, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// ReadUint16 reads an unsigned 16-bit little-endian integer at addr.
func ReadUint16(r Reader, addr Address) (uint16, error) {
	data, err := readFull(r, addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(data), nil
}

// ReadUint32 reads an unsigned 32-bit little-endian integer at addr.
func ReadUint32(r Reader, addr Address) (uint32, error) {
	data, err := readFull(r, addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// ReadUint64 reads an unsigned 64-bit little-endian integer at addr.
func ReadUint64(r Reader, addr Address) (uint64, error) {
	data, err := readFull(r, addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(data), nil
}

// ReadFloat32 reads a 32-bit floating point number at addr.
func ReadFloat32(r Reader, addr Address) (float32, error) {
	bits, err := ReadUint32(r, addr)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

// ReadFloat64 reads a 64-bit floating point number at addr.
func ReadFloat64(r Reader, addr Address) (float64, error) {
	bits, err := ReadUint64(r, addr)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// ReadPointer reads a pointer at addr, 4 bytes wide for a 32-bit target and
// 8 for a 64-bit one.
func ReadPointer(r Reader, addr Address, is32bit bool) (Address, error) {
	if is32bit {
		v, err := ReadUint32(r, addr)
		return Address(v), err
	}
	v, err := ReadUint64(r, addr)
	return Address(v), err
}

// ReadNTS reads a null-terminated string at addr, scanning at most maxLength
// bytes. A short read only truncates the scan window.
func ReadNTS(r Reader, addr Address, maxLength uint) (string, error) {
	if maxLength == 0 {
		return "", nil
	}
	data, err := r.Read(addr, maxLength)
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data), nil
}
