package detour

import (
	"encoding/binary"
	"fmt"

	"godetour/process"
)

const (
	nearJumpSize = 5  // E9 rel32
	farJumpSize  = 14 // FF 25 00000000 imm64
	nop          = 0x90
)

// redirect encodes a jump located at from targeting to, padded with NOPs to
// occupy exactly reserve bytes. reserve is the length of the instructions
// being overwritten and must cover the minimum jump encoding.
func redirect(arch Arch, from, to process.Address, reserve uint) ([]byte, error) {
	if reserve < arch.redirectSize() {
		return nil, fmt.Errorf("%w: %s redirect needs %d bytes at %s, have %d",
			process.ErrInstructionTooShort, arch, arch.redirectSize(), from, reserve)
	}
	buf := make([]byte, reserve)
	writeJump(arch, buf, from, to)
	for i := arch.redirectSize(); i < reserve; i++ {
		buf[i] = nop
	}
	return buf, nil
}

// returnRedirect encodes the unpadded trailing jump of a trampoline, located
// at from and targeting to.
func returnRedirect(arch Arch, from, to process.Address) []byte {
	buf := make([]byte, arch.redirectSize())
	writeJump(arch, buf, from, to)
	return buf
}

func writeJump(arch Arch, buf []byte, from, to process.Address) {
	if arch == Arch32 {
		buf[0] = 0xE9
		disp := int32(int64(to) - int64(from) - nearJumpSize)
		binary.LittleEndian.PutUint32(buf[1:nearJumpSize], uint32(disp))
		return
	}
	copy(buf, []byte{0xFF, 0x25, 0x00, 0x00, 0x00, 0x00})
	binary.LittleEndian.PutUint64(buf[6:farJumpSize], uint64(to))
}
