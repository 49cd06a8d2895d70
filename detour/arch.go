// Package detour installs reversible byte patches and code detours into a
// live target process. A detour overwrites the instructions at a code
// address with a jump to a trampoline allocated inside the target; the
// trampoline runs caller-supplied code and jumps back past the overwritten
// instructions.
package detour

// Arch selects the redirect encoding for the target process. It is resolved
// once per handle from the target bitness instead of re-branching at every
// call site.
type Arch uint8

const (
	// Arch32 targets use a near relative jump: E9 followed by a 32-bit
	// signed displacement, 5 bytes.
	Arch32 Arch = iota

	// Arch64 targets use an indirect absolute jump: FF 25 00 00 00 00
	// followed by the 64-bit target address, 14 bytes. A near jump cannot
	// encode an arbitrary 64-bit displacement.
	Arch64
)

func (a Arch) String() string {
	if a == Arch32 {
		return "x86"
	}
	return "x64"
}

// redirectSize returns the minimum redirect encoding for the architecture.
func (a Arch) redirectSize() uint {
	if a == Arch32 {
		return nearJumpSize
	}
	return farJumpSize
}
