package detour

import "godetour/process"

// Process is the slice of a process handle the patch and hook registries
// drive. process_windows.Process satisfies it.
type Process interface {
	// Read returns up to size bytes at addr; a short read is partial
	// success, not an error.
	Read(addr process.Address, size uint) ([]byte, error)

	// Write stores data at addr. The whole range must already be writable.
	Write(addr process.Address, data []byte) error

	// Allocate commits size bytes of read/write memory inside the target,
	// read/write/execute when executable is set, and returns the OS-chosen
	// base.
	Allocate(size uint, executable bool) (process.Address, error)

	// Free releases memory obtained from Allocate.
	Free(addr process.Address) error

	// Protect changes the protection of size bytes at addr and returns the
	// protection previously in force.
	Protect(addr process.Address, size uint, protect uint32) (uint32, error)

	// SuspendAll suspends every thread of the target, best effort.
	SuspendAll() error

	// ResumeAll resumes every thread of the target, best effort.
	ResumeAll() error

	// Is32Bit reports whether the target runs under 32-bit emulation.
	Is32Bit() bool
}
