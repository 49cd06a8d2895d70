// Package process holds the shared vocabulary for instrumenting a target
// process: addresses, memory regions, thread and module references, and the
// pure logic (region walking, name matching, typed reads) that does not touch
// the platform.
package process

import "fmt"

// ProcessID identifies a process. Win32 process ids are DWORDs.
type ProcessID uint32

// Address is a virtual address inside a target process.
type Address uint64

func (a Address) String() string {
	return fmt.Sprintf("0x%X", uint64(a))
}

// ThreadRef identifies one thread taken from a system-wide snapshot. The
// owner pid is carried because snapshots cover every process on the system
// and callers must filter.
type ThreadRef struct {
	ThreadID       uint32
	OwnerProcessID ProcessID
}

// ModuleRef describes one image loaded inside a target process.
type ModuleRef struct {
	Name        string
	BaseAddress Address
	Size        uint64
	Path        string
}

// EndAddress returns the last address occupied by the module.
func (m ModuleRef) EndAddress() Address {
	return m.BaseAddress + Address(m.Size) - 1
}

// ProcessRef describes one entry of a system process snapshot.
type ProcessRef struct {
	PID       ProcessID
	ParentPID ProcessID
	Name      string
}
