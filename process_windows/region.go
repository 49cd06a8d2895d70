//go:build windows

package process_windows

import (
	"fmt"
	"iter"
	"unsafe"

	"godetour/process"

	"golang.org/x/sys/windows"
)

// SYSTEM_INFO. x/sys/windows does not wrap GetSystemInfo.
type systemInfo struct {
	ProcessorArchitecture     uint16
	Reserved                  uint16
	PageSize                  uint32
	MinimumApplicationAddress uintptr
	MaximumApplicationAddress uintptr
	ActiveProcessorMask       uintptr
	NumberOfProcessors        uint32
	ProcessorType             uint32
	AllocationGranularity     uint32
	ProcessorLevel            uint16
	ProcessorRevision         uint16
}

// AddressBounds returns the system's minimum and maximum application
// addresses, the range region scans cover.
func (p *Process) AddressBounds() (process.Address, process.Address) {
	var si systemInfo
	procGetSystemInfo.Call(uintptr(unsafe.Pointer(&si)))
	return process.Address(si.MinimumApplicationAddress), process.Address(si.MaximumApplicationAddress)
}

// QueryRegion returns the region of the target address space containing
// addr.
func (p *Process) QueryRegion(addr process.Address) (process.MemoryRegion, error) {
	h, err := p.openHandle()
	if err != nil {
		return process.MemoryRegion{}, err
	}

	var mbi windows.MemoryBasicInformation
	if err := windows.VirtualQueryEx(h, uintptr(addr), &mbi, unsafe.Sizeof(mbi)); err != nil {
		return process.MemoryRegion{}, fmt.Errorf("VirtualQueryEx(%s): %w", addr, err)
	}
	return process.MemoryRegion{
		BaseAddress: process.Address(mbi.BaseAddress),
		Size:        uint64(mbi.RegionSize),
		State:       mbi.State,
		Protect:     mbi.Protect,
		Type:        mbi.Type,
	}, nil
}

// Regions walks the target address space from the minimum application
// address and yields every region matching filter. See process.Regions for
// the sequence semantics.
func (p *Process) Regions(filter process.RegionFilter) iter.Seq2[process.MemoryRegion, error] {
	return process.Regions(p, filter)
}
