//go:build windows

// Package process_windows drives a live Windows process: memory access,
// region scanning, thread suspension, module discovery and the patch/hook
// registries of package detour.
package process_windows

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"godetour/coloransi"
	"godetour/detour"
	"godetour/process"

	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

// Lazy kernel32 procs for the calls x/sys/windows does not wrap.
var (
	modkernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procVirtualAllocEx       = modkernel32.NewProc("VirtualAllocEx")
	procVirtualFreeEx        = modkernel32.NewProc("VirtualFreeEx")
	procCreateRemoteThreadEx = modkernel32.NewProc("CreateRemoteThreadEx")
	procGetSystemInfo        = modkernel32.NewProc("GetSystemInfo")
)

const _MEM_RELEASE = 0x8000

// Process owns the handle to one target process together with the patches
// and hooks installed through it. The OS handle is acquired by Open and
// released exactly once by Close; every operation in between fails with
// process.ErrProcessNotOpen when the handle is gone.
type Process struct {
	pid     process.ProcessID
	handle  windows.Handle
	wow64   bool
	detours *detour.Set
	log     *logger.Logger
	mu      sync.Mutex
}

// New creates an unopened Process.
func New() *Process {
	return &Process{
		log: logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open")),
	}
}

// NewWithPID creates a Process and opens it with the given PID.
func NewWithPID(pid process.ProcessID) (*Process, error) {
	p := New()
	if err := p.Open(pid); err != nil {
		return nil, err
	}
	return p, nil
}

// Open acquires a full-access handle to pid and resolves the target bitness
// once. The handle stays valid until Close.
func (p *Process) Open(pid process.ProcessID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != 0 {
		return fmt.Errorf("process %d already open", p.pid)
	}

	handle, err := windows.OpenProcess(windows.PROCESS_ALL_ACCESS, false, uint32(pid))
	if err != nil {
		return fmt.Errorf("OpenProcess(%d): %w", pid, openError(err))
	}

	var wow64 bool
	if err := windows.IsWow64Process(handle, &wow64); err != nil {
		windows.CloseHandle(handle)
		return fmt.Errorf("IsWow64Process(%d): %w", pid, err)
	}

	p.pid = pid
	p.handle = handle
	p.wow64 = wow64
	p.log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))
	p.detours = detour.NewSet(p)

	p.log.Infoln("Process opened")
	return nil
}

// openError maps the interesting OpenProcess failures onto the package
// sentinels, keeping the OS error attached for diagnostics.
func openError(err error) error {
	switch {
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return fmt.Errorf("%w: %w", process.ErrAccessDenied, err)
	case errors.Is(err, windows.ERROR_INVALID_PARAMETER):
		// OpenProcess reports a dead or unknown pid as an invalid parameter.
		return fmt.Errorf("%w: %w", process.ErrProcessNotFound, err)
	}
	return err
}

// Close releases the OS handle. Patches and hooks already written stay
// resident in the target; only their records die with the handle.
func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle != 0 {
		if err := windows.CloseHandle(p.handle); err != nil {
			return fmt.Errorf("CloseHandle: %w", err)
		}
		p.handle = 0
	}

	p.pid = 0
	p.wow64 = false
	p.detours = nil
	p.log = logger.NewLogger(coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open"))
	p.log.Infoln("Process closed")
	return nil
}

// GetPID returns the target process id.
func (p *Process) GetPID() process.ProcessID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pid
}

// Is32Bit reports whether the target runs under WOW64. Resolved once at
// Open; immutable afterwards.
func (p *Process) Is32Bit() bool {
	return p.wow64
}

// Detours returns the patch and hook registry owned by this handle, nil
// before Open and after Close.
func (p *Process) Detours() *detour.Set {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.detours
}

func (p *Process) openHandle() (windows.Handle, error) {
	p.mu.Lock()
	h := p.handle
	p.mu.Unlock()
	if h == 0 {
		return 0, process.ErrProcessNotOpen
	}
	return h, nil
}

// Read returns up to size bytes at addr. A range crossing into an
// inaccessible region yields the readable prefix: the caller sees a short
// slice, never padding.
func (p *Process) Read(addr process.Address, size uint) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	h, err := p.openHandle()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, size)
	var read uintptr
	err = windows.ReadProcessMemory(h, uintptr(addr), &buf[0], uintptr(size), &read)
	if err != nil && read == 0 {
		return nil, fmt.Errorf("ReadProcessMemory(%s): %w", addr, err)
	}
	return buf[:read], nil
}

// Write stores data at addr. The whole range must be writable already;
// Write never adjusts page protection (callers use Protect first).
func (p *Process) Write(addr process.Address, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	h, err := p.openHandle()
	if err != nil {
		return err
	}

	var written uintptr
	if err := windows.WriteProcessMemory(h, uintptr(addr), &data[0], uintptr(len(data)), &written); err != nil {
		return fmt.Errorf("WriteProcessMemory(%s): %w: %w", addr, process.ErrAddressUnwritable, err)
	}
	return nil
}

// Allocate commits size bytes inside the target at an OS-chosen base,
// read/write by default, read/write/execute when executable is set.
func (p *Process) Allocate(size uint, executable bool) (process.Address, error) {
	h, err := p.openHandle()
	if err != nil {
		return 0, err
	}

	protect := process.PAGE_READWRITE
	if executable {
		protect = process.PAGE_EXECUTE_READWRITE
	}
	addr, _, callErr := procVirtualAllocEx.Call(
		uintptr(h), 0, uintptr(size),
		uintptr(process.MEM_COMMIT|process.MEM_RESERVE), uintptr(protect))
	if addr == 0 {
		return 0, fmt.Errorf("VirtualAllocEx(%d bytes): %w: %w", size, process.ErrAllocationFailed, callErr)
	}
	p.log.Debugln("Allocated ", size, " bytes at ", process.Address(addr))
	return process.Address(addr), nil
}

// Free releases target memory obtained from Allocate.
func (p *Process) Free(addr process.Address) error {
	h, err := p.openHandle()
	if err != nil {
		return err
	}

	ret, _, callErr := procVirtualFreeEx.Call(uintptr(h), uintptr(addr), 0, _MEM_RELEASE)
	if ret == 0 {
		return fmt.Errorf("VirtualFreeEx(%s): %w", addr, callErr)
	}
	return nil
}

// Protect changes the protection of size bytes at addr and returns the
// protection previously in force.
func (p *Process) Protect(addr process.Address, size uint, protect uint32) (uint32, error) {
	h, err := p.openHandle()
	if err != nil {
		return 0, err
	}

	var old uint32
	if err := windows.VirtualProtectEx(h, uintptr(addr), uintptr(size), protect, &old); err != nil {
		return 0, fmt.Errorf("VirtualProtectEx(%s): %w", addr, err)
	}
	return old, nil
}

// CreateThread starts a thread inside the target at addr with param as its
// argument and returns the thread handle. The caller owns the handle.
func (p *Process) CreateThread(addr process.Address, param uintptr) (windows.Handle, error) {
	h, err := p.openHandle()
	if err != nil {
		return 0, err
	}

	var tid uint32
	thread, _, callErr := procCreateRemoteThreadEx.Call(
		uintptr(h), 0, 0, uintptr(addr), param, 0, 0,
		uintptr(unsafe.Pointer(&tid)))
	if thread == 0 {
		return 0, fmt.Errorf("CreateRemoteThreadEx(%s): %w", addr, callErr)
	}
	p.log.Debugln("Created remote thread ", tid, " at ", addr)
	return windows.Handle(thread), nil
}

// ReadPointer reads a pointer sized for the target bitness.
func (p *Process) ReadPointer(addr process.Address) (process.Address, error) {
	return process.ReadPointer(p, addr, p.Is32Bit())
}
