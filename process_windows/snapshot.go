//go:build windows

package process_windows

import (
	"fmt"
	"iter"
	"strings"
	"unsafe"

	"godetour/process"

	"golang.org/x/sys/windows"
)

// Processes yields every process in a system snapshot.
func Processes() iter.Seq2[process.ProcessRef, error] {
	return func(yield func(process.ProcessRef, error) bool) {
		snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
		if err != nil {
			yield(process.ProcessRef{}, fmt.Errorf("CreateToolhelp32Snapshot: %w", err))
			return
		}
		defer windows.CloseHandle(snapshot)

		var entry windows.ProcessEntry32
		entry.Size = uint32(unsafe.Sizeof(entry))
		if err := windows.Process32First(snapshot, &entry); err != nil {
			yield(process.ProcessRef{}, fmt.Errorf("Process32First: %w", err))
			return
		}
		for {
			ref := process.ProcessRef{
				PID:       process.ProcessID(entry.ProcessID),
				ParentPID: process.ProcessID(entry.ParentProcessID),
				Name:      windows.UTF16ToString(entry.ExeFile[:]),
			}
			if !yield(ref, nil) {
				return
			}
			if err := windows.Process32Next(snapshot, &entry); err != nil {
				return // ERROR_NO_MORE_FILES: snapshot exhausted
			}
		}
	}
}

// FindProcess returns the first process whose executable name contains
// substr.
func FindProcess(substr string) (process.ProcessRef, bool, error) {
	return process.FindFirst(Processes(), substr)
}

// FindProcesses returns every process whose executable name contains substr.
func FindProcesses(substr string) ([]process.ProcessRef, error) {
	return process.FindAll(Processes(), substr)
}

// OpenProcessByName opens the first process whose executable name contains
// substr.
func OpenProcessByName(substr string) (*Process, error) {
	ref, found, err := FindProcess(substr)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%q: %w", substr, process.ErrProcessNotFound)
	}
	return NewWithPID(ref.PID)
}

// Modules yields every module loaded in the target, main executable first.
func (p *Process) Modules() iter.Seq2[process.ModuleRef, error] {
	pid := p.GetPID()
	return func(yield func(process.ModuleRef, error) bool) {
		snapshot, err := windows.CreateToolhelp32Snapshot(
			windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, uint32(pid))
		if err != nil {
			yield(process.ModuleRef{}, fmt.Errorf("CreateToolhelp32Snapshot(%d): %w", pid, err))
			return
		}
		defer windows.CloseHandle(snapshot)

		var entry windows.ModuleEntry32
		entry.Size = uint32(unsafe.Sizeof(entry))
		if err := windows.Module32First(snapshot, &entry); err != nil {
			yield(process.ModuleRef{}, fmt.Errorf("Module32First: %w", err))
			return
		}
		for {
			ref := process.ModuleRef{
				Name:        windows.UTF16ToString(entry.Module[:]),
				BaseAddress: process.Address(entry.ModBaseAddr),
				Size:        uint64(entry.ModBaseSize),
				Path:        windows.UTF16ToString(entry.ExePath[:]),
			}
			if !yield(ref, nil) {
				return
			}
			if err := windows.Module32Next(snapshot, &entry); err != nil {
				return
			}
		}
	}
}

// FindModule returns the first loaded module whose name contains substr,
// case-insensitive. Module names on disk mix cases freely.
func (p *Process) FindModule(substr string) (process.ModuleRef, bool, error) {
	substr = strings.ToLower(substr)
	for ref, err := range p.Modules() {
		if err != nil {
			return process.ModuleRef{}, false, err
		}
		if strings.Contains(strings.ToLower(ref.Name), substr) {
			return ref, true, nil
		}
	}
	return process.ModuleRef{}, false, nil
}
