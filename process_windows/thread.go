//go:build windows

package process_windows

import (
	"fmt"
	"iter"
	"unsafe"

	"godetour/process"

	"golang.org/x/sys/windows"
)

// Threads yields every thread currently owned by the target. Thread
// snapshots are system-wide; entries of other processes are filtered out
// here.
func (p *Process) Threads() iter.Seq2[process.ThreadRef, error] {
	pid := p.GetPID()
	return func(yield func(process.ThreadRef, error) bool) {
		snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPTHREAD, 0)
		if err != nil {
			yield(process.ThreadRef{}, fmt.Errorf("CreateToolhelp32Snapshot: %w", err))
			return
		}
		defer windows.CloseHandle(snapshot)

		var entry windows.ThreadEntry32
		entry.Size = uint32(unsafe.Sizeof(entry))
		if err := windows.Thread32First(snapshot, &entry); err != nil {
			yield(process.ThreadRef{}, fmt.Errorf("Thread32First: %w", err))
			return
		}
		for {
			if process.ProcessID(entry.OwnerProcessID) == pid {
				ref := process.ThreadRef{ThreadID: entry.ThreadID, OwnerProcessID: pid}
				if !yield(ref, nil) {
					return
				}
			}
			if err := windows.Thread32Next(snapshot, &entry); err != nil {
				return // ERROR_NO_MORE_FILES: snapshot exhausted
			}
		}
	}
}

// SuspendAll suspends every thread of the target, creating the safe window
// for mutating live code. A thread that exited or cannot be opened between
// enumeration and suspension is logged and skipped. The controller keeps no
// suspension depth: callers must pair each SuspendAll with one ResumeAll or
// the target's suspend counts accumulate.
func (p *Process) SuspendAll() error {
	return p.eachThread("suspend", func(h windows.Handle) error {
		_, err := windows.SuspendThread(h)
		return err
	})
}

// ResumeAll resumes every thread of the target, symmetric to SuspendAll.
func (p *Process) ResumeAll() error {
	return p.eachThread("resume", func(h windows.Handle) error {
		_, err := windows.ResumeThread(h)
		return err
	})
}

func (p *Process) eachThread(what string, op func(windows.Handle) error) error {
	for ref, err := range p.Threads() {
		if err != nil {
			return err
		}
		h, err := windows.OpenThread(windows.THREAD_SUSPEND_RESUME, false, ref.ThreadID)
		if err != nil {
			p.log.Warn("OpenThread ", ref.ThreadID, ": ", err)
			continue
		}
		if err := op(h); err != nil {
			p.log.Warn(what, " thread ", ref.ThreadID, ": ", err)
		}
		windows.CloseHandle(h)
	}
	return nil
}
