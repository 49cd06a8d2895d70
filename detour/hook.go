package detour

import (
	"fmt"

	"godetour/process"
)

// Hook is one installed detour. While the hook exists the bytes at
// HookAddress are the forward redirect and Trampoline addresses the block
// holding the injected code plus the jump back past the overwritten
// instructions. Removal restores the saved bytes bit-exact before the
// trampoline is freed.
type Hook struct {
	Name        string
	HookAddress process.Address
	Trampoline  process.Address
	saved       []byte
}

// SavedOriginal returns a copy of the instruction bytes the hook replaced.
func (h *Hook) SavedOriginal() []byte {
	out := make([]byte, len(h.saved))
	copy(out, h.saved)
	return out
}

// InstallHook detours execution at hookAddr into code. instrLen is the
// caller-measured length of the whole instructions being overwritten; it
// must cover the redirect encoding of the target architecture. The target
// is fully suspended around the mutation and always resumed again, success
// or failure. On failure the target keeps its pre-call state.
func (s *Set) InstallHook(name string, hookAddr process.Address, instrLen uint, code []byte) (*Hook, error) {
	if _, exists := s.hooks[name]; exists {
		return nil, fmt.Errorf("hook %q: %w", name, process.ErrDuplicateName)
	}
	// Fail the undersized case before stopping the world.
	if instrLen < s.arch.redirectSize() {
		return nil, fmt.Errorf("hook %q: %w: %s redirect needs %d bytes, have %d",
			name, process.ErrInstructionTooShort, s.arch, s.arch.redirectSize(), instrLen)
	}

	if err := s.proc.SuspendAll(); err != nil {
		return nil, fmt.Errorf("hook %q: suspend: %w", name, err)
	}
	defer s.proc.ResumeAll()

	hook, err := s.install(name, hookAddr, instrLen, code)
	if err != nil {
		return nil, fmt.Errorf("hook %q: %w", name, err)
	}
	s.hooks[name] = hook
	s.log.Infoln("Installed hook ", name, " at ", hookAddr, ", trampoline ", hook.Trampoline)
	return hook, nil
}

// install runs with the target suspended.
func (s *Set) install(name string, hookAddr process.Address, instrLen uint, code []byte) (*Hook, error) {
	tramp, err := s.proc.Allocate(uint(len(code))+s.arch.redirectSize(), true)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*Hook, error) {
		if ferr := s.proc.Free(tramp); ferr != nil {
			s.log.Warn("free trampoline after failed install: ", ferr)
		}
		return nil, err
	}

	// Trampoline body: injected code, then the jump back to the instruction
	// after the overwritten range.
	body := make([]byte, 0, uint(len(code))+s.arch.redirectSize())
	body = append(body, code...)
	body = append(body, returnRedirect(s.arch,
		tramp+process.Address(len(code)), hookAddr+process.Address(instrLen))...)
	if err := s.proc.Write(tramp, body); err != nil {
		return fail(fmt.Errorf("write trampoline: %w", err))
	}

	forward, err := redirect(s.arch, hookAddr, tramp, instrLen)
	if err != nil {
		return fail(err)
	}

	oldProtect, err := s.proc.Protect(hookAddr, instrLen, process.PAGE_EXECUTE_READWRITE)
	if err != nil {
		return fail(fmt.Errorf("unprotect %s: %w", hookAddr, err))
	}
	restore := func() {
		if _, perr := s.proc.Protect(hookAddr, instrLen, oldProtect); perr != nil {
			s.log.Warn("restore protection at ", hookAddr, ": ", perr)
		}
	}

	// The true original instructions, saved before the overwrite.
	saved, err := readExact(s.proc, hookAddr, instrLen)
	if err != nil {
		restore()
		return fail(fmt.Errorf("save originals: %w", err))
	}
	if err := s.proc.Write(hookAddr, forward); err != nil {
		restore()
		return fail(fmt.Errorf("write redirect: %w", err))
	}
	restore()

	return &Hook{Name: name, HookAddress: hookAddr, Trampoline: tramp, saved: saved}, nil
}

// RemoveHook restores the saved original bytes at the hook address, frees
// the trampoline and drops the record. The target is fully suspended around
// the restore and always resumed again.
func (s *Set) RemoveHook(name string) error {
	hook, ok := s.hooks[name]
	if !ok {
		return fmt.Errorf("hook %q: %w", name, process.ErrUnknownHook)
	}
	size := uint(len(hook.saved))

	if err := s.proc.SuspendAll(); err != nil {
		return fmt.Errorf("hook %q: suspend: %w", name, err)
	}
	defer s.proc.ResumeAll()

	oldProtect, err := s.proc.Protect(hook.HookAddress, size, process.PAGE_EXECUTE_READWRITE)
	if err != nil {
		return fmt.Errorf("hook %q: unprotect: %w", name, err)
	}
	werr := s.proc.Write(hook.HookAddress, hook.saved)
	if _, perr := s.proc.Protect(hook.HookAddress, size, oldProtect); perr != nil {
		s.log.Warn("restore protection at ", hook.HookAddress, ": ", perr)
	}
	if werr != nil {
		return fmt.Errorf("hook %q: restore originals: %w", name, werr)
	}

	if err := s.proc.Free(hook.Trampoline); err != nil {
		s.log.Warn("free trampoline ", hook.Trampoline, ": ", err)
	}
	delete(s.hooks, name)
	s.log.Infoln("Removed hook ", name, " from ", hook.HookAddress)
	return nil
}
