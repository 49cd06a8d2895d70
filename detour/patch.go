package detour

import (
	"fmt"

	"godetour/process"
)

// Patch is a reversible byte overwrite at a fixed address. stored holds
// whichever byte content is currently not resident at the address: the
// original bytes while the patch is applied, the patch bytes after a toggle
// back.
type Patch struct {
	Name    string
	Address process.Address
	stored  []byte
	applied bool
}

// Applied reports whether the patch bytes are resident at the address.
func (p *Patch) Applied() bool {
	return p.applied
}

// Size returns the patched byte count.
func (p *Patch) Size() uint {
	return uint(len(p.stored))
}

// ApplyPatch overwrites len(data) bytes at addr with data and records the
// patch under name, keeping the previous content so the patch stays
// reversible. Patches do not stop the world: a caller patching bytes the
// target's own threads may execute must surround the call with
// SuspendAll/ResumeAll itself.
func (s *Set) ApplyPatch(name string, addr process.Address, data []byte) error {
	if _, exists := s.patches[name]; exists {
		return fmt.Errorf("patch %q: %w", name, process.ErrDuplicateName)
	}
	original, err := readExact(s.proc, addr, uint(len(data)))
	if err != nil {
		return fmt.Errorf("patch %q: read originals: %w", name, err)
	}
	if err := s.proc.Write(addr, data); err != nil {
		return fmt.Errorf("patch %q: %w", name, err)
	}
	s.patches[name] = &Patch{Name: name, Address: addr, stored: original, applied: true}
	s.log.Debugln("Applied patch ", name, " at ", addr)
	return nil
}

// TogglePatch swaps the bytes resident at the patch address with the stored
// counterpart. Toggling twice restores the original byte content exactly.
func (s *Set) TogglePatch(name string) error {
	patch, ok := s.patches[name]
	if !ok {
		return fmt.Errorf("patch %q: %w", name, process.ErrUnknownPatch)
	}
	resident, err := readExact(s.proc, patch.Address, uint(len(patch.stored)))
	if err != nil {
		return fmt.Errorf("patch %q: %w", name, err)
	}
	if err := s.proc.Write(patch.Address, patch.stored); err != nil {
		return fmt.Errorf("patch %q: %w", name, err)
	}
	patch.stored = resident
	patch.applied = !patch.applied
	s.log.Debugln("Toggled patch ", name, ", applied=", patch.applied)
	return nil
}
