package detour

import (
	"fmt"

	"godetour/coloransi"
	"godetour/process"

	"github.com/Moonlight-Companies/gologger/logger"
)

// Set holds the patches and hooks installed into one target process, keyed
// by caller-chosen names. Every open handle owns its own Set, so independent
// targets never share registry state. A Set is driven by a single caller
// thread; the target's own threads are the only concurrency it deals with.
type Set struct {
	proc    Process
	arch    Arch
	log     *logger.Logger
	patches map[string]*Patch
	hooks   map[string]*Hook
}

// NewSet builds an empty registry for proc, resolving the redirect
// architecture once from the target bitness.
func NewSet(proc Process) *Set {
	arch := Arch64
	if proc.Is32Bit() {
		arch = Arch32
	}
	return &Set{
		proc:    proc,
		arch:    arch,
		log:     logger.NewLogger(coloransi.Color(coloransi.ColorTeal, coloransi.ColorOrange, "detour-"+arch.String())),
		patches: make(map[string]*Patch),
		hooks:   make(map[string]*Hook),
	}
}

// Arch returns the redirect architecture resolved for the target.
func (s *Set) Arch() Arch {
	return s.arch
}

// Patch returns the recorded patch of that name, if any.
func (s *Set) Patch(name string) (*Patch, bool) {
	p, ok := s.patches[name]
	return p, ok
}

// Hook returns the recorded hook of that name, if any.
func (s *Set) Hook(name string) (*Hook, bool) {
	h, ok := s.hooks[name]
	return h, ok
}

// readExact rejects the short reads Process.Read may legally return; patch
// and hook bookkeeping needs the full range or nothing.
func readExact(p Process, addr process.Address, size uint) ([]byte, error) {
	data, err := p.Read(addr, size)
	if err != nil {
		return nil, err
	}
	if uint(len(data)) != size {
		return nil, fmt.Errorf("short read at %s: want %d bytes, got %d", addr, size, len(data))
	}
	return data, nil
}
