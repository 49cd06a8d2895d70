package detour

import (
	"errors"

	"godetour/process"
)

// fakeProcess is a flat in-memory stand-in for a target process. Untouched
// bytes read as zero the way fresh committed pages do. It keeps enough
// bookkeeping to check allocation, protection and suspension round trips.
type fakeProcess struct {
	mem       map[process.Address]byte
	is32      bool
	nextAlloc process.Address
	allocs    map[process.Address]uint
	freed     []process.Address
	protect   map[process.Address]uint32

	suspended    int
	suspendCalls int
	resumeCalls  int

	failAlloc   bool
	failWriteAt map[process.Address]bool
}

func newFakeProcess(is32 bool) *fakeProcess {
	return &fakeProcess{
		mem:         make(map[process.Address]byte),
		is32:        is32,
		nextAlloc:   0x40000000,
		allocs:      make(map[process.Address]uint),
		protect:     make(map[process.Address]uint32),
		failWriteAt: make(map[process.Address]bool),
	}
}

func (f *fakeProcess) seed(addr process.Address, data []byte) {
	for i, b := range data {
		f.mem[addr+process.Address(i)] = b
	}
}

func (f *fakeProcess) bytesAt(addr process.Address, size uint) []byte {
	out := make([]byte, size)
	for i := uint(0); i < size; i++ {
		out[i] = f.mem[addr+process.Address(i)]
	}
	return out
}

func (f *fakeProcess) Read(addr process.Address, size uint) ([]byte, error) {
	return f.bytesAt(addr, size), nil
}

func (f *fakeProcess) Write(addr process.Address, data []byte) error {
	if f.failWriteAt[addr] {
		return process.ErrAddressUnwritable
	}
	f.seed(addr, data)
	return nil
}

func (f *fakeProcess) Allocate(size uint, executable bool) (process.Address, error) {
	if f.failAlloc {
		return 0, process.ErrAllocationFailed
	}
	addr := f.nextAlloc
	f.nextAlloc += 0x10000
	f.allocs[addr] = size
	if executable {
		f.protect[addr] = process.PAGE_EXECUTE_READWRITE
	} else {
		f.protect[addr] = process.PAGE_READWRITE
	}
	return addr, nil
}

func (f *fakeProcess) Free(addr process.Address) error {
	if _, ok := f.allocs[addr]; !ok {
		return errors.New("free of unallocated address")
	}
	delete(f.allocs, addr)
	f.freed = append(f.freed, addr)
	return nil
}

func (f *fakeProcess) Protect(addr process.Address, size uint, protect uint32) (uint32, error) {
	old, ok := f.protect[addr]
	if !ok {
		old = process.PAGE_EXECUTE_READ
	}
	f.protect[addr] = protect
	return old, nil
}

func (f *fakeProcess) SuspendAll() error {
	f.suspended++
	f.suspendCalls++
	return nil
}

func (f *fakeProcess) ResumeAll() error {
	f.suspended--
	f.resumeCalls++
	return nil
}

func (f *fakeProcess) Is32Bit() bool {
	return f.is32
}
