package process

import "iter"

// MemoryRegion is an immutable snapshot of one contiguous range of a target
// address space sharing commit state, protection and mapping type.
type MemoryRegion struct {
	BaseAddress Address
	Size        uint64
	State       uint32 // MEM_COMMIT, MEM_RESERVE or MEM_FREE
	Protect     uint32 // PAGE_* protection in force
	Type        uint32 // MEM_IMAGE, MEM_MAPPED or MEM_PRIVATE
}

// EndAddress returns the first address past the region. The next region of
// the address space may start exactly here.
func (r MemoryRegion) EndAddress() Address {
	return r.BaseAddress + Address(r.Size)
}

// RegionFilter selects regions during a scan. A zero field matches every
// region; set fields must all hold. None of the Win32 state, protection or
// type values is zero, so zero is free to mean absent.
type RegionFilter struct {
	State   uint32
	Protect uint32
	Type    uint32
}

// Matches reports whether every set predicate of the filter holds for r.
func (f RegionFilter) Matches(r MemoryRegion) bool {
	if f.State != 0 && r.State != f.State {
		return false
	}
	if f.Protect != 0 && r.Protect != f.Protect {
		return false
	}
	if f.Type != 0 && r.Type != f.Type {
		return false
	}
	return true
}

// RegionQuerier answers point queries against one process address space.
type RegionQuerier interface {
	// QueryRegion returns the region containing addr.
	QueryRegion(addr Address) (MemoryRegion, error)

	// AddressBounds returns the minimum and maximum application addresses.
	AddressBounds() (min, max Address)
}

// Regions walks the address space of q from the minimum application address
// and yields every region matching filter, in address order. The sequence is
// finite and not restartable; ranging over it again re-walks from the
// minimum address. A failed query on the very first call surfaces as a
// yielded error; a failure later means the walk ran off the end of the
// queryable space and ends the sequence silently.
func Regions(q RegionQuerier, filter RegionFilter) iter.Seq2[MemoryRegion, error] {
	return func(yield func(MemoryRegion, error) bool) {
		minAddr, maxAddr := q.AddressBounds()
		addr := minAddr
		first := true
		for {
			region, err := q.QueryRegion(addr)
			if err != nil {
				if first {
					yield(MemoryRegion{}, err)
				}
				return
			}
			first = false
			if filter.Matches(region) {
				if !yield(region, nil) {
					return
				}
			}
			next := region.EndAddress()
			// The final region may touch the address-space ceiling; a
			// wrapped cursor means the same thing.
			if next > maxAddr || next < addr {
				return
			}
			addr = next
		}
	}
}
