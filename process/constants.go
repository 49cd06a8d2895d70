package process

// Memory state, type and protection values from winnt.h. Region queries
// report these and RegionFilter matches against them.
const (
	MEM_COMMIT  uint32 = 0x1000
	MEM_RESERVE uint32 = 0x2000
	MEM_FREE    uint32 = 0x10000

	MEM_PRIVATE uint32 = 0x20000
	MEM_MAPPED  uint32 = 0x40000
	MEM_IMAGE   uint32 = 0x1000000

	PAGE_NOACCESS          uint32 = 0x01
	PAGE_READONLY          uint32 = 0x02
	PAGE_READWRITE         uint32 = 0x04
	PAGE_WRITECOPY         uint32 = 0x08
	PAGE_EXECUTE           uint32 = 0x10
	PAGE_EXECUTE_READ      uint32 = 0x20
	PAGE_EXECUTE_READWRITE uint32 = 0x40
	PAGE_EXECUTE_WRITECOPY uint32 = 0x80
	PAGE_GUARD             uint32 = 0x100
)
