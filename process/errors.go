package process

import "errors"

var (
	// ErrProcessNotFound is returned when a pid cannot be opened or a name
	// search matches nothing.
	ErrProcessNotFound = errors.New("process not found")

	// ErrAccessDenied is returned when the OS refuses the requested access
	// rights on a process.
	ErrAccessDenied = errors.New("access denied")

	// ErrProcessNotOpen is returned when an operation requiring an open
	// process is attempted before Open or after Close.
	ErrProcessNotOpen = errors.New("process not open")

	// ErrAddressUnwritable is returned when a write is rejected by the page
	// protection of the target range.
	ErrAddressUnwritable = errors.New("address not writable")

	// ErrAllocationFailed is returned when the target refuses to commit
	// memory.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrInstructionTooShort is returned when the instruction range reserved
	// for a redirect is smaller than its minimum encoding.
	ErrInstructionTooShort = errors.New("instruction range too short for redirect")

	// Registry key misuse.
	ErrDuplicateName = errors.New("name already registered")
	ErrUnknownPatch  = errors.New("unknown patch")
	ErrUnknownHook   = errors.New("unknown hook")
)
