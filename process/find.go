package process

import (
	"iter"
	"strings"
)

// FindFirst returns the first process whose executable name contains substr.
// The boolean reports whether anything matched.
func FindFirst(procs iter.Seq2[ProcessRef, error], substr string) (ProcessRef, bool, error) {
	for ref, err := range procs {
		if err != nil {
			return ProcessRef{}, false, err
		}
		if strings.Contains(ref.Name, substr) {
			return ref, true, nil
		}
	}
	return ProcessRef{}, false, nil
}

// FindAll returns every process whose executable name contains substr.
func FindAll(procs iter.Seq2[ProcessRef, error], substr string) ([]ProcessRef, error) {
	var matches []ProcessRef
	for ref, err := range procs {
		if err != nil {
			return nil, err
		}
		if strings.Contains(ref.Name, substr) {
			matches = append(matches, ref)
		}
	}
	return matches, nil
}
