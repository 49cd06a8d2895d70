package process

import (
	"errors"
	"iter"
	"testing"
)

func refSeq(refs []ProcessRef, failAfter int) iter.Seq2[ProcessRef, error] {
	return func(yield func(ProcessRef, error) bool) {
		for i, ref := range refs {
			if failAfter >= 0 && i == failAfter {
				yield(ProcessRef{}, errors.New("snapshot failed"))
				return
			}
			if !yield(ref, nil) {
				return
			}
		}
	}
}

var sampleRefs = []ProcessRef{
	{PID: 4, Name: "System"},
	{PID: 1234, Name: "notepad.exe"},
	{PID: 2345, Name: "target.exe"},
	{PID: 3456, Name: "target.exe"},
}

func TestFindFirst(t *testing.T) {
	ref, found, err := FindFirst(refSeq(sampleRefs, -1), "target")
	if err != nil {
		t.Fatalf("FindFirst: %v", err)
	}
	if !found {
		t.Fatal("no match")
	}
	if ref.PID != 2345 {
		t.Errorf("pid = %d, want 2345 (first match wins)", ref.PID)
	}
}

func TestFindFirstSubstringSemantics(t *testing.T) {
	// "pad" matches inside "notepad.exe"; the match is a substring, not a
	// prefix or whole name.
	ref, found, err := FindFirst(refSeq(sampleRefs, -1), "pad")
	if err != nil || !found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if ref.Name != "notepad.exe" {
		t.Errorf("name = %q, want notepad.exe", ref.Name)
	}
}

func TestFindFirstNoMatch(t *testing.T) {
	_, found, err := FindFirst(refSeq(sampleRefs, -1), "missing.exe")
	if err != nil {
		t.Fatalf("FindFirst: %v", err)
	}
	if found {
		t.Error("matched a name that does not exist")
	}
}

func TestFindFirstPropagatesError(t *testing.T) {
	_, _, err := FindFirst(refSeq(sampleRefs, 0), "target")
	if err == nil {
		t.Fatal("snapshot error swallowed")
	}
}

func TestFindAll(t *testing.T) {
	matches, err := FindAll(refSeq(sampleRefs, -1), "target")
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].PID != 2345 || matches[1].PID != 3456 {
		t.Errorf("matches = %v, wrong pids", matches)
	}
}

func TestFindAllNoMatch(t *testing.T) {
	matches, err := FindAll(refSeq(sampleRefs, -1), "missing")
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, want 0", len(matches))
	}
}
