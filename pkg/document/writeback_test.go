package document

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

func newTestExecutor() (*Executor, *PropertyCache) {
	cache := NewPropertyCache("Default")
	return NewExecutor(cache, zerolog.Nop()), cache
}

func TestApplyAllBasic(t *testing.T) {
	x, cache := newTestExecutor()

	entries := x.ApplyAll([]Suggestion{
		{Name: "PartNo", Value: "PF-1001", Category: "identity"},
		{Name: "RollForm_R", Value: "0.2917", Category: "workcenter"},
	})

	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	for _, e := range entries {
		if e.Status != WritebackApplied {
			t.Errorf("%s status = %s, want applied", e.Name, e.Status)
		}
	}

	if entries[1].Category != "workcenter" {
		t.Errorf("category not carried: %+v", entries[1])
	}

	e, _ := cache.Get("RollForm_R")
	if e.Type != PropertyNumber {
		t.Errorf("RollForm_R type = %s, want number", e.Type)
	}
	e, _ = cache.Get("PartNo")
	if e.Type != PropertyText {
		t.Errorf("PartNo type = %s, want text", e.Type)
	}
}

func TestApplySkipsEmptyName(t *testing.T) {
	x, cache := newTestExecutor()

	for _, name := range []string{"", "   ", "\t"} {
		entry := x.Apply(name, "value")
		if entry.Status != WritebackSkipped {
			t.Errorf("name %q status = %s, want skipped", name, entry.Status)
		}
		if entry.Reason != "name empty" {
			t.Errorf("name %q reason = %q", name, entry.Reason)
		}
	}
	if cache.Len() != 0 {
		t.Error("skipped suggestions mutated the cache")
	}
}

func TestApplySkipsUnchangedValue(t *testing.T) {
	x, cache := newTestExecutor()

	_ = cache.Set("Material", "A36", PropertyText)
	cache.MarkAllClean()

	entry := x.Apply("Material", "a36") // case-insensitive compare
	if entry.Status != WritebackSkipped {
		t.Fatalf("status = %s, want skipped", entry.Status)
	}
	if entry.Reason != "already matches" {
		t.Errorf("reason = %q", entry.Reason)
	}
	if cache.AnyDirty() {
		t.Error("skip changed dirty state")
	}
	if got := cache.GetText("Material"); got != "A36" {
		t.Errorf("skip mutated value: %q", got)
	}
}

func TestApplyRecordsOldValue(t *testing.T) {
	x, cache := newTestExecutor()

	_ = cache.Set("Material", "A36", PropertyText)
	entry := x.Apply("Material", "304")
	if entry.Status != WritebackApplied {
		t.Fatalf("status = %s", entry.Status)
	}
	if entry.OldValue != "A36" || entry.NewValue != "304" {
		t.Errorf("old/new = %q/%q", entry.OldValue, entry.NewValue)
	}
}

func TestTypeInference(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  PropertyType
	}{
		{"RollForm_S", "0.25", PropertyNumber},
		{"Deburr_R", "0.5", PropertyNumber},
		{"OP10", "12.5", PropertyNumber},
		{"OP", "3", PropertyNumber},
		{"RollForm_S", "n/a", PropertyText}, // numeric name, unparseable value
		{"Description", "42", PropertyText}, // parseable value, text name
		{"Material", "A36", PropertyText},
	}

	for _, tt := range tests {
		if got := inferType(tt.name, tt.value); got != tt.want {
			t.Errorf("inferType(%q, %q) = %s, want %s", tt.name, tt.value, got, tt.want)
		}
	}
}

// failingWriter rejects every write, standing in for a host cache error.
type failingWriter struct{}

func (failingWriter) GetText(string) string { return "" }
func (failingWriter) Set(name, _ string, _ PropertyType) error {
	return fmt.Errorf("host rejected write to %s", name)
}

func TestApplyCapturesWriteFailure(t *testing.T) {
	x := NewExecutor(failingWriter{}, zerolog.Nop())

	entries := x.ApplyAll([]Suggestion{
		{Name: "PartNo", Value: "PF-1"},
		{Name: "Material", Value: "A36"},
	})

	if len(entries) != 2 {
		t.Fatalf("failure aborted the batch: %d entries", len(entries))
	}
	for _, e := range entries {
		if e.Status != WritebackFailed {
			t.Errorf("%s status = %s, want failed", e.Name, e.Status)
		}
		if e.Reason == "" {
			t.Errorf("%s failure has no reason", e.Name)
		}
	}
}
