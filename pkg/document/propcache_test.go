package document

import (
	"testing"

	"github.com/partforge/partforge/pkg/facts"
)

func TestPropertyCacheSetGet(t *testing.T) {
	c := NewPropertyCache("Default")

	if err := c.Set("PartNo", "PF-1001", PropertyText); err != nil {
		t.Fatalf("set: %v", err)
	}

	e, ok := c.Get("PartNo")
	if !ok {
		t.Fatal("entry missing")
	}
	if e.Value != "PF-1001" || e.Type != PropertyText || !e.Dirty {
		t.Errorf("entry = %+v", e)
	}

	// Lookup is case-insensitive; stored casing is preserved.
	e, ok = c.Get("partno")
	if !ok {
		t.Fatal("case-insensitive lookup missed")
	}
	if e.Name != "PartNo" {
		t.Errorf("stored name = %q, want PartNo", e.Name)
	}

	if got := c.GetText("nosuch"); got != "" {
		t.Errorf("absent property = %q, want empty", got)
	}
}

func TestPropertyCacheDirtyTracking(t *testing.T) {
	c := NewPropertyCache("Default")

	if c.AnyDirty() {
		t.Fatal("fresh cache dirty")
	}

	_ = c.Set("Material", "A36", PropertyText)
	if !c.AnyDirty() {
		t.Fatal("write did not mark dirty")
	}

	c.MarkAllClean()
	if c.AnyDirty() {
		t.Fatal("MarkAllClean left dirty entries")
	}
	if got := c.GetText("Material"); got != "A36" {
		t.Errorf("MarkAllClean discarded value, got %q", got)
	}

	// Rewriting the same value does not re-dirty.
	_ = c.Set("Material", "A36", PropertyText)
	if c.AnyDirty() {
		t.Error("unchanged write marked dirty")
	}

	_ = c.Set("Material", "304", PropertyText)
	if !c.AnyDirty() {
		t.Error("changed write not marked dirty")
	}
}

func TestPropertyCacheNumeric(t *testing.T) {
	c := NewPropertyCache("Default")

	if err := c.SetNumber("RollForm_R", 0.2917); err != nil {
		t.Fatalf("set number: %v", err)
	}

	e, _ := c.Get("RollForm_R")
	if e.Type != PropertyNumber {
		t.Errorf("type = %s, want number", e.Type)
	}
	v, err := e.Number()
	if err != nil {
		t.Fatalf("number: %v", err)
	}
	if v != 0.2917 {
		t.Errorf("value = %g", v)
	}

	if err := c.Set("Weight", "not-a-number", PropertyNumber); err == nil {
		t.Error("non-numeric value accepted as number")
	}
	if err := c.Set("  ", "x", PropertyText); err == nil {
		t.Error("blank name accepted")
	}
}

func TestDocumentDirtyAggregation(t *testing.T) {
	d := New("bracket", facts.DocKindPart, "Default")

	if d.IsDirty() {
		t.Fatal("fresh document dirty")
	}

	d.Touch()
	if !d.IsDirty() {
		t.Fatal("model edit did not dirty document")
	}
	d.MarkModelClean()
	if d.IsDirty() {
		t.Fatal("MarkModelClean left document dirty")
	}

	_ = d.Props.Set("PartNo", "PF-1", PropertyText)
	d.Touch()
	d.MarkModelClean()
	if !d.IsDirty() {
		t.Fatal("dirty property not reflected after MarkModelClean")
	}

	d.MarkAllClean()
	if d.IsDirty() {
		t.Fatal("MarkAllClean left document dirty")
	}
	if d.Props.GetText("PartNo") != "PF-1" {
		t.Error("MarkAllClean discarded property value")
	}
}

func TestPropertyCacheEntriesOrder(t *testing.T) {
	c := NewPropertyCache("Default")
	_ = c.Set("B", "2", PropertyText)
	_ = c.Set("A", "1", PropertyText)
	_ = c.Set("C", "3", PropertyText)

	entries := c.Entries()
	if len(entries) != 3 {
		t.Fatalf("len = %d", len(entries))
	}
	want := []string{"B", "A", "C"}
	for i, e := range entries {
		if e.Name != want[i] {
			t.Errorf("entries[%d] = %s, want %s", i, e.Name, want[i])
		}
	}
}
