// Package document tracks a single host document's processing lifecycle,
// its change-tracked property cache, and the writeback of approved
// property suggestions. Everything here is per-document mutable state with
// no internal locking; the surrounding pipeline processes one document at
// a time.
package document

import (
	"github.com/partforge/partforge/pkg/facts"
)

// Document wraps one part, assembly or drawing document for processing.
// Each document independently owns its lifecycle and property cache for
// the wrapper's entire lifetime.
type Document struct {
	// Name is the document name (usually the file name without extension).
	Name string

	// Kind is the document kind tag.
	Kind facts.DocKind

	// Lifecycle tracks processing progress.
	Lifecycle *Lifecycle

	// Props is the property cache for the active configuration.
	Props *PropertyCache

	// modelEdited is the external model-edit flag, set by host edit
	// notifications independent of property writes.
	modelEdited bool
}

// New creates a document wrapper in the Unprocessed state with an empty
// property cache scoped to the given configuration name.
func New(name string, kind facts.DocKind, configuration string) *Document {
	return &Document{
		Name:      name,
		Kind:      kind,
		Lifecycle: NewLifecycle(),
		Props:     NewPropertyCache(configuration),
	}
}

// Touch sets the model-edit flag.
func (d *Document) Touch() {
	d.modelEdited = true
}

// IsDirty reports whether the document has unsaved changes: the model-edit
// flag is set or any cached property is dirty.
func (d *Document) IsDirty() bool {
	return d.modelEdited || d.Props.AnyDirty()
}

// MarkModelClean clears only the model-edit flag. Used after a save when
// no property writes were pending.
func (d *Document) MarkModelClean() {
	d.modelEdited = false
}

// MarkAllClean clears the model-edit flag and every property dirty flag.
// Used after a combined save and flush. Property values survive.
func (d *Document) MarkAllClean() {
	d.modelEdited = false
	d.Props.MarkAllClean()
}
