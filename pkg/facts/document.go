package facts

import "fmt"

// DocKind identifies the kind of host document a computation targets.
// The processing pipeline dispatches on this tag instead of carrying a
// per-kind type hierarchy.
type DocKind string

const (
	// DocKindPart is a single-part document.
	DocKindPart DocKind = "part"

	// DocKindAssembly is an assembly document.
	DocKindAssembly DocKind = "assembly"

	// DocKindDrawing is a drawing document.
	DocKindDrawing DocKind = "drawing"
)

// Validate checks if the document kind is valid.
func (k DocKind) Validate() error {
	switch k {
	case DocKindPart, DocKindAssembly, DocKindDrawing:
		return nil
	default:
		return fmt.Errorf("invalid document kind: %s", k)
	}
}

// Attacher is the capability interface for per-kind event wiring. Hosts
// that need attach/detach behavior implement it; everything else is handled
// by free functions keyed on DocKind.
type Attacher interface {
	// Attach wires the document's event handlers to the host.
	Attach() error

	// Detach releases any host-side event wiring.
	Detach() error
}
