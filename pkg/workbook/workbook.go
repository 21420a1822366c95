// Package workbook isolates the external lookup-table workbook behind a
// narrow, explicitly typed adapter: open a workbook, read a sheet's used
// range as text cells, close. Everything dynamic about the host workbook
// application stays on the far side of this boundary.
package workbook

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Workbook is an open lookup-table workbook.
type Workbook interface {
	// UsedRange returns the populated cell grid of a sheet as text,
	// row-major. An unknown sheet is an error.
	UsedRange(sheet string) ([][]string, error)

	// Sheets lists the sheet names in the workbook.
	Sheets() []string

	// Close releases the workbook.
	Close() error
}

// Opener opens workbooks by path.
type Opener interface {
	Open(ctx context.Context, path string) (Workbook, error)
}

// FileOpener opens workbook files stored as YAML sheet maps.
type FileOpener struct{}

// fileDocument is the on-disk workbook shape: sheet name to cell grid.
type fileDocument struct {
	Sheets map[string][][]string `yaml:"sheets"`
}

// Open reads and parses a workbook file.
func (FileOpener) Open(_ context.Context, path string) (Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse workbook %s: %w", path, err)
	}
	if len(doc.Sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	return NewMemoryWorkbook(doc.Sheets), nil
}

// MemoryWorkbook is an in-memory Workbook, used both as the backing for
// file workbooks and as a test double.
type MemoryWorkbook struct {
	mu     sync.RWMutex
	sheets map[string][][]string
	closed bool
}

// NewMemoryWorkbook creates a workbook over the given sheet map.
func NewMemoryWorkbook(sheets map[string][][]string) *MemoryWorkbook {
	copied := make(map[string][][]string, len(sheets))
	for name, rows := range sheets {
		copied[name] = rows
	}
	return &MemoryWorkbook{sheets: copied}
}

// UsedRange returns a sheet's cell grid.
func (w *MemoryWorkbook) UsedRange(sheet string) ([][]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return nil, fmt.Errorf("workbook is closed")
	}
	rows, ok := w.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet not found: %s", sheet)
	}
	return rows, nil
}

// Sheets lists sheet names in sorted order.
func (w *MemoryWorkbook) Sheets() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	names := make([]string, 0, len(w.sheets))
	for name := range w.sheets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close marks the workbook closed; further reads fail.
func (w *MemoryWorkbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}
