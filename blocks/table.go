// Package blocks looks up the display color for a block id, loaded from a
// static catalog. Unknown ids render as opaque black.
//
// The catalog is CSV rather than XML, parsed with
// github.com/lucasb-eyer/go-colorful instead of raw attribute math.
package blocks

import (
	"embed"
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

//go:embed default_blocks.csv
var defaultCatalog embed.FS

// Table maps legacy (pre-1.13) numeric block ids to a display color.
// Air (id 0) is intentionally absent from the default catalog: the
// unknown-id fallback to opaque black already produces the right color for
// it, so there is no need for an explicit entry.
type Table struct {
	colors map[int32]color.NRGBA
}

// Default loads the catalog bundled into the binary via go:embed.
func Default() (*Table, error) {
	f, err := defaultCatalog.Open("default_blocks.csv")
	if err != nil {
		return nil, fmt.Errorf("blocks: opening embedded catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads a CSV catalog with columns id, hex, name (a header row is
// permitted and skipped if its first field doesn't parse as an integer).
// Colors are parsed from "#RRGGBB" hex strings via go-colorful.
func Load(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("blocks: reading catalog: %w", err)
	}
	t := &Table{colors: make(map[int32]color.NRGBA, len(records))}
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("blocks: line %d: expected at least 2 fields, got %d", i+1, len(rec))
		}
		id, err := strconv.ParseInt(rec[0], 10, 32)
		if err != nil {
			if i == 0 {
				continue // Header row.
			}
			return nil, fmt.Errorf("blocks: line %d: invalid block id %q: %w", i+1, rec[0], err)
		}
		c, err := colorful.Hex(rec[1])
		if err != nil {
			return nil, fmt.Errorf("blocks: line %d: invalid color %q: %w", i+1, rec[1], err)
		}
		r, g, b := c.RGB255()
		t.colors[int32(id)] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return t, nil
}

// ColorOf returns the display color for id, or opaque black if id is not in
// the catalog.
func (t *Table) ColorOf(id int32) color.NRGBA {
	c, ok := t.colors[id]
	if !ok {
		return color.NRGBA{A: 255}
	}
	return c
}
