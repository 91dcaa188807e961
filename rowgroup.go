package parquet

import (
	"fmt"

	"github.com/parquetcore/parquet/format"
	"github.com/parquetcore/parquet/schema"
)

// RowGroup is one horizontal partition of a file's rows: an ordered
// list of column chunks, one per schema leaf, in schema order.
type RowGroup struct {
	schema *schema.Schema
	group  *format.RowGroup
}

func (g *RowGroup) NumRows() int64       { return g.group.NumRows }
func (g *RowGroup) TotalByteSize() int64 { return g.group.TotalByteSize }
func (g *RowGroup) NumColumns() int      { return len(g.group.Columns) }

// Ordinal returns the row group's position among the file's row groups,
// if the writer recorded one.
func (g *RowGroup) Ordinal() (ordinal int16, ok bool) {
	if g.group.Ordinal == nil {
		return 0, false
	}
	return *g.group.Ordinal, true
}

// Column returns the i-th column chunk, in schema leaf order.
func (g *RowGroup) Column(i int) (*ColumnChunk, error) {
	if i < 0 || i >= len(g.group.Columns) {
		return nil, fmt.Errorf("%w: row group has %d columns, requested index %d",
			ErrInvalidParameter, len(g.group.Columns), i)
	}
	if i >= len(g.schema.Leaves) {
		return nil, fmt.Errorf("%w: row group has more columns than the schema has leaves", ErrOutOfSpec)
	}
	return &ColumnChunk{column: g.schema.Leaves[i], chunk: &g.group.Columns[i]}, nil
}

// ColumnByPath returns the column chunk whose leaf matches the given
// dot-free path of field names, descending from the schema root.
func (g *RowGroup) ColumnByPath(path ...string) (*ColumnChunk, error) {
	leaf := g.schema.Root.At(path...)
	if leaf == nil || !leaf.Leaf() {
		return nil, fmt.Errorf("%w: no leaf column at path %v", ErrInvalidParameter, path)
	}
	return g.Column(leaf.Index)
}
