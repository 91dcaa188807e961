// Package schema builds the column tree out of a flat, depth-first list
// of format.SchemaElement records (the representation used in the
// parquet footer), computing the per-column max definition/repetition
// levels and physical-type metadata that the rest of this library needs
// to read and write pages.
package schema

import (
	"fmt"

	"github.com/parquetcore/parquet/format"
)

// Column is one node of the schema tree: either a leaf (a physical
// column, Type != nil) or a group (a struct/list/map container).
type Column struct {
	Element *format.SchemaElement
	Parent  *Column
	Columns []*Column

	// Path is the dot-free sequence of names from the root to this node,
	// not including the synthetic root element itself.
	Path []string

	// MaxDefinitionLevel and MaxRepetitionLevel are the maximum number
	// of optional/repeated ancestors (inclusive of this node) a value of
	// this column can have, per the standard Dremel encoding rules.
	MaxDefinitionLevel int
	MaxRepetitionLevel int

	// Index is this column's position in Schema.Leaves, valid only for
	// leaf columns.
	Index int
}

// Leaf reports whether c is a physical (non-group) column.
func (c *Column) Leaf() bool { return c.Element.Type != nil }

// Name returns the column's own (non-qualified) name.
func (c *Column) Name() string { return c.Element.Name }

// Optional reports whether c itself is declared OPTIONAL. Ancestors are
// not considered; MaxDefinitionLevel accounts for them.
func (c *Column) Optional() bool {
	return c.Element.RepetitionType != nil && *c.Element.RepetitionType == format.Optional
}

// Repeated reports whether c itself is declared REPEATED. Ancestors are
// not considered; MaxRepetitionLevel accounts for them.
func (c *Column) Repeated() bool {
	return c.Element.RepetitionType != nil && *c.Element.RepetitionType == format.Repeated
}

// Schema is the parsed column tree of a parquet file, along with the
// flattened leaf list in on-disk column order.
type Schema struct {
	Root   *Column
	Leaves []*Column
}

// New parses the flat, depth-first schema element list written in a
// parquet footer (elements[0] is the implicit root group) into a Schema.
func New(elements []format.SchemaElement) (*Schema, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("schema: empty schema element list")
	}
	s := &Schema{}
	i := 0
	root, err := buildColumn(elements, &i, nil, 0, 0, nil)
	if err != nil {
		return nil, err
	}
	if i != len(elements) {
		return nil, fmt.Errorf("schema: %d trailing schema elements not consumed", len(elements)-i)
	}
	s.Root = root
	s.Leaves = root.addLeavesTo(nil)
	for idx, leaf := range s.Leaves {
		leaf.Index = idx
	}
	return s, nil
}

// buildColumn consumes one schema element (and, recursively, its
// children) from elements starting at *i, assigning def/rep levels
// inherited from parent plus this node's own optional/repeated bump.
func buildColumn(elements []format.SchemaElement, i *int, parent *Column, parentDef, parentRep int, path []string) (*Column, error) {
	if *i >= len(elements) {
		return nil, fmt.Errorf("schema: truncated schema element list")
	}
	elem := &elements[*i]
	*i++

	def, rep := parentDef, parentRep
	if elem.RepetitionType != nil {
		switch *elem.RepetitionType {
		case format.Optional:
			def++
		case format.Repeated:
			def++
			rep++
		}
	}

	var childPath []string
	if parent != nil {
		childPath = append(append([]string{}, path...), elem.Name)
	}

	col := &Column{
		Element:            elem,
		Parent:             parent,
		Path:               childPath,
		MaxDefinitionLevel: def,
		MaxRepetitionLevel: rep,
	}

	numChildren := 0
	if elem.NumChildren != nil {
		numChildren = int(*elem.NumChildren)
	}
	for c := 0; c < numChildren; c++ {
		child, err := buildColumn(elements, i, col, def, rep, childPath)
		if err != nil {
			return nil, err
		}
		col.Columns = append(col.Columns, child)
	}
	if numChildren == 0 && elem.Type == nil {
		return nil, fmt.Errorf("schema: group element %q has no children and no physical type", elem.Name)
	}
	return col, nil
}

func (c *Column) addLeavesTo(leaves []*Column) []*Column {
	if c.Leaf() {
		return append(leaves, c)
	}
	for _, child := range c.Columns {
		leaves = child.addLeavesTo(leaves)
	}
	return leaves
}

// Flatten serializes the tree rooted at c back into the depth-first
// []format.SchemaElement representation used by the footer, the inverse
// of New.
func Flatten(root *Column) []format.SchemaElement {
	var out []format.SchemaElement
	flattenInto(root, &out)
	return out
}

func flattenInto(c *Column, out *[]format.SchemaElement) {
	*out = append(*out, *c.Element)
	for _, child := range c.Columns {
		flattenInto(child, out)
	}
}

// At walks the tree from c following a sequence of child names, returning
// nil if the path does not exist.
func (c *Column) At(path ...string) *Column {
	n := c
	for _, name := range path {
		var next *Column
		for _, child := range n.Columns {
			if child.Name() == name {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		n = next
	}
	return n
}
