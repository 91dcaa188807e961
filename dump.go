package parquet

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Dump renders a summary of f's row groups and column chunks as a table
// to w, in the spirit of a file-inspection CLI's listing command (see
// e.g. a tempo-cli-style "list blocks" table) without building the CLI
// itself — callers wire this into their own command-line tool.
func Dump(w io.Writer, f *File) {
	fmt.Fprintf(w, "version=%d rows=%d row_groups=%d\n", f.Version(), f.NumRows(), len(f.RowGroups()))

	columns := []string{"row_group", "column", "type", "codec", "values", "compressed", "uncompressed", "encodings"}
	var rows [][]string

	for i, rg := range f.RowGroups() {
		for j := 0; j < rg.NumColumns(); j++ {
			c, err := rg.Column(j)
			if err != nil {
				continue
			}
			encodings := ""
			for k, enc := range c.Encodings() {
				if k > 0 {
					encodings += ","
				}
				encodings += enc.String()
			}
			rows = append(rows, []string{
				strconv.Itoa(i),
				strconv.Itoa(j),
				c.Type().String(),
				c.Codec().String(),
				strconv.FormatInt(c.NumValues(), 10),
				strconv.FormatInt(c.TotalCompressedSize(), 10),
				strconv.FormatInt(c.TotalUncompressedSize(), 10),
				encodings,
			})
		}
	}

	t := tablewriter.NewWriter(w)
	t.SetHeader(columns)
	t.AppendBulk(rows)
	t.Render()
}
