package exporter

import (
	"io"

	prettytable "github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"

	"shipcli/internal/table"
)

// RenderTable prints t as a boxed console table
func RenderTable(w io.Writer, t *table.Table) {
	pt := prettytable.NewWriter()
	pt.SetOutputMirror(w)

	// Don't uppercase the header values.
	pt.Style().Format.Header = text.FormatDefault

	header := make(prettytable.Row, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		header = append(header, c)
	}
	pt.AppendHeader(header)

	for _, r := range t.Rows() {
		row := make(prettytable.Row, len(r))
		for i, v := range r {
			row[i] = v.Text()
		}
		pt.AppendRow(row)
	}
	pt.Render()
}
