package output

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable writes rows as an ASCII table to stdout.
func RenderTable(headers []string, rows [][]interface{}) {
	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.SetStyle(table.StyleLight)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	w.AppendHeader(header)

	for _, row := range rows {
		w.AppendRow(row)
	}

	w.Render()
}
