package portfolio

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// PrintRenderTable writes the table, then its notes and errors, to writer.
func PrintRenderTable(title string, tableModel *RenderTable, writer io.Writer) {
	if title != "" {
		fmt.Fprintf(writer, "%s\n", title)
	}

	table := tablewriter.NewWriter(writer)
	table.SetHeader(tableModel.Header)
	if len(tableModel.Footer) > 0 {
		table.SetFooter(tableModel.Footer)
	}
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetRowLine(true)
	table.AppendBulk(tableModel.Rows)
	table.Render()

	for _, note := range tableModel.Notes {
		fmt.Fprintln(writer, note)
	}
	if len(tableModel.Errors) > 0 {
		fmt.Fprintln(writer, "Errors:")
		for _, err := range tableModel.Errors {
			fmt.Fprintf(writer, " - %s\n", err)
		}
	}
}
