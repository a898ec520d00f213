package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	lipglosstable "github.com/charmbracelet/lipgloss/table"

	"github.com/fantasytools/ranksheet/pkg/table"
)

// printPreview renders the first n table rows to the terminal.
func printPreview(t table.Table, n int) {
	head := t.Head(n)

	rows := make([][]string, head.Len())
	for i, row := range head.Rows {
		cells := make([]string, len(head.Cols))
		for j, col := range head.Cols {
			cells[j] = table.CellString(row[col])
		}
		rows[i] = cells
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tbl := lipglosstable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(head.Cols...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Println(tbl.Render())
	if t.Len() > n {
		printDetail("... %d more rows", t.Len()-n)
	}
}
