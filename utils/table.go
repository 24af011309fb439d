// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package utils

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// FormatNumber renders an integer with thousands separators.
func FormatNumber[T int | int64 | uint64](n T) string {
	return numberPrinter.Sprintf("%d", n)
}

// FormatEntries renders indexed columns as a table. Row i holds the i-th
// value of every column; shorter columns leave their cells empty.
func FormatEntries(title string, names []string, columns ...[]float64) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)

	header := table.Row{"Index"}
	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignRight}}
	rows := 0
	for i, column := range columns {
		name := fmt.Sprintf("Column %d", i)
		if i < len(names) {
			name = names[i]
		}
		header = append(header, name)
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
		rows = max(rows, len(column))
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for r := range rows {
		row := table.Row{r}
		for _, column := range columns {
			if r < len(column) {
				row = append(row, fmt.Sprintf("%.6f", column[r]))
			} else {
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}
	return t.Render()
}

// FormatSummary renders key/value pairs as a two-column table.
func FormatSummary(title string, pairs [][2]string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	for _, p := range pairs {
		t.AppendRow(table.Row{p[0], p[1]})
	}
	return t.Render()
}
