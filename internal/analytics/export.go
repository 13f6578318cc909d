package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteCSV writes a header and rows to path, creating parent directories.
func WriteCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderTable prints a titled table to w.
func RenderTable(w io.Writer, title string, header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}
	t.Render()
}

// DAUCells converts DAU rows to CSV/table cells.
func DAUCells(rows []DAURow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.EventDate, strconv.FormatInt(r.DAU, 10)})
	}
	return out
}

// RevenueCells converts revenue rows to CSV/table cells.
func RevenueCells(rows []RevenueRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.EventDate, strconv.FormatFloat(r.Revenue, 'f', 2, 64)})
	}
	return out
}

// EventCountCells converts event-mix rows to CSV/table cells.
func EventCountCells(rows []EventCountRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.EventDate, r.Event, strconv.FormatInt(r.Count, 10)})
	}
	return out
}

// FunnelCells converts funnel rows to CSV/table cells.
func FunnelCells(rows []FunnelRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.EventDate,
			strconv.FormatInt(r.SignupUsers, 10),
			strconv.FormatInt(r.Purchasers, 10),
			strconv.FormatFloat(r.SignupToPurchaseRate, 'f', 4, 64),
		})
	}
	return out
}
