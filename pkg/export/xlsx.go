package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"leadradar/pkg/schema"
)

const leadsSheet = "Leads"

// WriteXLSX writes leads to an Excel workbook with the same column layout as
// the CSV export. The caller sorts beforehand.
func WriteXLSX(path string, leads []schema.Lead) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(leadsSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, column := range schema.OutputColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(leadsSheet, cell, column)
		f.SetCellStyle(leadsSheet, cell, cell, headerStyle)
	}

	for rowIdx := range leads {
		for colIdx, value := range leads[rowIdx].Row() {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if colIdx == scoreColumnIndex {
				f.SetCellValue(leadsSheet, cell, leads[rowIdx].ScoreTotal)
			} else {
				f.SetCellValue(leadsSheet, cell, value)
			}
		}
	}

	for i := range schema.OutputColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(leadsSheet, col, col, 18)
	}

	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// scoreColumnIndex is the position of score_total in OutputColumns, exported
// numerically so spreadsheet sorting works.
var scoreColumnIndex = func() int {
	for i, column := range schema.OutputColumns {
		if column == "score_total" {
			return i
		}
	}
	return -1
}()
