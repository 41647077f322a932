// Package report exports a digest to formats beyond the stdout listing.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"ghdigest/internal/digest"
)

type ExcelExporter struct {
	Path string
}

func NewExcelExporter(path string) *ExcelExporter {
	return &ExcelExporter{Path: path}
}

// Export writes the digest to a workbook: a summary sheet with per-project
// item counts, then one sheet per project listing title and URL rows. Item
// URLs go through the same resolver the text renderer uses.
func (e *ExcelExporter) Export(d digest.Digest, month string, resolve digest.URLResolver) error {
	f := excelize.NewFile()
	defer f.Close()

	projects := d.Projects()

	if err := e.createSummarySheet(f, "Summary", d, projects, month); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	for _, project := range projects {
		sheetName := sanitizeSheetName(project)
		if err := e.createProjectSheet(f, sheetName, d[project], resolve); err != nil {
			return fmt.Errorf("failed to create sheet for %s: %w", project, err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SaveAs(e.Path); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}

	return nil
}

func (e *ExcelExporter) createSummarySheet(f *excelize.File, sheetName string, d digest.Digest, projects []string, month string) error {
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", "Month:")
	f.SetCellValue(sheetName, "B1", month)

	row := 3
	f.SetCellValue(sheetName, cellName(1, row), "Project")
	f.SetCellValue(sheetName, cellName(2, row), "Items")
	f.SetCellStyle(sheetName, cellName(1, row), cellName(2, row), headerStyle)
	row++

	total := 0
	for _, project := range projects {
		f.SetCellValue(sheetName, cellName(1, row), project)
		f.SetCellValue(sheetName, cellName(2, row), len(d[project]))
		total += len(d[project])
		row++
	}

	f.SetCellValue(sheetName, cellName(1, row), "Total")
	f.SetCellValue(sheetName, cellName(2, row), total)

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 10)

	return nil
}

func (e *ExcelExporter) createProjectSheet(f *excelize.File, sheetName string, items map[string]string, resolve digest.URLResolver) error {
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"#", "Title", "URL"}
	for col, header := range headers {
		cell := cellName(col+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	urls := make([]string, 0, len(items))
	for url := range items {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	row := 2
	for _, url := range urls {
		resolved, ok := resolve(url)
		if !ok {
			continue
		}
		f.SetCellValue(sheetName, cellName(1, row), row-1)
		f.SetCellValue(sheetName, cellName(2, row), items[url])
		f.SetCellValue(sheetName, cellName(3, row), resolved)
		row++
	}

	f.SetColWidth(sheetName, "A", "A", 5)
	f.SetColWidth(sheetName, "B", "B", 60)
	f.SetColWidth(sheetName, "C", "C", 60)

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	return nil
}

func cellName(col, row int) string {
	return fmt.Sprintf("%s%d", columnLetter(col), row)
}

func columnLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}

func sanitizeSheetName(name string) string {
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, "?", "")
	name = strings.ReplaceAll(name, "*", "")
	name = strings.ReplaceAll(name, "[", "(")
	name = strings.ReplaceAll(name, "]", ")")

	if len(name) > 31 {
		name = name[:31]
	}

	return name
}
