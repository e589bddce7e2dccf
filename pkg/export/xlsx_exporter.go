package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// XLSXExporter renders each table onto its own worksheet named after the
// table title.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render builds a workbook with one sheet per table.
func (e *XLSXExporter) Render(tables ...Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one table")
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	defaultSheet := f.GetSheetName(0)
	wrap, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("create xlsx style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create xlsx style: %w", err)
	}

	used := map[string]bool{}
	for i, table := range tables {
		if len(table.Headers) == 0 {
			return nil, fmt.Errorf("xlsx table %d has no headers", i)
		}
		name := sheetName(table.Title, i, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, fmt.Errorf("name sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}

		for col, header := range table.Headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := f.SetCellValue(name, cell, header); err != nil {
				return nil, fmt.Errorf("write header: %w", err)
			}
		}
		lastCol, _ := excelize.ColumnNumberToName(len(table.Headers))
		_ = f.SetCellStyle(name, "A1", lastCol+"1", bold)

		for r, row := range table.Rows {
			for col, value := range row {
				if col >= len(table.Headers) {
					break
				}
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				if err := f.SetCellValue(name, cell, value); err != nil {
					return nil, fmt.Errorf("write cell %s: %w", cell, err)
				}
			}
		}
		if len(table.Rows) > 0 {
			_ = f.SetCellStyle(name, "A2", fmt.Sprintf("%s%d", lastCol, len(table.Rows)+1), wrap)
		}
		_ = f.SetColWidth(name, "A", lastCol, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func sheetName(title string, index int, used map[string]bool) string {
	name := strings.TrimSpace(sheetNameReplacer.Replace(title))
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	base := name
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		runes := []rune(base)
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		name = string(runes) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}
