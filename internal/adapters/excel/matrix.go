// Package excel reads and writes skill matrix and rotation workbooks with excelize.
package excel

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/skillmatrix/internal/ports/secondary"
)

// MatrixSheetName is the sheet written by WriteMatrix.
const MatrixSheetName = "Skill Matrix"

// maxBlankRun ends a header or roster scan after this many consecutive blanks.
const maxBlankRun = 3

var (
	skipPositionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^#\s*of\s*(operations|ops|positions|processes)`),
		regexp.MustCompile(`(?i)^total`),
		regexp.MustCompile(`(?i)^count`),
		regexp.MustCompile(`(?i)targer?`),
	}
	footerRowPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^#\s*of\s*(operator|employee|worker)`),
		regexp.MustCompile(`(?i)employees?\s*from\s*other`),
		regexp.MustCompile(`(?i)^total`),
		regexp.MustCompile(`(?i)^average`),
		regexp.MustCompile(`(?i)^ergo\s*rating`),
	}
)

// Adapter implements secondary.SpreadsheetAdapter.
type Adapter struct{}

// NewAdapter creates a new excel adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// DefaultLayout is the layout WriteMatrix produces, so exported workbooks
// can be imported again unchanged.
func DefaultLayout() secondary.MatrixLayout {
	return secondary.MatrixLayout{
		Sheet:            MatrixSheetName,
		HeaderRow:        2,
		NameColumn:       1,
		FirstLevelColumn: 2,
		FirstDataRow:     3,
	}
}

// ReadMatrix extracts a skill matrix using an explicit layout. An empty
// layout sheet selects the first sheet.
func (a *Adapter) ReadMatrix(r io.Reader, layout secondary.MatrixLayout) (*secondary.MatrixSheet, error) {
	if layout.HeaderRow < 1 || layout.NameColumn < 1 || layout.FirstLevelColumn < 1 || layout.FirstDataRow <= layout.HeaderRow {
		return nil, fmt.Errorf("invalid matrix layout %+v", layout)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := layout.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	at := func(row, col int) string {
		if row < 1 || row > len(rows) || col < 1 || col > len(rows[row-1]) {
			return ""
		}
		return strings.TrimSpace(rows[row-1][col-1])
	}

	out := &secondary.MatrixSheet{LineName: sheet}

	var columns []int
	blank := 0
	for c := layout.FirstLevelColumn; blank < maxBlankRun && c <= maxWidth(rows); c++ {
		name := at(layout.HeaderRow, c)
		if name == "" {
			blank++
			continue
		}
		blank = 0
		if matchesAny(skipPositionPatterns, name) {
			continue
		}
		out.Positions = append(out.Positions, name)
		columns = append(columns, c)
	}

	blank = 0
	for r := layout.FirstDataRow; blank < maxBlankRun && r <= len(rows); r++ {
		name := at(r, layout.NameColumn)
		if len([]rune(name)) < 2 {
			blank++
			continue
		}
		if matchesAny(footerRowPatterns, name) {
			break
		}
		blank = 0

		row := secondary.MatrixRow{EmployeeName: name, Levels: make([]*int, len(columns))}
		for j, c := range columns {
			row.Levels[j] = parseLevel(at(r, c))
		}
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}

// WriteMatrix writes a skill matrix workbook in DefaultLayout.
func (a *Adapter) WriteMatrix(w io.Writer, sheet secondary.MatrixSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), MatrixSheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	layout := DefaultLayout()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	sw := &sheetWriter{f: f, sheet: MatrixSheetName}
	sw.value(cell(1, 1), sheet.LineName)
	sw.value(cell(layout.NameColumn, layout.HeaderRow), "Employee")
	for j, name := range sheet.Positions {
		sw.value(cell(layout.FirstLevelColumn+j, layout.HeaderRow), name)
	}
	lastCol := layout.FirstLevelColumn + len(sheet.Positions) - 1
	if lastCol < layout.NameColumn {
		lastCol = layout.NameColumn
	}
	sw.style(cell(1, layout.HeaderRow), cell(lastCol, layout.HeaderRow), headerStyle)
	sw.width("A", "A", 24)

	for i, row := range sheet.Rows {
		r := layout.FirstDataRow + i
		sw.value(cell(layout.NameColumn, r), row.EmployeeName)
		for j, level := range row.Levels {
			if level == nil {
				continue
			}
			sw.value(cell(layout.FirstLevelColumn+j, r), *level)
		}
	}
	if sw.err != nil {
		return fmt.Errorf("failed to fill matrix sheet: %w", sw.err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// parseLevel reads a level cell: blank is nil, '*' or 'x' marks a trainee
// (level 1), numbers are rounded and clamped to 0..4.
func parseLevel(raw string) *int {
	switch raw {
	case "":
		return nil
	case "*", "x", "X":
		one := 1
		return &one
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	level := int(math.Round(n))
	level = max(0, min(4, level))
	return &level
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func maxWidth(rows [][]string) int {
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	return w
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// Ensure Adapter implements the interface
var _ secondary.SpreadsheetAdapter = (*Adapter)(nil)
