package secondary

import (
	"io"

	"github.com/example/skillmatrix/internal/core/rotation"
)

// MatrixLayout locates the skill matrix inside a workbook. Rows and columns
// are 1-based.
type MatrixLayout struct {
	Sheet            string
	HeaderRow        int
	NameColumn       int
	FirstLevelColumn int
	FirstDataRow     int
}

// MatrixSheet is a skill matrix read from or written to a workbook.
// Levels[i][j] is the level of Rows[i] on Positions[j]; nil means blank.
type MatrixSheet struct {
	LineName  string
	Positions []string
	Rows      []MatrixRow
}

// MatrixRow is one employee row of the matrix.
type MatrixRow struct {
	EmployeeName string
	Levels       []*int
}

// RotationSheet is a rotation plan prepared for export.
type RotationSheet struct {
	LineName string
	Date     string
	Plan     rotation.Plan
}

// SpreadsheetAdapter reads and writes workbooks.
type SpreadsheetAdapter interface {
	// ReadMatrix extracts a skill matrix using an explicit layout.
	ReadMatrix(r io.Reader, layout MatrixLayout) (*MatrixSheet, error)

	// WriteMatrix writes a skill matrix workbook.
	WriteMatrix(w io.Writer, sheet MatrixSheet) error

	// WriteRotation writes a rotation plan workbook.
	WriteRotation(w io.Writer, sheet RotationSheet) error
}
