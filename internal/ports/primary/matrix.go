package primary

import (
	"context"
	"io"

	"github.com/example/skillmatrix/internal/core/crosstraining"
)

// MatrixService defines the primary port for spreadsheet import/export.
type MatrixService interface {
	// ImportMatrix seeds skill records from a workbook laid out as described.
	ImportMatrix(ctx context.Context, req ImportMatrixRequest) (*ImportMatrixResponse, error)

	// ExportMatrix writes the skill matrix of a line's active employees.
	ExportMatrix(ctx context.Context, lineID string, w io.Writer) error

	// ExportRotation writes the stored plan for (line, date).
	ExportRotation(ctx context.Context, lineID, date string, w io.Writer) error
}

// ImportMatrixRequest contains parameters for a spreadsheet import.
type ImportMatrixRequest struct {
	LineID           string    `validate:"required"`
	Reader           io.Reader `validate:"required"`
	Sheet            string
	HeaderRow        int `validate:"min=1"`
	NameColumn       int `validate:"min=1"`
	FirstLevelColumn int `validate:"gtfield=NameColumn"`
	FirstDataRow     int `validate:"gtfield=HeaderRow"`
}

// ImportMatrixResponse contains counts of what the import touched.
type ImportMatrixResponse struct {
	NewEmployees int
	NewPositions int
	SkillRecords int
}

// AnalysisService defines the primary port for cross-training analysis.
type AnalysisService interface {
	// CrossTraining analyses 3x3 coverage of a line.
	CrossTraining(ctx context.Context, lineID string) (*crosstraining.Analysis, error)
}
