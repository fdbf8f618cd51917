package excel

import "github.com/xuri/excelize/v2"

// sheetWriter issues excelize calls against one sheet and keeps the first
// error. Once a call fails the rest are skipped.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) value(axis string, v any) {
	if w.err == nil {
		w.err = w.f.SetCellValue(w.sheet, axis, v)
	}
}

func (w *sheetWriter) row(axis string, values []any) {
	if w.err == nil {
		w.err = w.f.SetSheetRow(w.sheet, axis, &values)
	}
}

func (w *sheetWriter) style(from, to string, styleID int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(w.sheet, from, to, styleID)
	}
}

func (w *sheetWriter) width(fromCol, toCol string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(w.sheet, fromCol, toCol, width)
	}
}
