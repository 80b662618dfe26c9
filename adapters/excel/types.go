package excel

// Sheet is one worksheet read as a grid of trimmed cell strings
type Sheet struct {
	Name string
	Rows [][]string
}

// Workbook is an uploaded pricing file: every non-empty sheet in order
type Workbook struct {
	FileName string
	Sheets   []Sheet
}

// FirstSheet returns the first sheet, or false when the workbook is empty
func (w Workbook) FirstSheet() (Sheet, bool) {
	if len(w.Sheets) == 0 {
		return Sheet{}, false
	}
	return w.Sheets[0], true
}
