package excel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"phone8ez/internal"
)

func TestWorkbookRoundTrip(t *testing.T) {
	rows := [][]string{
		{"모델", "SKT", "SKT"},
		{"", "MNP", "기변"},
		{"Galaxy S25", "100,000", "50,000"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, "SKT 3월", rows, 2))

	wb, err := NewReader(internal.NewNopLogger()).Read("skt.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	assert.Equal(t, "SKT 3월", wb.Sheets[0].Name)
	assert.Equal(t, rows, wb.Sheets[0].Rows)
}

func TestReadWorkbookSkipsEmptySheets(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("KT")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("KT", "A1", " 모델 "))
	require.NoError(t, f.SetCellValue("KT", "B1", "KT"))

	var buf bytes.Buffer
	_, err = f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	wb, err := NewReader(internal.NewNopLogger()).ReadWorkbook("kt.xlsx", &buf)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)

	sheet, ok := wb.FirstSheet()
	require.True(t, ok)
	assert.Equal(t, "KT", sheet.Name)
	assert.Equal(t, [][]string{{"모델", "KT"}}, sheet.Rows)
}

func TestReadCSV(t *testing.T) {
	content := "\ufeff모델,LGU+\n\"Galaxy S25\",\"1,250,000\"\n,\n"

	wb, err := NewReader(internal.NewNopLogger()).Read("lgu.csv", strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	assert.Equal(t, "lgu", wb.Sheets[0].Name)
	assert.Equal(t, [][]string{{"모델", "LGU+"}, {"Galaxy S25", "1,250,000"}}, wb.Sheets[0].Rows)
}

func TestReadRejects(t *testing.T) {
	r := NewReader(internal.NewNopLogger())

	_, err := r.Read("notes.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = r.Read("empty.csv", strings.NewReader(" , \n"))
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = r.Read("broken.xlsx", strings.NewReader("not a zip"))
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", SheetName("  "))
	assert.Equal(t, "a_b_c", SheetName("a/b?c"))
	assert.Len(t, []rune(SheetName(strings.Repeat("가", 40))), 31)
}
