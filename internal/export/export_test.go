package export

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rwreynolds/stampcollect/internal/models"
)

func sampleRecords() []models.StampRecord {
	jenny := models.NewStamp("C3a", "Inverted Jenny, \"24c\"")
	jenny.Country = models.StringPtr("USA")
	jenny.Year = models.IntPtr(1918)
	jenny.ConditionGrade = models.GradeVeryFine
	jenny.GumCondition = models.GumHinged
	jenny.QtyMint = 1
	jenny.CatalogValueMint = decimal.RequireFromString("450000")
	jenny.WantList = true
	jenny.DateAcquired = models.StringPtr("2016-11-17")

	black := models.NewStamp("GB1", "Penny Black")
	black.Used = true
	black.QtyUsed = 3
	black.CatalogValueUsed = decimal.RequireFromString("0.5")

	return []models.StampRecord{{ID: 7, Stamp: jenny}, {ID: 9, Stamp: black}}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Columns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `7,C3a,"Inverted Jenny, ""24c""",USA,1918,`))
	assert.Contains(t, lines[1], "450000.00")
	assert.Contains(t, lines[2], ",0.50,")
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(Columns, ",")+"\n", buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	records := sampleRecords()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	requests, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, requests, len(records))

	for i, req := range requests {
		got, err := req.ToStamp()
		require.NoError(t, err)
		want := records[i].Stamp

		assert.Equal(t, want.ScottNumber, got.ScottNumber)
		assert.Equal(t, want.Description, got.Description)
		assert.Equal(t, want.Country, got.Country)
		assert.Equal(t, want.Year, got.Year)
		assert.Equal(t, want.ConditionGrade, got.ConditionGrade)
		assert.Equal(t, want.GumCondition, got.GumCondition)
		assert.Equal(t, want.Used, got.Used)
		assert.Equal(t, want.WantList, got.WantList)
		assert.Equal(t, want.DateAcquired, got.DateAcquired)
		assert.True(t, want.TotalValue().Equal(got.TotalValue()), "total %s vs %s", want.TotalValue(), got.TotalValue())
	}
}

func TestReadCSVByHeaderName(t *testing.T) {
	input := "\ufeffDescription, Scott_Number,year,used\n" +
		"Columbus,230,1893,true\n" +
		"Trans-Mississippi,285\n"

	requests, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.Equal(t, "230", requests[0].ScottNumber)
	assert.Equal(t, "Columbus", requests[0].Description)
	require.NotNil(t, requests[0].Year)
	assert.Equal(t, 1893, *requests[0].Year)
	assert.True(t, requests[0].Used)

	assert.Equal(t, "285", requests[1].ScottNumber)
	assert.Nil(t, requests[1].Year)
	assert.False(t, requests[1].Used)
	assert.Nil(t, requests[1].Country)
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"missing column", "scott_number,country\n1,USA\n", "missing required column: description"},
		{"bad year", "scott_number,description,year\n1,x,1900\n2,y,MCM\n", "line 3: year"},
		{"bad flag", "scott_number,description,used\n1,x,maybe\n", "line 2: used"},
		{"bad quantity", "scott_number,description,qty_mint\n1,x,two\n", "line 2: qty_mint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	requests, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "7", rows[1][0])
	assert.Equal(t, "C3a", rows[1][1])
	assert.Equal(t, "1918", rows[1][4])
	assert.Equal(t, "450000.00", rows[1][17])
	assert.Equal(t, "3", rows[2][16])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleRecords(), "Stamp Catalog"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.HasSuffix(bytes.TrimSpace(buf.Bytes()), []byte("%%EOF")))
}

func TestWritePDFManyPages(t *testing.T) {
	records := make([]models.StampRecord, 0, 120)
	for i := 0; i < 120; i++ {
		s := models.NewStamp(strconv.Itoa(i), strings.Repeat("Très long déscription ", 10))
		records = append(records, models.StampRecord{ID: int64(i + 1), Stamp: s})
	}

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, records, ""))
	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("/Type /Page\n")), 1)
}

func TestFitTruncates(t *testing.T) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 9)

	assert.Equal(t, "short", fit(pdf, "short", 50))

	long := strings.Repeat("Penny Black ", 20)
	got := fit(pdf, long, 30)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, pdf.GetStringWidth(got), 30.0)
}

func TestWriteDispatchesByFormat(t *testing.T) {
	var csvBuf, xlsxBuf, pdfBuf bytes.Buffer
	require.NoError(t, Write(&csvBuf, FormatCSV, sampleRecords()))
	require.NoError(t, Write(&xlsxBuf, FormatXLSX, sampleRecords()))
	require.NoError(t, Write(&pdfBuf, FormatPDF, sampleRecords()))

	assert.True(t, strings.HasPrefix(csvBuf.String(), "id,scott_number,"))
	assert.True(t, bytes.HasPrefix(xlsxBuf.Bytes(), []byte("PK")))
	assert.True(t, bytes.HasPrefix(pdfBuf.Bytes(), []byte("%PDF-")))

	err := Write(&bytes.Buffer{}, "docx", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestReadCSVRejectsBinary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRecords()))

	_, err := ReadCSV(&buf)
	require.ErrorIs(t, err, ErrNotCSV)
	assert.Contains(t, err.Error(), "detected")
}
