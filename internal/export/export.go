// Package export converts stamp records to and from file formats: CSV both
// ways, XLSX and a PDF listing for export only.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"github.com/rwreynolds/stampcollect/internal/models"
)

const SheetName = "Stamps"

// Export formats accepted by Write
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// PDFTitle heads every page of a PDF export
const PDFTitle = "Stamp Collection Catalog"

// ErrUnknownFormat is returned by Write for a format it does not produce
var ErrUnknownFormat = errors.New("unknown export format")

// Columns is the header row shared by every format. It follows the storage
// column order, with the record id first.
var Columns = []string{
	"id", "scott_number", "description", "country", "year", "denomination", "color",
	"condition_grade", "gum_condition", "perforation", "used", "plate_block", "first_day_cover",
	"location", "notes", "qty_mint", "qty_used", "catalog_value_mint", "catalog_value_used",
	"purchase_price", "current_market_value", "want_list", "for_sale", "date_acquired",
	"source", "image_path",
}

// ErrMissingColumn is returned by ReadCSV when a required header is absent
var ErrMissingColumn = errors.New("missing required column")

// ErrNotCSV is returned by ReadCSV when the input is not text, e.g. a workbook
var ErrNotCSV = errors.New("input is not CSV text")

// sniffLen matches mimetype's default read limit
const sniffLen = 3072

func row(r models.StampRecord) []string {
	s := r.Stamp
	opt := optional
	year := ""
	if s.Year != nil {
		year = strconv.Itoa(*s.Year)
	}

	return []string{
		strconv.FormatInt(r.ID, 10),
		s.ScottNumber,
		s.Description,
		opt(s.Country),
		year,
		opt(s.Denomination),
		opt(s.Color),
		string(s.ConditionGrade),
		string(s.GumCondition),
		opt(s.Perforation),
		strconv.FormatBool(s.Used),
		strconv.FormatBool(s.PlateBlock),
		strconv.FormatBool(s.FirstDayCover),
		opt(s.Location),
		opt(s.Notes),
		strconv.Itoa(s.QtyMint),
		strconv.Itoa(s.QtyUsed),
		s.CatalogValueMint.StringFixed(2),
		s.CatalogValueUsed.StringFixed(2),
		s.PurchasePrice.StringFixed(2),
		s.CurrentMarketValue.StringFixed(2),
		strconv.FormatBool(s.WantList),
		strconv.FormatBool(s.ForSale),
		opt(s.DateAcquired),
		opt(s.Source),
		opt(s.ImagePath),
	}
}

// Write encodes records in the named format
func Write(w io.Writer, format string, records []models.StampRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	case FormatPDF:
		return WritePDF(w, records, PDFTitle)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteCSV writes a header row followed by one row per record. Unset optional
// fields are written as empty cells.
func WriteCSV(w io.Writer, records []models.StampRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the records to a single-sheet workbook
func WriteXLSX(w io.Writer, records []models.StampRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	if err := sw.SetRow("A1", toCells(Columns)); err != nil {
		return err
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, xlsxRow(r)); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

// xlsxRow keeps counts as numbers so they sum in a spreadsheet; amounts stay
// text at two places so no float rounding creeps in.
func xlsxRow(r models.StampRecord) []interface{} {
	cells := toCells(row(r))
	cells[0] = r.ID
	if r.Stamp.Year != nil {
		cells[4] = *r.Stamp.Year
	}
	cells[15] = r.Stamp.QtyMint
	cells[16] = r.Stamp.QtyUsed
	return cells
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// ReadCSV parses rows written by WriteCSV (or by hand) into requests ready
// for validation. Columns are matched by header name and may appear in any
// order; only scott_number and description are required. The id column is
// ignored. Empty cells leave optional fields unset.
func ReadCSV(r io.Reader) ([]models.StampRequest, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if mt := mimetype.Detect(head); !isText(mt) {
		return nil, fmt.Errorf("%w (detected %s)", ErrNotCSV, mt.String())
	}

	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, required := range []string{"scott_number", "description"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var requests []models.StampRequest
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		req, err := parseRow(index, record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func parseRow(index map[string]int, record []string) (models.StampRequest, error) {
	cell := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	opt := func(name string) *string {
		if v := cell(name); v != "" {
			return &v
		}
		return nil
	}

	var req models.StampRequest
	req.ScottNumber = cell("scott_number")
	req.Description = cell("description")
	req.Country = opt("country")
	req.Denomination = opt("denomination")
	req.Color = opt("color")
	req.ConditionGrade = cell("condition_grade")
	req.GumCondition = cell("gum_condition")
	req.Perforation = opt("perforation")
	req.Location = opt("location")
	req.Notes = opt("notes")
	req.CatalogValueMint = cell("catalog_value_mint")
	req.CatalogValueUsed = cell("catalog_value_used")
	req.PurchasePrice = cell("purchase_price")
	req.CurrentMarketValue = cell("current_market_value")
	req.DateAcquired = opt("date_acquired")
	req.Source = opt("source")
	req.ImagePath = opt("image_path")

	if v := cell("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("year: %w", err)
		}
		req.Year = &year
	}

	ints := []struct {
		name  string
		field *int
	}{
		{"qty_mint", &req.QtyMint},
		{"qty_used", &req.QtyUsed},
	}
	for _, f := range ints {
		if v := cell(f.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return req, fmt.Errorf("%s: %w", f.name, err)
			}
			*f.field = n
		}
	}

	bools := []struct {
		name  string
		field *bool
	}{
		{"used", &req.Used},
		{"plate_block", &req.PlateBlock},
		{"first_day_cover", &req.FirstDayCover},
		{"want_list", &req.WantList},
		{"for_sale", &req.ForSale},
	}
	for _, f := range bools {
		if v := cell(f.name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return req, fmt.Errorf("%s: %w", f.name, err)
			}
			*f.field = b
		}
	}

	return req, nil
}
