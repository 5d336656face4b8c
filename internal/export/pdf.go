package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/rwreynolds/stampcollect/internal/models"
)

type pdfColumn struct {
	header string
	width  float64
	align  string
	value  func(r models.StampRecord) string
}

// pdfColumns is a reading subset of Columns; widths fill a landscape A4 page
var pdfColumns = []pdfColumn{
	{"ID", 12, "R", func(r models.StampRecord) string { return strconv.FormatInt(r.ID, 10) }},
	{"Scott", 22, "L", func(r models.StampRecord) string { return r.Stamp.ScottNumber }},
	{"Description", 108, "L", func(r models.StampRecord) string { return r.Stamp.Description }},
	{"Country", 35, "L", func(r models.StampRecord) string { return optional(r.Stamp.Country) }},
	{"Year", 14, "R", func(r models.StampRecord) string {
		if r.Stamp.Year == nil {
			return ""
		}
		return strconv.Itoa(*r.Stamp.Year)
	}},
	{"Condition", 30, "L", func(r models.StampRecord) string { return string(r.Stamp.ConditionGrade) }},
	{"State", 16, "L", func(r models.StampRecord) string {
		if r.Stamp.Used {
			return "used"
		}
		return "mint"
	}},
	{"Qty", 12, "R", func(r models.StampRecord) string {
		if r.Stamp.Used {
			return strconv.Itoa(r.Stamp.QtyUsed)
		}
		return strconv.Itoa(r.Stamp.QtyMint)
	}},
	{"Value", 28, "R", func(r models.StampRecord) string { return r.Stamp.TotalValue().StringFixed(2) }},
}

// WritePDF renders the records as a printable catalog listing with a total
// value line. The title is printed on every page.
func WritePDF(w io.Writer, records []models.StampRecord, title string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		if title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 9, tr(title), "", 1, "C", false, 0, "")
		}
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, col.header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "", 9)

	total := decimal.Zero
	for _, r := range records {
		for _, col := range pdfColumns {
			text := tr(fit(pdf, col.value(r), col.width-2))
			pdf.CellFormat(col.width, 6, text, "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
		total = total.Add(r.Stamp.TotalValue())
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 7, fmt.Sprintf("%d stamps, total catalog value %s", len(records), total.StringFixed(2)),
		"", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 5, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fit shortens s with a trailing ellipsis until it fits width at the current font
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func optional(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
