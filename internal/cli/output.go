package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rwreynolds/stampcollect/internal/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printRecords(w io.Writer, records []models.StampRecord) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tSCOTT\tDESCRIPTION\tCOUNTRY\tYEAR\tCONDITION\tSTATE\tQTY\tVALUE")
	for _, r := range records {
		s := r.Stamp
		state, qty := "mint", s.QtyMint
		if s.Used {
			state, qty = "used", s.QtyUsed
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, s.ScottNumber, s.Description, deref(s.Country), year(s.Year),
			s.ConditionGrade, state, qty, s.TotalValue().StringFixed(2))
	}
	return tw.Flush()
}

func printStats(w io.Writer, stats models.CollectionStats) error {
	tw := newTable(w)
	rows := []struct {
		label string
		value string
	}{
		{"Total stamps", strconv.FormatInt(stats.TotalStamps, 10)},
		{"Used", strconv.FormatInt(stats.UsedStamps, 10)},
		{"Mint", strconv.FormatInt(stats.MintStamps, 10)},
		{"Countries", strconv.FormatInt(stats.Countries, 10)},
		{"Catalog value", stats.TotalCatalogValue.StringFixed(2)},
		{"Average value", stats.AverageValue.StringFixed(2)},
		{"Want list", strconv.FormatInt(stats.WantListItems, 10)},
		{"For sale", strconv.FormatInt(stats.ForSaleItems, 10)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r.label, r.value)
	}
	return tw.Flush()
}

func deref(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

func year(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}
