package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rwreynolds/stampcollect/internal/database"
	"github.com/rwreynolds/stampcollect/internal/models"
	"github.com/rwreynolds/stampcollect/internal/validation"
)

// stampFlags mirrors StampRequest on the command line. Only flags the user
// actually passed are applied, so update can edit a single field.
type stampFlags struct {
	strings map[string]*string
	ints    map[string]*int
	bools   map[string]*bool
}

type stringField struct {
	flag, usage string
	set         func(r *models.StampRequest, v string)
}

var stringFields = []stringField{
	{"scott", "Scott catalog number", func(r *models.StampRequest, v string) { r.ScottNumber = v }},
	{"description", "Description of the design", func(r *models.StampRequest, v string) { r.Description = v }},
	{"country", "Issuing country", func(r *models.StampRequest, v string) { r.Country = &v }},
	{"denomination", "Face value as printed", func(r *models.StampRequest, v string) { r.Denomination = &v }},
	{"color", "Color", func(r *models.StampRequest, v string) { r.Color = &v }},
	{"grade", "Condition grade (Poor, Fair, Fine, Very Fine, Extremely Fine, Superb)", func(r *models.StampRequest, v string) { r.ConditionGrade = v }},
	{"gum", "Gum condition (Mint NH, Hinged, Heavily Hinged, No Gum)", func(r *models.StampRequest, v string) { r.GumCondition = v }},
	{"perforation", "Perforation gauge", func(r *models.StampRequest, v string) { r.Perforation = &v }},
	{"location", "Where the stamp is kept", func(r *models.StampRequest, v string) { r.Location = &v }},
	{"notes", "Free-form notes", func(r *models.StampRequest, v string) { r.Notes = &v }},
	{"value-mint", "Catalog value per mint stamp", func(r *models.StampRequest, v string) { r.CatalogValueMint = v }},
	{"value-used", "Catalog value per used stamp", func(r *models.StampRequest, v string) { r.CatalogValueUsed = v }},
	{"purchase-price", "Price paid", func(r *models.StampRequest, v string) { r.PurchasePrice = v }},
	{"market-value", "Current market value", func(r *models.StampRequest, v string) { r.CurrentMarketValue = v }},
	{"acquired", "Date acquired (YYYY-MM-DD)", func(r *models.StampRequest, v string) { r.DateAcquired = &v }},
	{"source", "Where the stamp came from", func(r *models.StampRequest, v string) { r.Source = &v }},
	{"image", "Path to an image of the stamp", func(r *models.StampRequest, v string) { r.ImagePath = &v }},
}

type intField struct {
	flag, usage string
	set         func(r *models.StampRequest, v int)
}

var intFields = []intField{
	{"year", "Year of issue", func(r *models.StampRequest, v int) { r.Year = &v }},
	{"qty-mint", "Mint copies held", func(r *models.StampRequest, v int) { r.QtyMint = v }},
	{"qty-used", "Used copies held", func(r *models.StampRequest, v int) { r.QtyUsed = v }},
}

type boolField struct {
	flag, usage string
	set         func(r *models.StampRequest, v bool)
}

var boolFields = []boolField{
	{"used", "The holding is used (cancelled)", func(r *models.StampRequest, v bool) { r.Used = v }},
	{"plate-block", "Held as a plate block", func(r *models.StampRequest, v bool) { r.PlateBlock = v }},
	{"fdc", "Held on a first day cover", func(r *models.StampRequest, v bool) { r.FirstDayCover = v }},
	{"want-list", "On the want list", func(r *models.StampRequest, v bool) { r.WantList = v }},
	{"for-sale", "Offered for sale", func(r *models.StampRequest, v bool) { r.ForSale = v }},
}

func bindStampFlags(fs *pflag.FlagSet) *stampFlags {
	f := &stampFlags{
		strings: make(map[string]*string, len(stringFields)),
		ints:    make(map[string]*int, len(intFields)),
		bools:   make(map[string]*bool, len(boolFields)),
	}
	for _, sf := range stringFields {
		f.strings[sf.flag] = fs.String(sf.flag, "", sf.usage)
	}
	for _, inf := range intFields {
		f.ints[inf.flag] = fs.Int(inf.flag, 0, inf.usage)
	}
	for _, bf := range boolFields {
		f.bools[bf.flag] = fs.Bool(bf.flag, false, bf.usage)
	}
	return f
}

// apply copies every flag the user set onto req
func (f *stampFlags) apply(fs *pflag.FlagSet, req *models.StampRequest) {
	for _, sf := range stringFields {
		if fs.Changed(sf.flag) {
			sf.set(req, *f.strings[sf.flag])
		}
	}
	for _, inf := range intFields {
		if fs.Changed(inf.flag) {
			inf.set(req, *f.ints[inf.flag])
		}
	}
	for _, bf := range boolFields {
		if fs.Changed(bf.flag) {
			bf.set(req, *f.bools[bf.flag])
		}
	}
}

func (a *app) addCmd() *cobra.Command {
	var flags *stampFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a stamp to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req models.StampRequest
			flags.apply(cmd.Flags(), &req)

			stamp, err := validation.ToStamp(req)
			if err != nil {
				return err
			}

			id, err := a.service.Insert(stamp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added stamp %d (%s).\n", id, stamp.ScottNumber)
			return nil
		},
	}
	flags = bindStampFlags(cmd.Flags())
	return cmd
}

func (a *app) updateCmd() *cobra.Command {
	var flags *stampFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an existing stamp",
		Long: `Update loads the stamp, applies the flags that were given and writes
the whole record back. Fields without a flag keep their current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			current, err := a.service.Get(id)
			if errors.Is(err, database.ErrStampNotFound) {
				return fmt.Errorf("stamp %d not found", id)
			}
			if err != nil {
				return err
			}

			req := models.RequestFromStamp(current)
			flags.apply(cmd.Flags(), &req)

			stamp, err := validation.ToStamp(req)
			if err != nil {
				return err
			}
			if err := a.service.Update(id, stamp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated stamp %d.\n", id)
			return nil
		},
	}
	flags = bindStampFlags(cmd.Flags())
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a stamp from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.service.Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted stamp %d.\n", id)
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid stamp id %q", arg)
	}
	return id, nil
}
