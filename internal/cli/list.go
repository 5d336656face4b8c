package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rwreynolds/stampcollect/internal/models"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every stamp in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// An empty search is the listing that carries ids
			records, err := a.service.Search(models.SearchCriteria{})
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stamps in the catalog.")
				return nil
			}
			return printRecords(cmd.OutOrStdout(), records)
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	var criteria models.SearchCriteria
	var yearFrom, yearTo int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find stamps matching every given filter",
		Long: `Search returns the stamps that match all of the given filters.

Text filters are case-insensitive substring matches. Year bounds are
inclusive. --used-only and --want-list only narrow the result; leaving
them off does not exclude anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("year-from") {
				criteria.YearFrom = &yearFrom
			}
			if cmd.Flags().Changed("year-to") {
				criteria.YearTo = &yearTo
			}

			records, err := a.service.Search(criteria)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching stamps.")
				return nil
			}
			return printRecords(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().StringVar(&criteria.Description, "description", "", "Description contains")
	cmd.Flags().StringVar(&criteria.ScottNumber, "scott", "", "Scott number contains")
	cmd.Flags().StringVar(&criteria.Country, "country", "", "Country contains")
	cmd.Flags().IntVar(&yearFrom, "year-from", 0, "Earliest year of issue")
	cmd.Flags().IntVar(&yearTo, "year-to", 0, "Latest year of issue")
	cmd.Flags().BoolVar(&criteria.UsedOnly, "used-only", false, "Only used stamps")
	cmd.Flags().BoolVar(&criteria.WantList, "want-list", false, "Only stamps on the want list")

	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.service.Statistics()
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), stats)
		},
	}
}
