package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rwreynolds/stampcollect/internal/export"
	"github.com/rwreynolds/stampcollect/internal/models"
)

func (a *app) exportCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog to a CSV, XLSX or PDF file",
		Long: `Export writes every stamp, with its id, to a spreadsheet or a printable
PDF listing. CSV goes to stdout unless --out is given; the binary formats
always need --out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			switch format {
			case export.FormatCSV:
			case export.FormatXLSX, export.FormatPDF:
				if out == "" {
					return fmt.Errorf("--out is required for %s", format)
				}
			default:
				return fmt.Errorf("unsupported format %q (want csv, xlsx or pdf)", format)
			}

			records, err := a.service.Search(models.SearchCriteria{})
			if err != nil {
				return err
			}

			if out == "" {
				if err := export.Write(cmd.OutOrStdout(), format, records); err != nil {
					return fmt.Errorf("export %s: %w", format, err)
				}
				return nil
			}

			if err := writeExport(out, format, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d stamps to %s.\n", len(records), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", export.FormatCSV, "Output format: csv, xlsx or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}

// createFile opens export targets; tests replace it
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// writeExport writes records to path. A failed Close fails the export.
func writeExport(path, format string, records []models.StampRecord) (err error) {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := export.Write(f, format, records); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Add every row of a CSV file to the catalog",
		Long: `Import reads a CSV with a header row. Columns are matched by name, so a
file produced by export can be imported as is; only scott_number and
description are required. Every row is checked before any is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			requests, err := export.ReadCSV(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if len(requests) == 0 {
				return fmt.Errorf("%s: no stamp rows found", args[0])
			}

			ids, err := a.service.Import(requests)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d stamps.\n", len(ids))
			return nil
		},
	}
}
