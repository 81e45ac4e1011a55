package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/huellas/huella-app-sheets/config"
	"github.com/huellas/huella-app-sheets/roster"
	"github.com/huellas/huella-app-sheets/spreadsheet"
)

type getFlags struct {
	area string
	file string
}

func NewGetCommand(options *Options) *cobra.Command {
	flags := getFlags{
		area: config.DefaultRoster,
		file: time.Now().Format("roster-2006-01-02T150405.tsv"),
	}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Downloads the roster from a Google Sheets worksheet to a TSV file",
		Example: `  huella-app-sheets --debug get --credentials "credentials.json" \
                              --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \
                              --range "RegistroHuella!A:B" \
                              --file "roster.tsv"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := options.configure(cmd, func(c *config.Config, changed func(string) bool) {
				if changed("range") {
					c.Roster = flags.area
				}
			})
			if err != nil {
				return err
			}

			return flags.get(cmd.Context(), options, c)
		},
	}

	cmd.Flags().StringVar(&flags.area, "range", flags.area, "Roster range e.g. 'RegistroHuella!A:B'")
	cmd.Flags().StringVar(&flags.file, "file", flags.file, "TSV file name. Defaults to 'roster-<yyyy-mm-ddTHHmmss>.tsv'")

	return cmd
}

func (f getFlags) get(ctx context.Context, options *Options, c *config.Config) error {
	if options.Debug {
		debugf("spreadsheet - ID:%s  range:%s", c.Spreadsheet, c.Roster)
	}

	sheet, err := options.spreadsheet(ctx, c, spreadsheet.SHEETS_READONLY)
	if err != nil {
		return err
	}

	rows, err := sheet.Get(ctx, c.Roster)
	if err != nil {
		return fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data in spreadsheet/range")
	}

	if err := writeFile(f.file, rows); err != nil {
		return err
	}

	infof("retrieved roster to file %s", f.file)

	return nil
}

// writeFile writes the TSV to a temporary file and then renames it, so that an existing
// roster file is only replaced by a complete one.
func writeFile(file string, rows [][]any) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".roster-*.tsv")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := roster.WriteTSV(tmp, rows); err != nil {
		return fmt.Errorf("error creating TSV file (%w)", err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), file)
}
