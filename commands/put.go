package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/api/sheets/v4"

	"github.com/huellas/huella-app-sheets/config"
	"github.com/huellas/huella-app-sheets/roster"
	"github.com/huellas/huella-app-sheets/spreadsheet"
)

type putFlags struct {
	area string
	file string
}

func NewPutCommand(options *Options) *cobra.Command {
	flags := putFlags{
		area: config.DefaultRoster,
	}

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Uploads a TSV roster file to a Google Sheets worksheet",
		Long: `Uploads a TSV roster file with 'Identifier' and 'Hash' columns to a Google Sheets worksheet,
replacing the existing roster. Files with blank or duplicated hashes are rejected.`,
		Example: `  huella-app-sheets --debug put --credentials "credentials.json" \
                              --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \
                              --range "RegistroHuella!A:B" \
                              --file "roster.tsv"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(flags.file) == "" {
				return fmt.Errorf("--file is a required option")
			}

			c, err := options.configure(cmd, func(c *config.Config, changed func(string) bool) {
				if changed("range") {
					c.Roster = flags.area
				}
			})
			if err != nil {
				return err
			}

			return flags.put(cmd.Context(), options, c)
		},
	}

	cmd.Flags().StringVar(&flags.area, "range", flags.area, "Roster range e.g. 'RegistroHuella!A:B'")
	cmd.Flags().StringVar(&flags.file, "file", flags.file, "TSV file")

	return cmd
}

func (f putFlags) put(ctx context.Context, options *Options, c *config.Config) error {
	rows, err := readFile(f.file)
	if err != nil {
		return err
	}

	if options.Debug {
		debugf("spreadsheet - ID:%s  range:%s  rows:%v", c.Spreadsheet, c.Roster, len(rows))
	}

	sheet, err := options.spreadsheet(ctx, c, spreadsheet.SHEETS)
	if err != nil {
		return err
	}

	if err := upload(ctx, sheet, c.Roster, rows); err != nil {
		return err
	}

	infof("uploaded %v roster entries from %v to %v", len(rows), f.file, c.Roster)

	return nil
}

func readFile(file string) ([][]any, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer r.Close()

	rows, err := roster.ReadTSV(r)
	if err != nil {
		return nil, fmt.Errorf("invalid TSV file %v (%w)", file, err)
	}

	return rows, nil
}

type uploader interface {
	Clear(ctx context.Context, ranges ...string) error
	Update(ctx context.Context, ranges ...*sheets.ValueRange) error
}

// upload clears the roster range and then writes the rows from the top of the range.
func upload(ctx context.Context, sheet uploader, area string, rows [][]any) error {
	if err := sheet.Clear(ctx, area); err != nil {
		return err
	}

	data := sheets.ValueRange{
		Range:          area,
		MajorDimension: "ROWS",
		Values:         rows,
	}

	return sheet.Update(ctx, &data)
}
