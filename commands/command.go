package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uhppoted/uhppoted-lib/log"

	"github.com/huellas/huella-app-sheets/config"
	"github.com/huellas/huella-app-sheets/credentials"
	"github.com/huellas/huella-app-sheets/spreadsheet"
)

const APP = "huella-app-sheets"
const LOG_TAG = "huella"

// Options holds the global flags. Flags that are set override the environment and the
// configuration file.
type Options struct {
	Debug       bool
	Config      string
	Spreadsheet string
	Credentials string
	Workdir     string
}

func NewRootCommand() *cobra.Command {
	options := &Options{
		Config:      DEFAULT_CONFIG,
		Credentials: DEFAULT_CREDENTIALS,
		Workdir:     DEFAULT_WORKDIR,
	}

	cmd := &cobra.Command{
		Use:   APP,
		Short: "Fingerprint attendance service backed by Google Sheets",
		Long: `Validates fingerprint hashes against the roster in a Google Sheets worksheet and records
the attendance of matched identifiers in the same worksheet.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetDebug(options.Debug)
		},
	}

	cmd.PersistentFlags().BoolVar(&options.Debug, "debug", options.Debug, "Displays internal information for diagnosing errors")
	cmd.PersistentFlags().StringVar(&options.Config, "config", options.Config, "Configuration file")
	cmd.PersistentFlags().StringVar(&options.Spreadsheet, "url", options.Spreadsheet, "Spreadsheet URL or ID")
	cmd.PersistentFlags().StringVar(&options.Credentials, "credentials", options.Credentials, "Path for the 'credentials.json' file")
	cmd.PersistentFlags().StringVar(&options.Workdir, "workdir", options.Workdir, "Directory for working files (tokens, etc)")

	cmd.AddCommand(NewServeCommand(options))
	cmd.AddCommand(NewVerifyCommand(options))
	cmd.AddCommand(NewGetCommand(options))
	cmd.AddCommand(NewPutCommand(options))
	cmd.AddCommand(NewAuthoriseCommand(options))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// configure loads the configuration (defaults, file, .env, environment) and then applies the
// global flags and any command flags that were explicitly set.
func (o *Options) configure(cmd *cobra.Command, overrides func(c *config.Config, changed func(string) bool)) (*config.Config, error) {
	changed := cmd.Flags().Changed

	c := config.NewConfig(DEFAULT_WORKDIR, DEFAULT_CREDENTIALS)
	if err := c.Load(o.Config, changed("config")); err != nil {
		return nil, err
	}

	if changed("url") {
		c.Spreadsheet = o.Spreadsheet
	}

	if changed("credentials") {
		c.Credentials = o.Credentials
		c.CredentialsJSON = ""
	}

	if changed("workdir") {
		c.Workdir = o.Workdir
	}

	if overrides != nil {
		overrides(c, changed)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (o *Options) spreadsheet(ctx context.Context, c *config.Config, scope string) (*spreadsheet.Spreadsheet, error) {
	source := credentials.Source{
		JSON:    c.CredentialsJSON,
		File:    c.Credentials,
		Workdir: c.Workdir,
	}

	client, err := credentials.Load(ctx, source, scope)
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	sheet, err := spreadsheet.NewSpreadsheet(ctx, client, c.Spreadsheet, c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return sheet, nil
}

func debugf(format string, args ...any) {
	log.Debugf("%-8v "+format, append([]any{LOG_TAG}, args...)...)
}

func infof(format string, args ...any) {
	log.Infof("%-8v "+format, append([]any{LOG_TAG}, args...)...)
}

func warnf(format string, args ...any) {
	log.Warnf("%-8v "+format, append([]any{LOG_TAG}, args...)...)
}
