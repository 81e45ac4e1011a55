package commands

import (
	"github.com/spf13/cobra"

	"github.com/huellas/huella-app-sheets/credentials"
	"github.com/huellas/huella-app-sheets/spreadsheet"
)

func NewAuthoriseCommand(options *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "authorise",
		Aliases: []string{"authorize"},
		Short:   "Authorises access to Google Sheets with OAuth2 client credentials",
		Long: `Authorises access to Google Sheets with OAuth2 'installed' or 'web' client credentials and
saves the tokens alongside the credentials (or in --workdir). Service account credentials do
not need authorising.`,
		Example: `  huella-app-sheets authorise --credentials "credentials.json"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := options.configure(cmd, nil)
			if err != nil {
				return err
			}

			source := credentials.Source{
				JSON:    c.CredentialsJSON,
				File:    c.Credentials,
				Workdir: c.Workdir,
			}

			tokens, err := credentials.Authorise(cmd.Context(), source, spreadsheet.SHEETS, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}

			infof("saved OAuth2 tokens to %v", tokens)

			return nil
		},
	}
}
