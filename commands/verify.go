package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huellas/huella-app-sheets/attendance"
	"github.com/huellas/huella-app-sheets/config"
	"github.com/huellas/huella-app-sheets/roster"
	"github.com/huellas/huella-app-sheets/spreadsheet"
	"github.com/huellas/huella-app-sheets/verify"
)

type verifyFlags struct {
	hash       string
	device     bool
	dryRun     bool
	label      string
	roster     string
	attendance string
}

func NewVerifyCommand(options *Options) *cobra.Command {
	flags := verifyFlags{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verifies a single fingerprint hash against the roster",
		Long: `Verifies a single fingerprint hash against the roster and records the attendance of the
matched identifier. With --device the hash is read from the USB fingerprint reader and with
--dry-run the attendance is not recorded.`,
		Example: `  huella-app-sheets verify --hash abc123`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := options.configure(cmd, flags.apply)
			if err != nil {
				return err
			}

			return flags.verify(cmd.Context(), options, c, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.hash, "hash", "", "Fingerprint hash")
	cmd.Flags().BoolVar(&flags.device, "device", false, "Reads the fingerprint hash from the USB fingerprint reader")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Looks up the hash without recording attendance")
	cmd.Flags().StringVar(&flags.label, "label", config.DefaultLabel, "Label recorded with the attendance row")
	cmd.Flags().StringVar(&flags.roster, "roster-range", config.DefaultRoster, "Roster range e.g. 'RegistroHuella!A:B'")
	cmd.Flags().StringVar(&flags.attendance, "attendance-range", config.DefaultAttendance, "Attendance range e.g. 'RegistroHuella!C:F'")

	return cmd
}

func (f verifyFlags) apply(c *config.Config, changed func(string) bool) {
	if changed("label") {
		c.Label = f.label
	}

	if changed("roster-range") {
		c.Roster = f.roster
	}

	if changed("attendance-range") {
		c.Attendance = f.attendance
	}
}

func (f verifyFlags) verify(ctx context.Context, options *Options, c *config.Config, out io.Writer) error {
	hash := strings.TrimSpace(f.hash)

	if f.device {
		device, closer, err := openDevice(c.Device, options.Debug)
		if err != nil {
			return err
		}

		defer closer()

		if hash, err = device.Read(ctx); err != nil {
			return err
		}
	}

	if hash == "" {
		return fmt.Errorf("--hash or --device is a required option")
	}

	sheet, err := options.spreadsheet(ctx, c, spreadsheet.SHEETS)
	if err != nil {
		return err
	}

	fetcher := roster.NewFetcher(sheet, c.Roster, options.Debug)

	var recorder verify.Recorder = attendance.NewAppender(sheet, c.Attendance)
	if f.dryRun {
		recorder = discard{}
	}

	return lookup(ctx, verify.NewVerifier(fetcher, recorder, c.Label), hash, out)
}

func lookup(ctx context.Context, verifier *verify.Verifier, hash string, out io.Writer) error {
	result, err := verifier.Verify(ctx, hash)
	if errors.Is(err, verify.ErrNotFound) {
		fmt.Fprintf(out, "%v  not found\n", hash)
		return err
	} else if err != nil {
		return err
	}

	fmt.Fprintf(out, "%v  %v  %v %v %v\n", hash, result.ID, result.Record.Date, result.Record.Time, result.Record.Label)

	return nil
}

type discard struct{}

func (discard) Append(context.Context, attendance.Record) error {
	return nil
}
