package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/huellas/huella-app-sheets/attendance"
	"github.com/huellas/huella-app-sheets/capture"
	"github.com/huellas/huella-app-sheets/config"
	"github.com/huellas/huella-app-sheets/httpapi"
	"github.com/huellas/huella-app-sheets/roster"
	"github.com/huellas/huella-app-sheets/spreadsheet"
	"github.com/huellas/huella-app-sheets/verify"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	capture    string
	bind       string
	port       int
	label      string
	roster     string
	attendance string
}

func NewServeCommand(options *Options) *cobra.Command {
	flags := serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the fingerprint verification HTTP service",
		Long: `Runs the fingerprint verification HTTP service. With --capture body the fingerprint hash is
POSTed to /verificar as {"huella":"<hash>"}, with --capture device a GET to /verificar reads
the hash from the USB fingerprint reader.`,
		Example: `  huella-app-sheets serve --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" --capture body`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := options.configure(cmd, flags.apply)
			if err != nil {
				return err
			}

			return serve(cmd.Context(), options, c)
		},
	}

	cmd.Flags().StringVar(&flags.capture, "capture", config.CaptureBody, "Fingerprint capture mode ('body' or 'device')")
	cmd.Flags().StringVar(&flags.bind, "bind", config.DefaultBind, "HTTP bind address")
	cmd.Flags().IntVar(&flags.port, "port", 0, "HTTP port (defaults to 1000 for body capture and 5000 for device capture)")
	cmd.Flags().StringVar(&flags.label, "label", config.DefaultLabel, "Label recorded with each attendance row")
	cmd.Flags().StringVar(&flags.roster, "roster-range", config.DefaultRoster, "Roster range e.g. 'RegistroHuella!A:B'")
	cmd.Flags().StringVar(&flags.attendance, "attendance-range", config.DefaultAttendance, "Attendance range e.g. 'RegistroHuella!C:F'")

	return cmd
}

func (f serveFlags) apply(c *config.Config, changed func(string) bool) {
	if changed("capture") {
		c.Capture = f.capture
	}

	if changed("bind") {
		c.Bind = f.bind
	}

	if changed("port") {
		c.Port = f.port
	}

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

func serve(ctx context.Context, options *Options, c *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sheet, err := options.spreadsheet(ctx, c, spreadsheet.SHEETS)
	if err != nil {
		return err
	}

	fetcher := roster.NewFetcher(sheet, c.Roster, options.Debug)
	appender := attendance.NewAppender(sheet, c.Attendance)
	verifier := verify.NewVerifier(fetcher, appender, c.Label)

	d := httpapi.Dependencies{
		Addr:           c.ListenAddress(),
		MaxConnections: c.MaxConnections,
		Method:         http.MethodPost,
		NoCapture:      httpapi.MsgNoHuella,
		Source:         capture.Body{},
		Verifier:       verifier,
		Prober:         sheet,
		Debug:          options.Debug,
	}

	if c.Capture == config.CaptureDevice {
		device, closer, err := openDevice(c.Device, options.Debug)
		if err != nil {
			return err
		}

		defer closer()

		d.Method = http.MethodGet
		d.NoCapture = httpapi.MsgNoDevice
		d.Source = device
	}

	srv := httpapi.NewServer(d)
	errs := make(chan error, 1)

	go func() {
		errs <- srv.Start()
	}()

	infof("listening on %v (spreadsheet:%v capture:%v)", d.Addr, c.Spreadsheet, c.Capture)

	select {
	case err := <-errs:
		return err

	case <-ctx.Done():
		infof("shutting down")
	}

	shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdown); err != nil {
		return fmt.Errorf("error shutting down HTTP server (%w)", err)
	}

	return <-errs
}

func openDevice(d config.Device, debug bool) (*capture.Device, func(), error) {
	usb, err := capture.OpenUSB(d.VendorID, d.ProductID, d.Endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open fingerprint reader %04x:%04x (%w)", d.VendorID, d.ProductID, err)
	}

	closer := func() {
		if err := usb.Close(); err != nil {
			warnf("error closing fingerprint reader (%v)", err)
		}
	}

	device, err := capture.NewDevice(usb, d.ReadSize, d.Prefix, d.Timeout, debug)
	if err != nil {
		closer()
		return nil, nil, err
	}

	return device, closer, nil
}
