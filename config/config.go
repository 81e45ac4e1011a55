package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/huellas/huella-app-sheets/spreadsheet"
)

const (
	CaptureBody   = "body"
	CaptureDevice = "device"
)

const (
	DefaultSpreadsheet = "1Gnh6cUqXK76pQGoq6tS9ZVJXPiN7eYzI8kca_HA"
	DefaultRoster      = "RegistroHuella!A:B"
	DefaultAttendance  = "RegistroHuella!C:F"
	DefaultLabel       = "Almuerzo"
	DefaultBind        = "0.0.0.0"
	DefaultBodyPort    = 1000
	DefaultDevicePort  = 5000
)

type Config struct {
	Spreadsheet     string        `yaml:"spreadsheet"`
	Credentials     string        `yaml:"credentials"`
	CredentialsJSON string        `yaml:"-"`
	Workdir         string        `yaml:"workdir"`
	Roster          string        `yaml:"roster-range"`
	Attendance      string        `yaml:"attendance-range"`
	Label           string        `yaml:"label"`
	Capture         string        `yaml:"capture"`
	Bind            string        `yaml:"bind"`
	Port            int           `yaml:"port"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxConnections  int           `yaml:"max-connections"`
	Device          Device        `yaml:"device"`
}

// Device is the USB fingerprint reader configuration. Endpoint is the IN endpoint number
// (e.g. 1 for endpoint address 0x81).
type Device struct {
	VendorID  uint16        `yaml:"vendor-id"`
	ProductID uint16        `yaml:"product-id"`
	Endpoint  int           `yaml:"endpoint"`
	ReadSize  int           `yaml:"read-size"`
	Prefix    int           `yaml:"prefix"`
	Timeout   time.Duration `yaml:"timeout"`
}

func NewConfig(workdir, credentials string) *Config {
	return &Config{
		Spreadsheet:    DefaultSpreadsheet,
		Credentials:    credentials,
		Workdir:        workdir,
		Roster:         DefaultRoster,
		Attendance:     DefaultAttendance,
		Label:          DefaultLabel,
		Capture:        CaptureBody,
		Bind:           DefaultBind,
		Port:           0,
		Timeout:        30 * time.Second,
		MaxConnections: 64,
		Device: Device{
			VendorID:  0x05ba,
			ProductID: 0x000a,
			Endpoint:  1,
			ReadSize:  512,
			Prefix:    32,
			Timeout:   5 * time.Second,
		},
	}
}

// Load overlays the YAML configuration file (if it exists), then the .env file (if it exists)
// and finally the environment onto the defaults. A missing configuration file is not an error
// unless required is set.
func (c *Config) Load(file string, required bool) error {
	if strings.TrimSpace(file) != "" {
		b, err := os.ReadFile(file)
		switch {
		case err == nil:
			if err := c.decode(b); err != nil {
				return fmt.Errorf("invalid configuration file %v (%w)", file, err)
			}

		case errors.Is(err, fs.ErrNotExist) && !required:

		default:
			return fmt.Errorf("could not load configuration file %v (%w)", file, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("invalid .env file (%w)", err)
	}

	return c.FromEnv()
}

func (c *Config) decode(b []byte) error {
	decoder := yaml.NewDecoder(bytes.NewReader(b))
	decoder.KnownFields(true)

	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// FromEnv overrides the configuration with any values set in the environment.
func (c *Config) FromEnv() error {
	getenv(&c.Spreadsheet, "GOOGLE_SHEET_ID")
	getenv(&c.CredentialsJSON, "GOOGLE_CREDENTIALS")
	getenv(&c.Credentials, "GOOGLE_CREDENTIALS_FILE")
	getenv(&c.Workdir, "HUELLA_WORKDIR")
	getenv(&c.Roster, "HUELLA_ROSTER_RANGE")
	getenv(&c.Attendance, "HUELLA_ATTENDANCE_RANGE")
	getenv(&c.Label, "HUELLA_LABEL")
	getenv(&c.Capture, "HUELLA_CAPTURE")
	getenv(&c.Bind, "HUELLA_BIND")

	if err := getenvInt(&c.Port, "PORT"); err != nil {
		return err
	}

	if err := getenvInt(&c.MaxConnections, "HUELLA_MAX_CONNECTIONS"); err != nil {
		return err
	}

	if err := getenvDuration(&c.Timeout, "HUELLA_TIMEOUT"); err != nil {
		return err
	}

	if err := getenvID(&c.Device.VendorID, "HUELLA_DEVICE_VID"); err != nil {
		return err
	}

	if err := getenvID(&c.Device.ProductID, "HUELLA_DEVICE_PID"); err != nil {
		return err
	}

	return nil
}

// Validate normalises the spreadsheet ID and checks the ranges, capture mode and port.
func (c *Config) Validate() error {
	id, err := spreadsheet.ParseID(c.Spreadsheet)
	if err != nil {
		return err
	}

	c.Spreadsheet = id

	if err := spreadsheet.ValidateRange(c.Roster); err != nil {
		return fmt.Errorf("roster-range: %w", err)
	}

	if err := spreadsheet.ValidateRange(c.Attendance); err != nil {
		return fmt.Errorf("attendance-range: %w", err)
	}

	c.Capture = strings.ToLower(strings.TrimSpace(c.Capture))
	if c.Capture != CaptureBody && c.Capture != CaptureDevice {
		return fmt.Errorf("invalid capture mode '%v' - expected '%v' or '%v'", c.Capture, CaptureBody, CaptureDevice)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %v", c.Port)
	}

	return nil
}

// ListenAddress is the bind address and port, defaulting the port by capture mode.
func (c *Config) ListenAddress() string {
	port := c.Port
	if port == 0 {
		if c.Capture == CaptureDevice {
			port = DefaultDevicePort
		} else {
			port = DefaultBodyPort
		}
	}

	return fmt.Sprintf("%v:%v", c.Bind, port)
}

func getenv(v *string, key string) {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		*v = s
	}
}

func getenvInt(v *int, key string) error {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid %v '%v'", key, s)
	}

	*v = n

	return nil
}

func getenvDuration(v *time.Duration, key string) error {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid %v '%v' (%w)", key, s, err)
	}

	*v = d

	return nil
}

// getenvID parses a USB vendor/product ID, either hex ('0x05ba') or decimal.
func getenvID(v *uint16, key string) error {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return nil
	}

	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return fmt.Errorf("invalid %v '%v' (%w)", key, s, err)
	}

	*v = uint16(n)

	return nil
}
