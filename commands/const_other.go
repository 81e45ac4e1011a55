//go:build !linux && !darwin

package commands

const (
	DEFAULT_WORKDIR     = "huella"
	DEFAULT_CREDENTIALS = "huella/.google/credentials.json"
	DEFAULT_CONFIG      = "huella-app-sheets.yaml"
)
