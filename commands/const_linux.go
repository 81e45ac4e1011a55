package commands

const (
	_etc = "/usr/local/etc/huella"
	_var = "/usr/local/var/huella"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
	DEFAULT_CONFIG      = _etc + "/huella-app-sheets.yaml"
)
