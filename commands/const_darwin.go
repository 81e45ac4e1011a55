package commands

const (
	_etc = "/usr/local/etc/com.github.huellas"
	_var = "/usr/local/var/com.github.huellas"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
	DEFAULT_CONFIG      = _etc + "/huella-app-sheets.yaml"
)
