package capture

import (
	"errors"
	"net/http"

	"github.com/uhppoted/uhppoted-lib/log"
)

const LOG_TAG = "capture"

var ErrNoCapture = errors.New("no fingerprint captured")

// Source produces the fingerprint hash for a verification request.
type Source interface {
	Capture(r *http.Request) (string, error)
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
