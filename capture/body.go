package capture

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxRequestBody caps the JSON request body. A fingerprint hash is a few hundred bytes at most.
const maxRequestBody = 4096

// Body extracts the fingerprint hash from the 'huella' field of a JSON request body.
type Body struct {
}

func (b Body) Capture(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", fmt.Errorf("%w: missing request body", ErrNoCapture)
	}

	var payload map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: invalid JSON body (%v)", ErrNoCapture, err)
	}

	huella, ok := payload["huella"].(string)
	if !ok || huella == "" {
		return "", fmt.Errorf("%w: missing or empty 'huella'", ErrNoCapture)
	}

	return huella, nil
}
