//go:build !linux && !darwin

package credentials

import (
	"os"
)

func readable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	return f.Close()
}
