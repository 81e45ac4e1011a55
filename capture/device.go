package capture

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Reader performs a single blocking read from a fingerprint reader endpoint.
type Reader interface {
	Read(ctx context.Context, buffer []byte) (int, error)
}

// Device derives the fingerprint hash from a fingerprint reader: one read of 'size' bytes,
// hashed as the lowercase hex encoding of the first 'prefix' bytes. Reads are serialised
// because the underlying device handle does not support concurrent transfers.
type Device struct {
	reader  Reader
	size    int
	prefix  int
	timeout time.Duration
	debug   bool
	guard   sync.Mutex
}

func NewDevice(reader Reader, size, prefix int, timeout time.Duration, debug bool) (*Device, error) {
	if reader == nil {
		return nil, fmt.Errorf("missing fingerprint reader")
	}

	if size <= 0 {
		return nil, fmt.Errorf("invalid read size %v", size)
	}

	if prefix <= 0 || prefix > size {
		return nil, fmt.Errorf("invalid hash prefix length %v (read size %v)", prefix, size)
	}

	if timeout <= 0 {
		return nil, fmt.Errorf("invalid read timeout %v", timeout)
	}

	return &Device{
		reader:  reader,
		size:    size,
		prefix:  prefix,
		timeout: timeout,
		debug:   debug,
	}, nil
}

func (d *Device) Capture(r *http.Request) (string, error) {
	return d.Read(r.Context())
}

// Read captures a fingerprint and returns its hash. Device errors, timeouts and reads
// shorter than the hash prefix are reported as ErrNoCapture.
func (d *Device) Read(ctx context.Context) (string, error) {
	d.guard.Lock()
	defer d.guard.Unlock()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	buffer := make([]byte, d.size)

	n, err := d.reader.Read(ctx, buffer)
	if err != nil {
		return "", fmt.Errorf("%w: error reading fingerprint (%v)", ErrNoCapture, err)
	}

	if n < d.prefix {
		return "", fmt.Errorf("%w: short read (%v of %v bytes)", ErrNoCapture, n, d.prefix)
	}

	hash := hex.EncodeToString(buffer[:d.prefix])

	if d.debug {
		debugf("read %v bytes from fingerprint reader, hash %v", n, hash)
	}

	return hash, nil
}
