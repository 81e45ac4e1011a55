package capture

import (
	"context"
	"fmt"

	"github.com/google/gousb"
)

// USB is a fingerprint reader attached by USB, read from a bulk/interrupt IN endpoint on the
// device's default interface.
type USB struct {
	usb      *gousb.Context
	device   *gousb.Device
	release  func()
	endpoint *gousb.InEndpoint
}

// OpenUSB finds the fingerprint reader by vendor and product ID and claims the IN endpoint.
func OpenUSB(vid, pid uint16, endpoint int) (*USB, error) {
	usb := gousb.NewContext()

	device, err := usb.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		usb.Close()
		return nil, fmt.Errorf("error opening fingerprint reader %04x:%04x (%w)", vid, pid, err)
	} else if device == nil {
		usb.Close()
		return nil, fmt.Errorf("fingerprint reader %04x:%04x not found", vid, pid)
	}

	if err := device.SetAutoDetach(true); err != nil {
		warnf("unable to enable kernel driver auto-detach for %04x:%04x (%v)", vid, pid, err)
	}

	intf, release, err := device.DefaultInterface()
	if err != nil {
		device.Close()
		usb.Close()
		return nil, fmt.Errorf("error claiming fingerprint reader interface (%w)", err)
	}

	in, err := intf.InEndpoint(endpoint)
	if err != nil {
		release()
		device.Close()
		usb.Close()
		return nil, fmt.Errorf("error opening fingerprint reader endpoint %v (%w)", endpoint, err)
	}

	infof("opened fingerprint reader %04x:%04x endpoint %v", vid, pid, endpoint)

	return &USB{
		usb:      usb,
		device:   device,
		release:  release,
		endpoint: in,
	}, nil
}

func (u *USB) Read(ctx context.Context, buffer []byte) (int, error) {
	return u.endpoint.ReadContext(ctx, buffer)
}

func (u *USB) Close() error {
	u.release()

	if err := u.device.Close(); err != nil {
		u.usb.Close()
		return err
	}

	return u.usb.Close()
}
