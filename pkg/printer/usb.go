package printer

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// usbSink writes to a device file, e.g. /dev/usb/lp0. The file is opened
// per print job.
type usbSink struct {
	path string
}

// NewUSBTransport creates a transport that writes ESC/POS to a USB device file.
func NewUSBTransport(devicePath string, logger *zap.SugaredLogger) Transport {
	return newESCPOSTransport(&usbSink{path: devicePath}, logger)
}

func (s *usbSink) send(_ context.Context, data []byte) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY, 0)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "printer: open USB device %s", s.path), ErrConnectionFailed)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return errors.Mark(errors.Wrapf(err, "printer: write to USB device %s", s.path), ErrWriteFailed)
	}
	return nil
}

func (s *usbSink) probe(_ context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return errors.Mark(errors.Wrapf(err, "printer: USB device %s", s.path), ErrConnectionFailed)
	}
	return nil
}

func (s *usbSink) name() string {
	return "USB printer (" + s.path + ")"
}
