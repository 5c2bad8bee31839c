package printer

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/sangkips/counterpos/pkg/receipt"
)

var (
	// ErrConnectionFailed marks failures to reach the device.
	ErrConnectionFailed = errors.New("printer connection failed")
	// ErrWriteFailed marks failures while sending data to a reachable device.
	ErrWriteFailed = errors.New("printer write failed")
)

// Transport renders documents on one output device. Implementations hold no
// state between calls other than their configuration.
type Transport interface {
	// Render prints doc. The caller serializes calls to the same device.
	Render(ctx context.Context, doc *receipt.Document) error
	// Status probes the device.
	Status(ctx context.Context) Status
	// Name describes the device for logs and status output.
	Name() string
}

// DrawerOpener is implemented by transports that can kick a cash drawer.
type DrawerOpener interface {
	OpenDrawer(ctx context.Context) error
}

// Status is the result of probing a transport.
type Status struct {
	Connected bool   `json:"connected"`
	Name      string `json:"name"`
	Error     string `json:"error,omitempty"`
}

// sink delivers encoded bytes to a device.
type sink interface {
	send(ctx context.Context, data []byte) error
	probe(ctx context.Context) error
	name() string
}

// escposTransport encodes documents and hands the bytes to a sink.
type escposTransport struct {
	sink    sink
	encoder *Encoder
	logger  *zap.SugaredLogger
}

func newESCPOSTransport(s sink, logger *zap.SugaredLogger) *escposTransport {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &escposTransport{sink: s, encoder: NewEncoder(logger), logger: logger}
}

func (t *escposTransport) Render(ctx context.Context, doc *receipt.Document) error {
	data := t.encoder.Encode(doc)
	if err := t.sink.send(ctx, data); err != nil {
		return err
	}
	t.logger.Infow("document printed", "printer", t.sink.name(), "kind", doc.Kind(), "bytes", len(data))
	return nil
}

func (t *escposTransport) OpenDrawer(ctx context.Context) error {
	return t.sink.send(ctx, t.encoder.DrawerKick())
}

func (t *escposTransport) Status(ctx context.Context) Status {
	st := Status{Name: t.sink.name()}
	if err := t.sink.probe(ctx); err != nil {
		st.Error = err.Error()
		return st
	}
	st.Connected = true
	return st
}

func (t *escposTransport) Name() string {
	return t.sink.name()
}

// Config selects and configures a transport.
type Config struct {
	Type        string // none, usb, network, spooler, plugin
	USBPath     string
	NetworkHost string
	NetworkPort int
	PrinterName string

	// Timeouts bound network jobs. Zero values impose no bound.
	Timeouts NetworkTimeouts
}

// NewTransportFromConfig creates the transport named by cfg.Type. The plugin
// type needs a host API and is built with NewPluginTransport instead.
func NewTransportFromConfig(cfg Config, logger *zap.SugaredLogger) (Transport, error) {
	switch cfg.Type {
	case "usb":
		if cfg.USBPath == "" {
			return nil, errors.New("printer: USB path is required for USB printer type")
		}
		return NewUSBTransport(cfg.USBPath, logger), nil
	case "network":
		if cfg.NetworkHost == "" {
			return nil, errors.New("printer: host is required for network printer type")
		}
		return NewNetworkTransport(cfg.NetworkHost, cfg.NetworkPort, cfg.Timeouts, logger), nil
	case "spooler":
		if cfg.PrinterName == "" {
			return nil, errors.New("printer: printer name is required for spooler printer type")
		}
		return NewSpoolerTransport(cfg.PrinterName, nil, logger), nil
	case "none", "":
		return NewSimulatedTransport(nil, logger), nil
	case "plugin":
		return nil, errors.New("printer: plugin printers are registered by the host, not by config")
	default:
		return nil, errors.Newf("printer: unknown printer type %q (use usb, network, spooler, plugin or none)", cfg.Type)
	}
}

// IsTransportError reports whether err came from a transport.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrConnectionFailed) || errors.Is(err, ErrWriteFailed)
}
