package printer

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// DefaultNetworkPort is the raw printing port used by most network printers.
const DefaultNetworkPort = 9100

// NetworkTimeouts bounds the dial and the write of one print job. Zero
// means no bound beyond the caller's context deadline.
type NetworkTimeouts struct {
	Dial  time.Duration
	Write time.Duration
}

// networkSink dials TCP per print job, e.g. 192.168.1.100:9100.
type networkSink struct {
	address      string
	dialer       net.Dialer
	writeTimeout time.Duration
}

// NewNetworkTransport creates a transport that sends ESC/POS over TCP.
// A port of zero selects DefaultNetworkPort.
func NewNetworkTransport(host string, port int, timeouts NetworkTimeouts, logger *zap.SugaredLogger) Transport {
	if port == 0 {
		port = DefaultNetworkPort
	}
	return newESCPOSTransport(&networkSink{
		address:      net.JoinHostPort(host, strconv.Itoa(port)),
		dialer:       net.Dialer{Timeout: timeouts.Dial},
		writeTimeout: timeouts.Write,
	}, logger)
}

// writeDeadline picks the earlier of the write timeout and the context
// deadline. The zero time means no deadline.
func (s *networkSink) writeDeadline(ctx context.Context) time.Time {
	var deadline time.Time
	if s.writeTimeout > 0 {
		deadline = time.Now().Add(s.writeTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	return deadline
}

func (s *networkSink) send(ctx context.Context, data []byte) error {
	conn, err := s.dialer.DialContext(ctx, "tcp", s.address)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "printer: connect to %s", s.address), ErrConnectionFailed)
	}
	defer conn.Close()

	if deadline := s.writeDeadline(ctx); !deadline.IsZero() {
		_ = conn.SetWriteDeadline(deadline)
	}

	if _, err := conn.Write(data); err != nil {
		return errors.Mark(errors.Wrapf(err, "printer: write to %s", s.address), ErrWriteFailed)
	}
	return nil
}

func (s *networkSink) probe(ctx context.Context) error {
	conn, err := s.dialer.DialContext(ctx, "tcp", s.address)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "printer: connect to %s", s.address), ErrConnectionFailed)
	}
	return conn.Close()
}

func (s *networkSink) name() string {
	return "Network printer (" + s.address + ")"
}
