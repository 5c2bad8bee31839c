package display

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.bug.st/serial"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// ErrPortUnavailable is returned when the serial port cannot be opened or
// the display is not connected.
var ErrPortUnavailable = errors.New("display port unavailable")

const (
	cmdClear = 0x0C
	esc      = 0x1B
)

// ConnState is the connection state of a Controller.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
	Writing
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Writing:
		return "writing"
	default:
		return "disconnected"
	}
}

// Port is an open serial connection.
type Port interface {
	Write(p []byte) (int, error)
	Drain() error
	Close() error
}

// Opener opens a serial port at the given baud rate.
type Opener func(name string, baud int) (Port, error)

// SerialOpener opens a real port with 8 data bits, no parity and 1 stop bit.
func SerialOpener(name string, baud int) (Port, error) {
	p, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPorts returns the serial ports present on the machine.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "display: list serial ports")
	}
	return ports, nil
}

// Config configures a Controller.
type Config struct {
	PortName string
	BaudRate int
	// Settle is the pause between the reset sequence and the text, and
	// between consecutive writes.
	Settle time.Duration
	Format Format
}

// Status is a snapshot of a Controller.
type Status struct {
	Connected bool   `json:"connected"`
	State     string `json:"state"`
	Port      string `json:"port,omitempty"`
	BaudRate  int    `json:"baud_rate,omitempty"`
	Showing   *State `json:"showing,omitempty"`
	Writes    int    `json:"writes"`
}

// Controller owns one serial display. Writes never interleave: while a write
// is in flight, requested states replace a single pending slot and only the
// latest one is written next.
type Controller struct {
	cfg    Config
	open   Opener
	logger *zap.SugaredLogger

	mu       sync.Mutex
	conn     ConnState
	port     Port
	portName string
	baud     int
	gen      int
	pending  *State
	showing  *State
	idle     chan struct{}
	writes   int
}

// NewController creates a disconnected controller. A nil opener uses
// SerialOpener.
func NewController(cfg Config, open Opener, logger *zap.SugaredLogger) *Controller {
	if open == nil {
		open = SerialOpener
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = 9600
	}
	if cfg.Format.Width <= 0 {
		cfg.Format.Width = DefaultWidth
	}
	return &Controller{cfg: cfg, open: open, logger: logger}
}

// Connect opens portName at baud, closing any previous connection. Empty
// values fall back to the configured port and baud rate. It does not write
// anything to the display.
func (c *Controller) Connect(ctx context.Context, portName string, baud int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if portName == "" {
		portName = c.cfg.PortName
	}
	if baud <= 0 {
		baud = c.cfg.BaudRate
	}

	c.mu.Lock()
	c.dropLocked()
	c.conn = Connecting
	gen := c.gen
	c.mu.Unlock()

	port, err := c.open(portName, baud)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// Close or another Connect ran while the port was opening.
		if port != nil {
			_ = port.Close()
		}
		if err == nil {
			err = errors.New("connect superseded")
		}
		return errors.Mark(errors.Wrapf(err, "display: open %s", portName), ErrPortUnavailable)
	}
	if err == nil {
		err = ctx.Err()
		if err != nil {
			_ = port.Close()
		}
	}
	if err != nil {
		c.conn = Disconnected
		c.logger.Errorw("display port open failed", "port", portName, "baud", baud, "error", err)
		return errors.Mark(errors.Wrapf(err, "display: open %s", portName), ErrPortUnavailable)
	}
	c.port = port
	c.portName = portName
	c.baud = baud
	c.conn = Connected
	c.logger.Infow("display connected", "port", portName, "baud", baud)
	return nil
}

// Close disconnects the display. A write in flight is abandoned.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropLocked()
}

func (c *Controller) dropLocked() error {
	c.gen++
	c.pending = nil
	c.conn = Disconnected
	if c.idle != nil {
		close(c.idle)
		c.idle = nil
	}
	if c.port == nil {
		return nil
	}
	err := c.port.Close()
	c.port = nil
	return err
}

// RequestState asks for s to be shown. It returns false when the display is
// not connected, in which case nothing happens.
func (c *Controller) RequestState(s State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.conn {
	case Connected:
		c.conn = Writing
		c.idle = make(chan struct{})
		go c.writeLoop(c.port, c.gen, s)
		return true
	case Writing:
		c.pending = &s
		return true
	default:
		return false
	}
}

func (c *Controller) writeLoop(port Port, gen int, s State) {
	for {
		err := c.write(port, s)

		c.mu.Lock()
		if gen != c.gen {
			c.mu.Unlock()
			return
		}
		if err != nil {
			c.logger.Errorw("display write failed, disconnecting", "port", c.portName, "error", err)
			c.dropLocked()
			c.mu.Unlock()
			return
		}

		shown := s
		c.showing = &shown
		c.writes++
		if c.pending == nil {
			c.conn = Connected
			close(c.idle)
			c.idle = nil
			c.mu.Unlock()
			return
		}
		s = *c.pending
		c.pending = nil
		c.mu.Unlock()

		time.Sleep(c.cfg.Settle)
	}
}

func (c *Controller) write(port Port, s State) error {
	if _, err := port.Write([]byte{cmdClear, esc, '@'}); err != nil {
		return errors.Wrap(err, "display: reset")
	}
	time.Sleep(c.cfg.Settle)

	l1, l2 := s.Lines(c.cfg.Format)
	if _, err := port.Write(encodeText(l1 + l2)); err != nil {
		return errors.Wrap(err, "display: write text")
	}
	if err := port.Drain(); err != nil {
		return errors.Wrap(err, "display: drain")
	}
	c.logger.Debugw("display updated", "line1", l1, "line2", l2)
	return nil
}

// Flush waits until no write is in flight or ctx is done.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()
	if idle == nil {
		return nil
	}

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns the connection state.
func (c *Controller) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Connected: c.conn == Connected || c.conn == Writing,
		State:     c.conn.String(),
		Writes:    c.writes,
	}
	if st.Connected {
		st.Port = c.portName
		st.BaudRate = c.baud
		if c.showing != nil {
			showing := *c.showing
			st.Showing = &showing
		}
	}
	return st
}

// Format returns the text settings used for each write.
func (c *Controller) Format() Format {
	return c.cfg.Format
}

func encodeText(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x80 {
			out = append(out, byte(r))
			continue
		}
		if b, ok := charmap.CodePage437.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		out = append(out, '?')
	}
	return out
}
