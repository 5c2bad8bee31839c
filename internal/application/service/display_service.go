package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/pkg/display"
)

// DisplayService drives the customer-facing display
type DisplayService struct {
	controller *display.Controller
	listPorts  func() ([]string, error)
	logger     *logger.Logger
}

// NewDisplayService creates a new display service
func NewDisplayService(controller *display.Controller, log *logger.Logger) *DisplayService {
	return &DisplayService{
		controller: controller,
		listPorts:  display.ListPorts,
		logger:     log.Named("display"),
	}
}

// Connect opens the display port and shows the welcome screen. Empty values
// use the configured port and baud rate.
func (s *DisplayService) Connect(ctx context.Context, port string, baud int) (display.Status, error) {
	if err := s.controller.Connect(ctx, port, baud); err != nil {
		s.logger.Warnw("display connect failed", "port", port, "error", err)
		return s.controller.Status(), err
	}
	s.controller.RequestState(display.Welcome())
	return s.controller.Status(), nil
}

// Disconnect closes the display port
func (s *DisplayService) Disconnect() display.Status {
	if err := s.controller.Close(); err != nil {
		s.logger.Warnw("display close failed", "error", err)
	}
	return s.controller.Status()
}

// Status returns the controller state
func (s *DisplayService) Status() display.Status {
	return s.controller.Status()
}

// Ports lists the serial ports present on the machine
func (s *DisplayService) Ports() ([]string, error) {
	return s.listPorts()
}

// CartChanged shows the state for a cart mutation. It reports whether the
// display is connected and the state was accepted.
func (s *DisplayService) CartChanged(ev display.CartEvent) bool {
	return s.controller.RequestState(display.StateForCart(ev))
}

// ShowWelcome shows the greeting
func (s *DisplayService) ShowWelcome() bool {
	return s.controller.RequestState(display.Welcome())
}

// ShowTotal shows the amount due
func (s *DisplayService) ShowTotal(amount decimal.Decimal) bool {
	return s.controller.RequestState(display.Total(amount))
}

// Close releases the display port on shutdown
func (s *DisplayService) Close() {
	if err := s.controller.Close(); err != nil {
		s.logger.Warnw("display close failed", "error", err)
	}
}
