package service

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/domain/enum"
	"github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/pkg/apperror"
	"github.com/sangkips/counterpos/pkg/printer"
	"github.com/sangkips/counterpos/pkg/receipt"
)

// PrintType selects which documents are printed for an order.
type PrintType string

const (
	PrintCustomer PrintType = "customer"
	PrintKitchen  PrintType = "kitchen"
	PrintBoth     PrintType = "both"
)

// Valid reports whether t is a known print type.
func (t PrintType) Valid() bool {
	return t == PrintCustomer || t == PrintKitchen || t == PrintBoth
}

const defaultPrintTimeout = 30 * time.Second

// spoolerQueries is implemented by printer.SpoolerTransport.
type spoolerQueries interface {
	ListPrinters(ctx context.Context) ([]string, error)
	Queue(ctx context.Context) ([]printer.QueueJob, error)
}

// PrinterDevices describes the receipt and kitchen printers.
type PrinterDevices struct {
	Receipt      printer.Transport
	Kitchen      printer.Transport
	SameDevice   bool
	ReceiptWidth int
	KitchenWidth int
}

type device struct {
	transport printer.Transport
	width     int
	mu        *sync.Mutex
}

// PrinterService renders orders and sends them to the configured printers.
// Calls to the same physical device are serialized.
type PrinterService struct {
	receipt    device
	kitchen    device
	sameDevice bool
	orderRepo  repository.OrderRepository
	settings   *SettingsService
	assets     receipt.AssetResolver
	logger     *logger.Logger

	background   conc.WaitGroup
	printTimeout time.Duration
}

// NewPrinterService creates a new printer service. assets may be nil.
func NewPrinterService(
	devices PrinterDevices,
	orderRepo repository.OrderRepository,
	settings *SettingsService,
	assets receipt.AssetResolver,
	log *logger.Logger,
) *PrinterService {
	if devices.ReceiptWidth <= 0 {
		devices.ReceiptWidth = receipt.DefaultWidth
	}
	if devices.KitchenWidth <= 0 {
		devices.KitchenWidth = devices.ReceiptWidth
	}
	if devices.Kitchen == nil {
		devices.Kitchen = devices.Receipt
		devices.SameDevice = true
	}

	receiptLock := &sync.Mutex{}
	kitchenLock := receiptLock
	if !devices.SameDevice {
		kitchenLock = &sync.Mutex{}
	}

	return &PrinterService{
		receipt:      device{transport: devices.Receipt, width: devices.ReceiptWidth, mu: receiptLock},
		kitchen:      device{transport: devices.Kitchen, width: devices.KitchenWidth, mu: kitchenLock},
		sameDevice:   devices.SameDevice,
		orderRepo:    orderRepo,
		settings:     settings,
		assets:       assets,
		logger:       log.Named("printer"),
		printTimeout: defaultPrintTimeout,
	}
}

// PrintResult reports which documents reached a printer.
type PrintResult struct {
	OrderNumber int               `json:"order_number"`
	Printed     []receipt.Kind    `json:"printed"`
	Failed      map[string]string `json:"failed,omitempty"`
}

type printJob struct {
	dev device
	doc *receipt.Document
}

// PrintOrder renders and prints the requested documents for order. The
// customer receipt and kitchen docket print in parallel when they go to
// different devices. The first transport error is returned; the result lists
// every outcome.
func (s *PrinterService) PrintOrder(ctx context.Context, order *entity.Order, printType PrintType) (*PrintResult, error) {
	if !printType.Valid() {
		return nil, apperror.NewBadRequestError("print_type must be customer, kitchen or both")
	}

	ro := toReceiptOrder(order)
	var jobs []printJob

	if printType == PrintCustomer || printType == PrintBoth {
		shop, err := s.settings.Shop(ctx)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, printJob{
			dev: s.receipt,
			doc: receipt.RenderCustomerReceipt(ro, shop, s.receipt.width, s.assets),
		})
	}
	if printType == PrintKitchen || printType == PrintBoth {
		jobs = append(jobs, printJob{
			dev: s.kitchen,
			doc: receipt.RenderKitchenDocket(ro, s.kitchen.width),
		})
	}

	result := &PrintResult{OrderNumber: order.OrderNumber, Printed: []receipt.Kind{}}
	var (
		mu       sync.Mutex
		firstErr error
	)

	p := pool.New()
	if s.sameDevice {
		p = p.WithMaxGoroutines(1)
	}
	for _, job := range jobs {
		job := job
		p.Go(func() {
			err := s.render(ctx, job.dev, job.doc)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warnw("print failed",
					"order_number", order.OrderNumber,
					"document", job.doc.Kind(),
					"printer", job.dev.transport.Name(),
					"error", err,
				)
				if result.Failed == nil {
					result.Failed = map[string]string{}
				}
				result.Failed[string(job.doc.Kind())] = err.Error()
				if firstErr == nil {
					firstErr = errors.Wrapf(err, "print %s for order #%d", job.doc.Kind(), order.OrderNumber)
				}
				return
			}
			result.Printed = append(result.Printed, job.doc.Kind())
		})
	}
	p.Wait()

	return result, firstErr
}

func (s *PrinterService) render(ctx context.Context, dev device, doc *receipt.Document) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.transport.Render(ctx, doc)
}

// PrintOrderAsync prints in the background. Failures are logged only.
func (s *PrinterService) PrintOrderAsync(order *entity.Order, printType PrintType) {
	s.background.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.printTimeout)
		defer cancel()

		if _, err := s.PrintOrder(ctx, order, printType); err != nil {
			s.logger.Errorw("background print failed", "order_id", order.ID, "order_number", order.OrderNumber, "error", err)
		}
	})
}

// Wait blocks until background prints have finished.
func (s *PrinterService) Wait() {
	s.background.Wait()
}

// PrintOrderByID loads an order and prints it
func (s *PrinterService) PrintOrderByID(ctx context.Context, orderID uuid.UUID, printType PrintType) (*PrintResult, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return s.PrintOrder(ctx, order, printType)
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Receipt    printer.Status  `json:"receipt"`
	Kitchen    *printer.Status `json:"kitchen,omitempty"`
	SameDevice bool            `json:"same_device"`
}

// GetStatus probes the configured printers.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	status := &PrinterStatus{
		Receipt:    s.receipt.transport.Status(ctx),
		SameDevice: s.sameDevice,
	}
	if !s.sameDevice {
		k := s.kitchen.transport.Status(ctx)
		status.Kitchen = &k
	}
	return status
}

// TestPrint sends a sample customer receipt to the receipt printer.
func (s *PrinterService) TestPrint(ctx context.Context) (*PrintResult, error) {
	price := decimal.RequireFromString("10.00")
	order := &entity.Order{
		OrderNumber:   0,
		Type:          enum.OrderTypeTakeaway,
		PaymentMethod: "test",
		Notes:         "Printer test",
		Subtotal:      price.Mul(decimal.NewFromInt(2)),
		Total:         price.Mul(decimal.NewFromInt(2)),
		CreatedAt:     time.Now(),
		Items: []entity.OrderItem{
			{ProductName: "Test Item 1", Quantity: 1, UnitPrice: price, TotalPrice: price},
			{ProductName: "Test Item 2", Quantity: 1, UnitPrice: price, TotalPrice: price},
		},
	}
	return s.PrintOrder(ctx, order, PrintCustomer)
}

// OpenDrawer kicks the cash drawer attached to the receipt printer.
func (s *PrinterService) OpenDrawer(ctx context.Context) error {
	opener, ok := s.receipt.transport.(printer.DrawerOpener)
	if !ok {
		return apperror.NewBadRequestError("The receipt printer cannot open a cash drawer")
	}

	s.receipt.mu.Lock()
	defer s.receipt.mu.Unlock()
	if err := opener.OpenDrawer(ctx); err != nil {
		return err
	}
	s.logger.Infow("cash drawer opened", "printer", s.receipt.transport.Name())
	return nil
}

// ListPrinters returns the printers known to the OS spooler.
func (s *PrinterService) ListPrinters(ctx context.Context) ([]string, error) {
	q, ok := s.receipt.transport.(spoolerQueries)
	if !ok {
		return nil, apperror.NewBadRequestError("Printer listing is only available for spooler printers")
	}
	return q.ListPrinters(ctx)
}

// Queue returns the pending spooler jobs of the receipt printer.
func (s *PrinterService) Queue(ctx context.Context) ([]printer.QueueJob, error) {
	q, ok := s.receipt.transport.(spoolerQueries)
	if !ok {
		return nil, apperror.NewBadRequestError("Print queue is only available for spooler printers")
	}
	return q.Queue(ctx)
}

func toReceiptOrder(order *entity.Order) receipt.Order {
	ro := receipt.Order{
		Number:         order.OrderNumber,
		Type:           order.Type.String(),
		PaymentMethod:  order.PaymentMethod,
		CustomerName:   order.CustomerName,
		Notes:          order.Notes,
		CreatedAt:      order.CreatedAt,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		TaxRate:        order.TaxRate,
		TaxAmount:      order.TaxAmount,
		Total:          order.Total,
	}
	for _, item := range order.Items {
		ri := receipt.Item{
			Name:       item.ProductName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
			Note:       item.Notes,
		}
		for _, m := range item.Modifiers {
			ri.Modifiers = append(ri.Modifiers, receipt.ItemModifier{Name: m.Name, Price: m.Price})
		}
		ro.Items = append(ro.Items, ri)
	}
	return ro
}
