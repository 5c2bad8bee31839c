package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/counterpos/internal/config"
	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/domain/enum"
	"github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/pkg/pricing"
	"github.com/sangkips/counterpos/pkg/printer"
	"github.com/sangkips/counterpos/pkg/receipt"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[uuid.UUID]*entity.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	out := map[uuid.UUID]*entity.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

type fakeCouponRepo struct {
	mu      sync.Mutex
	coupons map[uuid.UUID]*entity.Coupon
}

func newFakeCouponRepo(coupons ...*entity.Coupon) *fakeCouponRepo {
	r := &fakeCouponRepo{coupons: map[uuid.UUID]*entity.Coupon{}}
	for _, c := range coupons {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.Code = pricing.NormalizeCouponCode(c.Code)
		r.coupons[c.ID] = c
	}
	return r
}

func (r *fakeCouponRepo) Create(_ context.Context, c *entity.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.coupons[c.ID] = c
	return nil
}

func (r *fakeCouponRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCouponRepo) GetByCode(_ context.Context, code string) (*entity.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coupons {
		if c.Code == pricing.NormalizeCouponCode(code) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCouponRepo) Update(_ context.Context, c *entity.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons[c.ID] = c
	return nil
}

func (r *fakeCouponRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.coupons, id)
	return nil
}

func (r *fakeCouponRepo) List(_ context.Context, _ *repository.CouponFilterParams) ([]entity.Coupon, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Coupon
	for _, c := range r.coupons {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCouponRepo) usage(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.coupons[id].UsageCount
}

// fakeOrderRepo mirrors the transactional behaviour of the gorm repository:
// duplicate IDs are not stored again and a coupon is redeemed at most once
// per order, never past its usage limit.
type fakeOrderRepo struct {
	mu          sync.Mutex
	orders      map[uuid.UUID]*entity.Order
	redemptions map[[2]uuid.UUID]bool
	coupons     *fakeCouponRepo
	next        int
	creates     int
}

func newFakeOrderRepo(coupons *fakeCouponRepo) *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:      map[uuid.UUID]*entity.Order{},
		redemptions: map[[2]uuid.UUID]bool{},
		coupons:     coupons,
		next:        1,
	}
}

func (r *fakeOrderRepo) Create(_ context.Context, o *entity.Order) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if _, ok := r.orders[o.ID]; ok {
		return false, nil
	}

	if o.CouponID != nil && r.coupons != nil {
		key := [2]uuid.UUID{*o.CouponID, o.ID}
		if !r.redemptions[key] {
			r.coupons.mu.Lock()
			c := r.coupons.coupons[*o.CouponID]
			if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
				r.coupons.mu.Unlock()
				return false, pricing.NewCouponError(pricing.CouponErrorUsageLimitReached)
			}
			c.UsageCount++
			r.coupons.mu.Unlock()
			r.redemptions[key] = true
		}
	}

	o.OrderNumber = r.next
	r.next++
	o.CreatedAt = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	cp := *o
	r.orders[o.ID] = &cp
	return true, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByNumber(_ context.Context, number int) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _ *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[id]; ok {
		o.Status = status
	}
	return nil
}

type fakeSettingsRepo struct {
	settings *entity.ShopSettings
	saves    int
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*entity.ShopSettings, error) {
	if r.settings == nil {
		return nil, nil
	}
	cp := *r.settings
	return &cp, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, s *entity.ShopSettings) error {
	cp := *s
	r.settings = &cp
	r.saves++
	return nil
}

type recordedPrint struct {
	order     *entity.Order
	printType PrintType
}

type fakeOrderPrinter struct {
	mu     sync.Mutex
	prints []recordedPrint
}

func (p *fakeOrderPrinter) PrintOrderAsync(order *entity.Order, printType PrintType) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prints = append(p.prints, recordedPrint{order: order, printType: printType})
}

// fakeTransport records rendered documents. When hold is set each render
// waits for it to close, and inFlight/maxInFlight track overlap.
type fakeTransport struct {
	name string
	err  error
	hold chan struct{}

	mu          sync.Mutex
	docs        []*receipt.Document
	inFlight    int
	maxInFlight int
	started     chan struct{}
	drawerKicks int
}

func newFakeTransport(name string) *fakeTransport {
	return &fakeTransport{name: name, started: make(chan struct{}, 8)}
}

func (t *fakeTransport) Render(_ context.Context, doc *receipt.Document) error {
	t.mu.Lock()
	t.inFlight++
	if t.inFlight > t.maxInFlight {
		t.maxInFlight = t.inFlight
	}
	t.mu.Unlock()
	select {
	case t.started <- struct{}{}:
	default:
	}

	if t.hold != nil {
		<-t.hold
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight--
	if t.err != nil {
		return t.err
	}
	t.docs = append(t.docs, doc)
	return nil
}

func (t *fakeTransport) Status(_ context.Context) printer.Status {
	return printer.Status{Connected: t.err == nil, Name: t.name}
}

func (t *fakeTransport) Name() string { return t.name }

func (t *fakeTransport) OpenDrawer(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.drawerKicks++
	return t.err
}

func (t *fakeTransport) kinds() []receipt.Kind {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []receipt.Kind
	for _, doc := range t.docs {
		out = append(out, doc.Kind())
	}
	return out
}

func testShopConfig() config.ShopConfig {
	return config.ShopConfig{
		Name:           "Corner Grill",
		TaxRate:        d("10"),
		TaxLabel:       "VAT",
		CurrencySymbol: "$",
		Footer:         "Thanks!",
	}
}

func newTestSettings(repo *fakeSettingsRepo) *SettingsService {
	if repo == nil {
		repo = &fakeSettingsRepo{}
	}
	return NewSettingsService(repo, nil, testShopConfig(), logger.NewNop())
}
