package services

import (
	"context"
	"math"

	"github.com/google/uuid"

	"frieren/internal/domain"
	"frieren/internal/metrics"
	"frieren/internal/pricing"
	"frieren/internal/validate"
)

// OrderStore is implemented by repos.OrderRepo and repos.MongoOrderRepo.
type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Order, error)
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, q domain.OrderQuery) (domain.OrderList, error)
}

type OrderService struct {
	Orders  OrderStore
	Catalog pricing.Catalog
	NewID   func() string
}

func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{Orders: orders, Catalog: pricing.Default, NewID: uuid.NewString}
}

// Receipt is the outcome of a successful submission. Claimed is the total the
// client sent, kept only so callers can log an override.
type Receipt struct {
	Order      domain.Order
	Claimed    *float64
	Overridden bool
}

// Submit validates a public submission, prices it from the catalog and
// persists it as pending. The client's total is never stored.
func (s *OrderService) Submit(ctx context.Context, in domain.OrderInput) (Receipt, error) {
	v, err := validate.Order(in)
	if err != nil {
		metrics.OrdersSubmitted.WithLabelValues("invalid").Inc()
		return Receipt{}, err
	}

	priced, total := s.Catalog.Price(v.Selection)
	o := domain.Order{
		ID:              s.NewID(),
		ClientName:      v.ClientName,
		ClientEmail:     v.ClientEmail,
		ClientPhone:     v.ClientPhone,
		Services:        priced,
		TotalPrice:      total,
		BusinessSummary: v.BusinessSummary,
		AdditionalInfo:  v.AdditionalInfo,
	}
	if err := s.Orders.Create(ctx, &o); err != nil {
		metrics.OrdersSubmitted.WithLabelValues("failed").Inc()
		return Receipt{}, err
	}

	r := Receipt{Order: o, Claimed: v.ClaimedTotal}
	if v.ClaimedTotal != nil && math.Abs(*v.ClaimedTotal-float64(total)) > 0.005 {
		r.Overridden = true
		metrics.PriceOverrides.Inc()
	}
	metrics.OrdersSubmitted.WithLabelValues("created").Inc()
	metrics.OrderValue.Observe(float64(total))
	return r, nil
}

func (s *OrderService) Get(ctx context.Context, actor *domain.Actor, id string) (domain.Order, error) {
	if actor == nil {
		return domain.Order{}, domain.ErrUnauthorized
	}
	return s.Orders.Get(ctx, id)
}

func (s *OrderService) UpdateStatus(ctx context.Context, actor *domain.Actor, id, status string) (domain.Order, error) {
	if actor == nil {
		return domain.Order{}, domain.ErrUnauthorized
	}
	st, ok := validate.Status(status)
	if !ok {
		return domain.Order{}, domain.NewValidationError("status", "Invalid status value")
	}
	return s.Orders.UpdateStatus(ctx, id, st)
}

func (s *OrderService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	if actor == nil {
		return domain.ErrUnauthorized
	}
	return s.Orders.Delete(ctx, id)
}

func (s *OrderService) List(ctx context.Context, actor *domain.Actor, q domain.OrderQuery) (domain.OrderList, error) {
	if actor == nil {
		return domain.OrderList{}, domain.ErrUnauthorized
	}
	return s.Orders.Query(ctx, q)
}
