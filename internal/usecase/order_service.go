package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"pizza-shop/internal/domain"
)

type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id int64) (*domain.Order, error)
}

// OrderMetrics is notified after an order is stored.
type OrderMetrics interface {
	OrderCreated(dineType string, paid bool)
}

type OrderService struct {
	Repo    OrderRepo
	Log     *zap.Logger
	Metrics OrderMetrics
}

func (s *OrderService) Create(ctx context.Context, req *domain.OrderCreate) (int64, domain.OrderStatus, error) {
	o, err := FlattenOrder(req)
	if err != nil {
		return 0, "", err
	}
	if err := s.Repo.Create(ctx, o); err != nil {
		return 0, "", err
	}
	s.logger().Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("dine_type", o.DineType),
		zap.Int("items", len(req.Items)),
	)
	if s.Metrics != nil {
		s.Metrics.OrderCreated(o.DineType, o.Paid)
	}
	return o.ID, o.Status, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.Repo.Get(ctx, id)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, ErrNotFound("order")
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// FlattenOrder copies the nested customer and payment blocks onto the flat
// record and encodes the line items as one JSON blob. Only presence of the
// required keys is checked; item contents are not checked against the menu
// and items are stored exactly as received.
func FlattenOrder(req *domain.OrderCreate) (*domain.Order, error) {
	if req == nil || req.Customer == nil {
		return nil, ErrBadRequest("customer required")
	}
	c := req.Customer
	if c.FullName == nil || c.Phone == nil || c.DineType == nil {
		return nil, ErrBadRequest("customer full_name, phone and dine_type required")
	}
	if req.Items == nil {
		return nil, ErrBadRequest("items required")
	}
	for i, it := range req.Items {
		if it.Category == nil || it.Name == nil {
			return nil, ErrBadRequest("items[" + strconv.Itoa(i) + "] category and name required")
		}
	}
	if req.Payment != nil && req.Payment.Method == nil {
		return nil, ErrBadRequest("payment method required")
	}
	raw, err := json.Marshal(req.Items)
	if err != nil {
		return nil, err
	}
	o := &domain.Order{
		Status:       domain.OrderReceived,
		CustomerName: *c.FullName,
		Phone:        *c.Phone,
		DineType:     *c.DineType,
		Address:      c.Address,
		ItemsJSON:    string(raw),
		Notes:        req.Notes,
	}
	if req.Payment != nil {
		method := *req.Payment.Method
		o.PaymentMethod = &method
		o.Paid = req.Payment.Paid
	}
	return o, nil
}

type ErrNotFound string

func (e ErrNotFound) Error() string { return string(e) + " not found" }

type ErrBadRequest string

func (e ErrBadRequest) Error() string { return string(e) }
