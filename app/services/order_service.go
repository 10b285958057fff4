package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/app/repositories"
	"github.com/shashiranjanraj/nepkart/pkg/cache"
	"github.com/shashiranjanraj/nepkart/pkg/event"
	"github.com/shashiranjanraj/nepkart/pkg/logger"
	"github.com/shashiranjanraj/nepkart/pkg/metrics"
	"github.com/shashiranjanraj/nepkart/pkg/orm"
)

// LineRequest asks for Quantity units of ProductID.
type LineRequest struct {
	ProductID uint
	Quantity  int
}

// OrderService runs checkout and the order admin operations.
type OrderService struct {
	db       *gorm.DB
	events   *event.Dispatcher
	shipping *ShippingService
	tax      *TaxService
}

// NewOrderService returns an OrderService. A nil dispatcher uses
// event.Default.
func NewOrderService(db *gorm.DB, events *event.Dispatcher) *OrderService {
	if events == nil {
		events = event.Default
	}
	return &OrderService{
		db:       db,
		events:   events,
		shipping: NewShippingService(),
		tax:      NewTaxService(),
	}
}

func (s *OrderService) repo(ctx context.Context) *repositories.OrderRepository {
	return repositories.NewOrderRepository(s.db.WithContext(ctx))
}

// NewOrderCode returns "NEP-<unix millis>-<6 hex chars>".
func NewOrderCode(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("NEP-%d-%s", now.UnixMilli(), suffix)
}

// mergeLines validates lines and folds repeated products into the first
// occurrence, keeping request order.
func mergeLines(lines []LineRequest) ([]LineRequest, error) {
	if len(lines) == 0 {
		return nil, NewValidationError("productQuantities", "At least one product is required.")
	}
	index := make(map[uint]int, len(lines))
	out := make([]LineRequest, 0, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, NewValidationError("productQuantities",
				fmt.Sprintf("Quantity for product %d must be at least 1.", l.ProductID))
		}
		if i, ok := index[l.ProductID]; ok {
			if out[i].Quantity > math.MaxInt-l.Quantity {
				return nil, NewValidationError("productQuantities",
					fmt.Sprintf("Quantity for product %d is too large.", l.ProductID))
			}
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out, nil
}

// CreateOrder converts a cart into a persisted order. Every write happens
// in one transaction: on any error nothing is stored and no stock moves.
func (s *OrderService) CreateOrder(ctx context.Context, customer models.Customer, lines []LineRequest) (*models.Order, error) {
	log := logger.WithCtx(ctx)

	order, err := s.createOrder(ctx, customer, lines)
	if err != nil {
		metrics.RecordOrderFailure(failureReason(err))
		log.Warn("order rejected", "email", customer.Email, "error", err)
		return nil, err
	}

	total, _ := order.Total.Float64()
	metrics.RecordOrder(total)
	for _, it := range order.Items {
		metrics.RecordUnitsSold(it.Product.SKU, it.Quantity)
		_ = cache.Forget(ProductCacheKey(it.ProductID))
	}
	log.Info("order created",
		"order_code", order.OrderCode,
		"customer_id", order.CustomerID,
		"items", len(order.Items),
		"total", order.Total.StringFixed(2),
	)
	s.events.Fire(ctx, EventOrderCreated, OrderEvent{Order: *order})
	return order, nil
}

func (s *OrderService) createOrder(ctx context.Context, customer models.Customer, lines []LineRequest) (*models.Order, error) {
	customer.Normalize()
	customer.ID = 0
	if err := invalid(customer.Validate()); err != nil {
		return nil, err
	}
	merged, err := mergeLines(lines)
	if err != nil {
		return nil, err
	}

	var created models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customers := repositories.NewCustomerRepository(tx)
		products := repositories.NewProductRepository(tx)
		orders := repositories.NewOrderRepository(tx)

		owner, err := customers.FindByEmail(customer.Email)
		switch {
		case errors.Is(err, ErrNotFound):
			owner = customer
			if err := customers.Create(&owner); err != nil {
				return err
			}
		case err != nil:
			return err
		}

		now := time.Now().UTC()
		order := models.Order{
			OrderCode:  NewOrderCode(now),
			CustomerID: owner.ID,
			OrderDate:  now,
			Status:     models.StatusReceived,
			Items:      make([]models.OrderItem, 0, len(merged)),
		}

		subtotal := decimal.Zero
		weights := make([]WeightedLine, 0, len(merged))
		for _, l := range merged {
			p, err := decrement(products, l.ProductID, l.Quantity)
			if err != nil {
				return err
			}
			item := models.OrderItem{ProductID: p.ID, Quantity: l.Quantity, Price: p.Price}
			order.Items = append(order.Items, item)
			subtotal = subtotal.Add(item.Subtotal())
			weights = append(weights, WeightedLine{Quantity: l.Quantity, Weight: p.Weight})
		}

		// order money is kept at 2dp
		subtotal = subtotal.Round(2)
		order.Subtotal = subtotal
		order.ShippingCost = s.shipping.CostForProducts(weights)
		order.Tax = s.tax.CalculateTax(subtotal, customer.ZipCode)
		order.Total = order.Subtotal.Add(order.ShippingCost).Add(order.Tax)

		if err := orders.Create(&order); err != nil {
			return err
		}
		created, err = orders.FindByID(order.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("orders: create: %w", err)
	}
	return &created, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "internal"
	}
}

// All lists orders newest first.
func (s *OrderService) All(ctx context.Context, page, limit int) ([]models.Order, orm.Pagination, error) {
	return s.repo(ctx).All(page, limit)
}

func (s *OrderService) Find(ctx context.Context, id uint) (models.Order, error) {
	return s.repo(ctx).FindByID(id)
}

// FindByCode looks an order up by its public code.
func (s *OrderService) FindByCode(ctx context.Context, code string) (models.Order, error) {
	return s.repo(ctx).FindByCode(strings.TrimSpace(code))
}

// UpdateStatus moves order id to status. Any transition is allowed.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus) (models.Order, error) {
	repo := s.repo(ctx)
	if err := repo.UpdateStatus(id, status); err != nil {
		return models.Order{}, err
	}
	o, err := repo.FindByID(id)
	if err != nil {
		return models.Order{}, err
	}
	logger.WithCtx(ctx).Info("order status updated", "order_code", o.OrderCode, "status", o.Status)
	s.events.Fire(ctx, EventOrderStatusUpdated, OrderEvent{Order: o})
	return o, nil
}

// Delete removes order id and its items. Stock is not restored.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	var gone models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)
		o, err := orders.FindByID(id)
		if err != nil {
			return err
		}
		gone = o
		return orders.Delete(id)
	})
	if err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("order deleted", "order_code", gone.OrderCode)
	s.events.Fire(ctx, EventOrderDeleted, OrderEvent{Order: gone})
	return nil
}
