package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattadon/shopstock-backend/pkg/db/models"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
	"github.com/pattadon/shopstock-backend/pkg/types"
)

// Service exposes the back-office order operations. Stock never moves
// here: shipment and delivery transitions flow through picking.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListActiveOrders(ctx context.Context, input ListOrdersInput) (*ListResult, error)
	ListUnassignedPending(ctx context.Context) ([]models.Order, error)
}

// CreateOrderInput holds the validated payload to register an order.
type CreateOrderInput struct {
	OrderNumber string
	Customer    types.CustomerInfo
	Items       []types.OrderItem
	SlipURL     *string
}

// ListOrdersInput captures the inputs to paginate/filter active orders.
type ListOrdersInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is one page of active orders.
type ListResult struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

type service struct {
	repo *Repository
}

// NewService constructs an order service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

// CreateOrder registers a pending order with its line-item snapshot.
// The total is derived from the items, never trusted from the caller.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	orderNumber := strings.TrimSpace(input.OrderNumber)
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %s quantity must be positive", item.Name))
		}
	}

	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: orderNumber,
		Customer:    input.Customer,
		Items:       input.Items,
		Total:       types.ItemsTotal(input.Items),
		Status:      enums.OrderStatusPending,
		SlipURL:     input.SlipURL,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
	}
	return order, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

func (s *service) ListActiveOrders(ctx context.Context, input ListOrdersInput) (*ListResult, error) {
	rows, nextCursor, err := s.repo.ListActive(ctx, input.Filters, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return &ListResult{Orders: rows, NextCursor: nextCursor}, nil
}

func (s *service) ListUnassignedPending(ctx context.Context) ([]models.Order, error) {
	rows, err := s.repo.ListUnassignedPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list pending orders")
	}
	return rows, nil
}

// MarkShipping moves the order into the shipping status and stamps the
// courier details. Used by the picking commit path inside its tx.
func MarkShipping(order *models.Order, provider, tracking *string) {
	order.Status = enums.OrderStatusShipping
	if provider != nil {
		order.ShippingProvider = provider
	}
	if tracking != nil {
		order.TrackingNumber = tracking
	}
}

// MarkDelivered finalizes the order and stamps the delivery time.
func MarkDelivered(order *models.Order, at time.Time) {
	order.Status = enums.OrderStatusDelivered
	order.DeliveredAt = &at
}
