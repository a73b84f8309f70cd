package picking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattadon/shopstock-backend/internal/inventory"
	"github.com/pattadon/shopstock-backend/internal/orders"
	"github.com/pattadon/shopstock-backend/internal/products"
	"github.com/pattadon/shopstock-backend/pkg/db/models"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
	"github.com/pattadon/shopstock-backend/pkg/types"
)

// ItemOutcomeStatus classifies what happened to one line item during a
// shipment commit.
type ItemOutcomeStatus string

const (
	ItemApplied           ItemOutcomeStatus = "applied"
	ItemInsufficientStock ItemOutcomeStatus = "insufficient_stock"
	ItemProductMissing    ItemOutcomeStatus = "product_missing"
)

// ItemOutcome reports the stock result for one line item. Available and
// Remaining are only meaningful for insufficient_stock and applied.
type ItemOutcome struct {
	ProductID string            `json:"productId"`
	Name      string            `json:"name"`
	Requested int               `json:"requested"`
	Available int               `json:"available,omitempty"`
	Remaining int               `json:"remaining,omitempty"`
	Status    ItemOutcomeStatus `json:"status"`
}

// CommitShipmentResult is the outcome of a shipment commit. Items is
// empty when no stock was touched.
type CommitShipmentResult struct {
	Record   *models.PickingRecord `json:"record"`
	Deducted bool                  `json:"deducted"`
	Items    []ItemOutcome         `json:"items,omitempty"`
}

// CreateRecordInput holds the payload for a staff stock request.
type CreateRecordInput struct {
	OrderID   *uuid.UUID
	StaffID   uuid.UUID
	StaffName string
	Customer  types.CustomerInfo
	Items     []types.OrderItem
}

// CommitShipmentInput carries the courier details for a shipment commit.
type CommitShipmentInput struct {
	TrackingNumber   string
	ShippingProvider string
}

// ListRecordsInput captures the inputs to paginate/filter picking records.
type ListRecordsInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is one page of picking records.
type ListResult struct {
	Records    []models.PickingRecord `json:"records"`
	NextCursor string                 `json:"nextCursor,omitempty"`
}

// Service drives the picking pipeline. CommitShipment owns the only
// code path that deducts sold stock.
type Service interface {
	CreateRecord(ctx context.Context, input CreateRecordInput) (*models.PickingRecord, error)
	CommitShipment(ctx context.Context, recordID uuid.UUID, input CommitShipmentInput) (*CommitShipmentResult, error)
	ConfirmDelivery(ctx context.Context, recordID uuid.UUID) (*models.PickingRecord, error)
	GetRecord(ctx context.Context, recordID uuid.UUID) (*models.PickingRecord, error)
	ListRecords(ctx context.Context, input ListRecordsInput) (*ListResult, error)
	ListByStaff(ctx context.Context, staffID uuid.UUID, page pagination.Params) (*ListResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      *Repository
	orderRepo *orders.Repository
	products  *products.Repository
	ledger    inventory.Repository
	tx        txRunner
	now       func() time.Time
}

// NewService constructs a picking service instance.
func NewService(repo *Repository, orderRepo *orders.Repository, productRepo *products.Repository, ledger inventory.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("picking repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{
		repo:      repo,
		orderRepo: orderRepo,
		products:  productRepo,
		ledger:    ledger,
		tx:        tx,
		now:       time.Now,
	}, nil
}

// CreateRecord snapshots the order items into a new picking record and,
// when linked to an order, claims the order for the requesting staff.
func (s *service) CreateRecord(ctx context.Context, input CreateRecordInput) (*models.PickingRecord, error) {
	if input.StaffID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "picking record needs at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %s quantity must be positive", item.Name))
		}
	}

	record := &models.PickingRecord{
		ID:        uuid.New(),
		OrderID:   input.OrderID,
		StaffID:   input.StaffID,
		StaffName: strings.TrimSpace(input.StaffName),
		Customer:  input.Customer,
		Items:     input.Items,
		Total:     types.ItemsTotal(input.Items),
		Status:    enums.PickingStatusRequested,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if input.OrderID != nil {
			order, err := s.orderRepo.WithTx(tx).FindByID(ctx, *input.OrderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
			}
			order.AssignedStaffID = &input.StaffID
			if err := s.orderRepo.WithTx(tx).Save(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: claim order")
			}
		}
		if err := s.repo.WithTx(tx).Create(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert picking record")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CommitShipment stores courier details on the record. The first commit
// that carries a tracking number dispatches the record and deducts
// stock per line item; every later commit only updates the fields.
// Items are processed sequentially, each in its own transaction, so one
// short item never blocks the rest of the shipment.
func (s *service) CommitShipment(ctx context.Context, recordID uuid.UUID, input CommitShipmentInput) (*CommitShipmentResult, error) {
	record, err := s.loadRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	tracking := strings.TrimSpace(input.TrackingNumber)
	provider := strings.TrimSpace(input.ShippingProvider)

	if tracking == "" {
		if provider != "" {
			record.ShippingProvider = &provider
		}
		if record.Status == enums.PickingStatusRequested {
			record.Status = enums.PickingStatusPending
		}
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update picking record")
		}
		return &CommitShipmentResult{Record: record}, nil
	}

	if record.StockDeducted {
		record.TrackingNumber = &tracking
		if provider != "" {
			record.ShippingProvider = &provider
		}
		if err := s.repo.Save(ctx, record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update picking record")
		}
		return &CommitShipmentResult{Record: record}, nil
	}

	// First tracking number: claim the dispatch with a conditional
	// update, so two commits racing past the read above still deduct
	// stock at most once.
	reference := record.ID.String()
	referenceID := record.ID
	if record.OrderID != nil {
		referenceID = *record.OrderID
	}
	claimed := false
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		now := s.now()
		record.TrackingNumber = &tracking
		if provider != "" {
			record.ShippingProvider = &provider
		}
		record.Status = enums.PickingStatusDispatched
		record.DispatchedAt = &now

		won, err := s.repo.WithTx(tx).ClaimDispatch(ctx, record)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: dispatch picking record")
		}
		if !won {
			return nil
		}
		claimed = true
		record.StockDeducted = true

		if record.OrderID != nil {
			order, err := s.orderRepo.WithTx(tx).FindByID(ctx, *record.OrderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "linked order not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load linked order")
			}
			orders.MarkShipping(order, record.ShippingProvider, record.TrackingNumber)
			if err := s.orderRepo.WithTx(tx).Save(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update linked order")
			}
			reference = order.OrderNumber
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !claimed {
		// Another commit dispatched the record first. Keep this
		// request's courier fields and leave the stock alone.
		fresh, err := s.loadRecord(ctx, recordID)
		if err != nil {
			return nil, err
		}
		fresh.TrackingNumber = &tracking
		if provider != "" {
			fresh.ShippingProvider = &provider
		}
		if err := s.repo.Save(ctx, fresh); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update picking record")
		}
		return &CommitShipmentResult{Record: fresh}, nil
	}

	outcomes := make([]ItemOutcome, 0, len(record.Items))
	for _, item := range record.Items {
		outcome, err := s.deductItem(ctx, record, item, reference, referenceID)
		if err != nil {
			// The record is already marked deducted, so a retry after
			// this error cannot double-deduct the items above.
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deduct shipment item")
		}
		outcomes = append(outcomes, outcome)
	}

	return &CommitShipmentResult{Record: record, Deducted: true, Items: outcomes}, nil
}

// deductItem runs one line item's stock deduction in its own
// transaction and reports the per-item outcome.
func (s *service) deductItem(ctx context.Context, record *models.PickingRecord, item types.OrderItem, reference string, referenceID uuid.UUID) (ItemOutcome, error) {
	outcome := ItemOutcome{
		ProductID: item.ProductID,
		Name:      item.Name,
		Requested: item.Quantity,
	}

	productID, err := uuid.Parse(item.ProductID)
	if err != nil {
		outcome.Status = ItemProductMissing
		return outcome, nil
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txProducts := s.products.WithTx(tx)

		product, err := txProducts.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outcome.Status = ItemProductMissing
				return nil
			}
			return err
		}

		applied, remaining, err := txProducts.DecrementQuantity(ctx, productID, item.Quantity)
		if err != nil {
			return err
		}
		if !applied {
			outcome.Status = ItemInsufficientStock
			outcome.Available = product.Quantity
			return nil
		}

		entry := &models.StockTransaction{
			ID:             uuid.New(),
			ProductID:      productID,
			ProductName:    product.Name,
			Type:           enums.StockTransactionTypeOut,
			Quantity:       -item.Quantity,
			RemainingStock: remaining,
			Reason:         fmt.Sprintf("จัดส่งออเดอร์ %s", reference),
			ReferenceID:    referenceID,
			StaffID:        &record.StaffID,
			StaffName:      record.StaffName,
		}
		if err := s.ledger.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}

		outcome.Status = ItemApplied
		outcome.Remaining = remaining
		return nil
	})
	if err != nil {
		return ItemOutcome{}, err
	}
	return outcome, nil
}

// ConfirmDelivery finalizes a dispatched record and its linked order.
func (s *service) ConfirmDelivery(ctx context.Context, recordID uuid.UUID) (*models.PickingRecord, error) {
	record, err := s.loadRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status != enums.PickingStatusDispatched {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "picking record has not been dispatched")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		now := s.now()
		record.Status = enums.PickingStatusDelivered
		record.DeliveredAt = &now
		if err := s.repo.WithTx(tx).Save(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deliver picking record")
		}

		if record.OrderID != nil {
			order, err := s.orderRepo.WithTx(tx).FindByID(ctx, *record.OrderID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "linked order not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load linked order")
			}
			orders.MarkDelivered(order, now)
			if err := s.orderRepo.WithTx(tx).Save(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update linked order")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) GetRecord(ctx context.Context, recordID uuid.UUID) (*models.PickingRecord, error) {
	return s.loadRecord(ctx, recordID)
}

func (s *service) ListRecords(ctx context.Context, input ListRecordsInput) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, input.Filters, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list picking records")
	}
	return &ListResult{Records: rows, NextCursor: nextCursor}, nil
}

func (s *service) ListByStaff(ctx context.Context, staffID uuid.UUID, page pagination.Params) (*ListResult, error) {
	return s.ListRecords(ctx, ListRecordsInput{
		Filters:    ListFilters{StaffID: &staffID},
		Pagination: page,
	})
}

func (s *service) loadRecord(ctx context.Context, recordID uuid.UUID) (*models.PickingRecord, error) {
	record, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "picking record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load picking record")
	}
	return record, nil
}
