package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pattadon/shopstock-backend/pkg/db/models"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
)

// DefaultStaffName is recorded on ledger entries written from admin
// flows that carry no staff identity.
const DefaultStaffName = "แอดมิน"

// Service defines operations on the stock ledger.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*models.StockTransaction, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	HistoryForProduct(ctx context.Context, productID uuid.UUID) ([]models.StockTransaction, error)
}

// RecordInput captures the immutable data a ledger entry requires.
// Quantity is the signed delta (positive stock_in, negative stock_out).
// RemainingStock is the product quantity after the movement, snapshotted
// so history reads never join back to products. ReferenceID defaults to
// the product id when left unset.
type RecordInput struct {
	ProductID      uuid.UUID
	ProductName    string
	Type           enums.StockTransactionType
	Quantity       int
	RemainingStock int
	Reason         string
	ReferenceID    uuid.UUID
	StaffID        *uuid.UUID
	StaffName      string
}

// ListInput bundles filters and pagination for the history endpoint.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is one page of ledger history plus direction totals.
type ListResult struct {
	Entries    []models.StockTransaction `json:"entries"`
	Totals     Totals                    `json:"totals"`
	NextCursor string                    `json:"nextCursor,omitempty"`
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*models.StockTransaction, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.ProductName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stock transaction type %q", input.Type))
	}
	if input.Quantity == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity delta is required")
	}
	if input.Type == enums.StockTransactionTypeIn && input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_in delta must be positive")
	}
	if input.Type == enums.StockTransactionTypeOut && input.Quantity > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_out delta must be negative")
	}
	if input.RemainingStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "remaining stock cannot be negative")
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}

	staffName := input.StaffName
	if staffName == "" {
		staffName = DefaultStaffName
	}
	referenceID := input.ReferenceID
	if referenceID == uuid.Nil {
		referenceID = input.ProductID
	}

	entry := &models.StockTransaction{
		ID:             uuid.New(),
		ProductID:      input.ProductID,
		ProductName:    input.ProductName,
		Type:           input.Type,
		Quantity:       input.Quantity,
		RemainingStock: input.RemainingStock,
		Reason:         input.Reason,
		ReferenceID:    referenceID,
		StaffID:        input.StaffID,
		StaffName:      staffName,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert stock transaction")
	}
	return entry, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	entries, nextCursor, err := s.repo.List(ctx, input.Filters, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock transactions")
	}

	totals, err := s.repo.Totals(ctx, input.Filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum stock transactions")
	}

	return &ListResult{
		Entries:    entries,
		Totals:     *totals,
		NextCursor: nextCursor,
	}, nil
}

func (s *service) HistoryForProduct(ctx context.Context, productID uuid.UUID) ([]models.StockTransaction, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	entries, err := s.repo.ListByProductID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list product history")
	}
	return entries, nil
}
