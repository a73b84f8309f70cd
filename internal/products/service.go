package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pattadon/shopstock-backend/internal/inventory"
	"github.com/pattadon/shopstock-backend/pkg/db/models"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
)

// Service exposes catalog management operations. Every stock movement
// appends a ledger entry in the same transaction as the product write.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
	IncrementStock(ctx context.Context, productID uuid.UUID, input IncrementStockInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID, actor Actor) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ListResult, error)
}

// Actor identifies who performed a stock movement. A zero Actor is
// recorded under the admin fallback name.
type Actor struct {
	StaffID   *uuid.UUID
	StaffName string
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Category    *string
	Price       decimal.Decimal
	Quantity    int
	ImageURL    *string
	Actor       Actor
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Quantity    *int
	ImageURL    *string
	Actor       Actor
}

// IncrementStockInput adds stock on top of the current quantity.
type IncrementStockInput struct {
	Amount int
	Actor  Actor
}

// ListProductsInput captures the inputs to paginate/filter the catalog.
type ListProductsInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// ListResult is one catalog page.
type ListResult struct {
	Products   []models.Product `json:"products"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// service implements the product service.
type service struct {
	repo   *Repository
	ledger inventory.Repository
	tx     txRunner
}

// NewService constructs a product service instance.
func NewService(repo *Repository, ledger inventory.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, ledger: ledger, tx: tx}, nil
}

// CreateProduct inserts the product and its opening ledger entry in one
// transaction.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Price:       input.Price,
		Quantity:    input.Quantity,
		ImageURL:    input.ImageURL,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		// A product opened with zero stock leaves no ledger trail.
		if input.Quantity > 0 {
			entry := ledgerEntry(product, enums.StockTransactionTypeIn, input.Quantity,
				fmt.Sprintf("เพิ่มสินค้าใหม่ %s", name), input.Actor)
			if err := s.ledger.WithTx(tx).Create(ctx, entry); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert opening ledger entry")
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct applies field changes and, when the quantity moved,
// appends an adjustment ledger entry in the same transaction. A
// quantity edit that lands on the current value appends nothing.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product, err := txRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}

		previousQty := product.Quantity
		applyUpdateToProduct(product, input)

		if err := txRepo.Save(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}

		if input.Quantity != nil && *input.Quantity != previousQty {
			newQty := *input.Quantity
			// The ledger stores the signed delta: negative when stock shrank.
			delta := newQty - previousQty
			entryType := enums.StockTransactionTypeIn
			if delta < 0 {
				entryType = enums.StockTransactionTypeOut
			}
			entry := ledgerEntry(product, entryType, delta,
				fmt.Sprintf("ปรับจำนวนสต็อก %s (%d → %d)", product.Name, previousQty, newQty), input.Actor)
			if err := s.ledger.WithTx(tx).Create(ctx, entry); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert adjustment ledger entry")
			}
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// IncrementStock adds a strictly positive amount of stock and records
// it as a stock_in entry.
func (s *service) IncrementStock(ctx context.Context, productID uuid.UUID, input IncrementStockInput) (*models.Product, error) {
	if input.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "increment amount must be positive")
	}

	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product, err := txRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}

		product.Quantity += input.Amount
		if err := txRepo.Save(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product quantity")
		}

		entry := ledgerEntry(product, enums.StockTransactionTypeIn, input.Amount,
			fmt.Sprintf("เพิ่มสต็อก %s (%d ชิ้น)", product.Name, input.Amount), input.Actor)
		if err := s.ledger.WithTx(tx).Create(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert restock ledger entry")
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProduct removes the product after writing a closing stock_out
// entry for whatever quantity was left, so the ledger explains where
// the stock went.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID, actor Actor) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product, err := txRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}

		// Deleting an already-empty product has nothing to write off.
		if product.Quantity > 0 {
			entry := &models.StockTransaction{
				ID:             uuid.New(),
				ProductID:      product.ID,
				ProductName:    product.Name,
				Type:           enums.StockTransactionTypeOut,
				Quantity:       -product.Quantity,
				RemainingStock: 0,
				Reason:         fmt.Sprintf("ลบสินค้า %s", product.Name),
				ReferenceID:    product.ID,
				StaffID:        actor.StaffID,
				StaffName:      staffNameOrDefault(actor),
			}
			if err := s.ledger.WithTx(tx).Create(ctx, entry); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert closing ledger entry")
			}
		}

		if err := txRepo.Delete(ctx, product.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
		}
		return nil
	})
}

func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, input.Filters, input.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	return &ListResult{Products: rows, NextCursor: nextCursor}, nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
}

func ledgerEntry(product *models.Product, entryType enums.StockTransactionType, quantity int, reason string, actor Actor) *models.StockTransaction {
	return &models.StockTransaction{
		ID:             uuid.New(),
		ProductID:      product.ID,
		ProductName:    product.Name,
		Type:           entryType,
		Quantity:       quantity,
		RemainingStock: product.Quantity,
		Reason:         reason,
		ReferenceID:    product.ID,
		StaffID:        actor.StaffID,
		StaffName:      staffNameOrDefault(actor),
	}
}

func staffNameOrDefault(actor Actor) string {
	if actor.StaffName == "" {
		return inventory.DefaultStaffName
	}
	return actor.StaffName
}
