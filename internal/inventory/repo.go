package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattadon/shopstock-backend/pkg/db/models"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
)

// ListFilters describe the supported filter knobs for the stock history tab.
type ListFilters struct {
	ProductID *uuid.UUID                  `json:"product_id,omitempty"`
	Type      *enums.StockTransactionType `json:"type,omitempty"`
	From      *time.Time                  `json:"from,omitempty"`
	To        *time.Time                  `json:"to,omitempty"`
	Query     string                      `json:"q,omitempty"`
}

// Totals aggregates ledger volume for the active filter set.
type Totals struct {
	StockIn  int64 `json:"stockIn"`
	StockOut int64 `json:"stockOut"`
}

// Repository manages persistence for stock ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.StockTransaction) error
	List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.StockTransaction, string, error)
	Totals(ctx context.Context, filters ListFilters) (*Totals, error)
	ListByProductID(ctx context.Context, productID uuid.UUID) ([]models.StockTransaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.StockTransaction) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) applyFilters(qb *gorm.DB, filters ListFilters) *gorm.DB {
	if filters.ProductID != nil {
		qb = qb.Where("product_id = ?", *filters.ProductID)
	}
	if filters.Type != nil {
		qb = qb.Where("type = ?", *filters.Type)
	}
	if filters.From != nil {
		qb = qb.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		qb = qb.Where("created_at < ?", *filters.To)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(product_name) LIKE ? OR LOWER(reason) LIKE ?)", pattern, pattern)
	}
	return qb
}

// List returns a page of ledger entries newest first plus the cursor of
// the following page when one exists.
func (r *repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.StockTransaction, string, error) {
	limitWithBuffer := pagination.LimitWithBuffer(page.Limit)

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.applyFilters(r.db.WithContext(ctx).Model(&models.StockTransaction{}), filters)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.StockTransaction
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	rows, hasMore := pagination.TrimPage(rows, page.Limit)

	nextCursor := ""
	if hasMore {
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return rows, nextCursor, nil
}

// Totals sums entry quantities per direction for the filter set. Stored
// deltas are signed, so stock_out is negated back to a volume for the UI.
func (r *repository) Totals(ctx context.Context, filters ListFilters) (*Totals, error) {
	type row struct {
		Type  enums.StockTransactionType
		Total int64
	}

	var rows []row
	qb := r.applyFilters(r.db.WithContext(ctx).Model(&models.StockTransaction{}), filters)
	if err := qb.Select("type, COALESCE(SUM(quantity), 0) AS total").Group("type").Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := &Totals{}
	for _, r := range rows {
		switch r.Type {
		case enums.StockTransactionTypeIn:
			totals.StockIn = r.Total
		case enums.StockTransactionTypeOut:
			totals.StockOut = -r.Total
		}
	}
	return totals, nil
}

func (r *repository) ListByProductID(ctx context.Context, productID uuid.UUID) ([]models.StockTransaction, error) {
	var rows []models.StockTransaction
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
