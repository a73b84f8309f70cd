package picking

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pattadon/shopstock-backend/pkg/db/models"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
)

// Repository wires together picking record persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the picking record.
func (r *Repository) Create(ctx context.Context, record *models.PickingRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Save persists all fields of the picking record.
func (r *Repository) Save(ctx context.Context, record *models.PickingRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// ClaimDispatch flips the record to dispatched only while stock has not
// been deducted yet and reports whether this call won the claim, so
// concurrent shipment commits deduct stock at most once.
func (r *Repository) ClaimDispatch(ctx context.Context, record *models.PickingRecord) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.PickingRecord{}).
		Where("id = ? AND stock_deducted = ?", record.ID, false).
		Updates(map[string]any{
			"status":            record.Status,
			"tracking_number":   record.TrackingNumber,
			"shipping_provider": record.ShippingProvider,
			"stock_deducted":    true,
			"dispatched_at":     record.DispatchedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FindByID loads the picking record by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PickingRecord, error) {
	var record models.PickingRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListFilters describe the supported filter knobs for the picking view.
type ListFilters struct {
	StaffID *uuid.UUID           `json:"staff_id,omitempty"`
	Status  *enums.PickingStatus `json:"status,omitempty"`
}

// List returns one page of picking records newest first plus the next
// cursor. A staff filter turns the admin view into the staff history.
func (r *Repository) List(ctx context.Context, filters ListFilters, page pagination.Params) ([]models.PickingRecord, string, error) {
	limitWithBuffer := pagination.LimitWithBuffer(page.Limit)

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.PickingRecord{})
	if filters.StaffID != nil {
		qb = qb.Where("staff_id = ?", *filters.StaffID)
	}
	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.PickingRecord
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

// CountByStatus returns the number of picking records in the status.
func (r *Repository) CountByStatus(ctx context.Context, status enums.PickingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PickingRecord{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
