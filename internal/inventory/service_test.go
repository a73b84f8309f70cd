package inventory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattadon/shopstock-backend/pkg/db/models"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, Repository) {
	t.Helper()
	repo := NewRepository(setupInventoryTestDB(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestRecordAppendsEntry(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	productID := uuid.New()

	entry, err := svc.Record(ctx, RecordInput{
		ProductID:      productID,
		ProductName:    "เสื้อยืดสีขาว",
		Type:           enums.StockTransactionTypeIn,
		Quantity:       10,
		RemainingStock: 10,
		Reason:         "เพิ่มสินค้าใหม่ เสื้อยืดสีขาว",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, DefaultStaffName, entry.StaffName)
	// Adjustments reference the product itself.
	assert.Equal(t, productID, entry.ReferenceID)

	history, err := repo.ListByProductID(ctx, productID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 10, history[0].RemainingStock)
	assert.Equal(t, enums.StockTransactionTypeIn, history[0].Type)
}

func TestRecordKeepsStaffIdentity(t *testing.T) {
	svc, _ := newTestService(t)
	staffID := uuid.New()
	orderID := uuid.New()

	entry, err := svc.Record(context.Background(), RecordInput{
		ProductID:      uuid.New(),
		ProductName:    "กางเกงยีนส์",
		Type:           enums.StockTransactionTypeOut,
		Quantity:       -2,
		RemainingStock: 8,
		Reason:         "จัดส่งออเดอร์ ORD-1001",
		ReferenceID:    orderID,
		StaffID:        &staffID,
		StaffName:      "สมหญิง",
	})
	require.NoError(t, err)
	assert.Equal(t, "สมหญิง", entry.StaffName)
	require.NotNil(t, entry.StaffID)
	assert.Equal(t, staffID, *entry.StaffID)
	assert.Equal(t, orderID, entry.ReferenceID)
}

func TestRecordValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RecordInput
	}{
		{"missing product id", RecordInput{ProductName: "x", Type: enums.StockTransactionTypeIn, Quantity: 1, Reason: "r"}},
		{"missing product name", RecordInput{ProductID: uuid.New(), Type: enums.StockTransactionTypeIn, Quantity: 1, Reason: "r"}},
		{"invalid type", RecordInput{ProductID: uuid.New(), ProductName: "x", Type: "transfer", Quantity: 1, Reason: "r"}},
		{"zero delta", RecordInput{ProductID: uuid.New(), ProductName: "x", Type: enums.StockTransactionTypeIn, Reason: "r"}},
		{"stock_in negative delta", RecordInput{ProductID: uuid.New(), ProductName: "x", Type: enums.StockTransactionTypeIn, Quantity: -1, Reason: "r"}},
		{"stock_out positive delta", RecordInput{ProductID: uuid.New(), ProductName: "x", Type: enums.StockTransactionTypeOut, Quantity: 1, Reason: "r"}},
		{"negative remaining", RecordInput{ProductID: uuid.New(), ProductName: "x", Type: enums.StockTransactionTypeIn, Quantity: 1, RemainingStock: -1, Reason: "r"}},
		{"missing reason", RecordInput{ProductID: uuid.New(), ProductName: "x", Type: enums.StockTransactionTypeIn, Quantity: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(ctx, tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func seedEntries(t *testing.T, repo Repository, productID uuid.UUID, count int, entryType enums.StockTransactionType) {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < count; i++ {
		delta := i + 1
		if entryType == enums.StockTransactionTypeOut {
			delta = -delta
		}
		entry := &models.StockTransaction{
			ID:             uuid.New(),
			ProductID:      productID,
			ProductName:    fmt.Sprintf("สินค้า %d", i),
			Type:           entryType,
			Quantity:       delta,
			RemainingStock: 100,
			Reason:         fmt.Sprintf("เพิ่มสต็อก สินค้า %d", i),
			ReferenceID:    productID,
			StaffName:      DefaultStaffName,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), entry))
	}
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, repo := newTestService(t)
	productID := uuid.New()
	seedEntries(t, repo, productID, 5, enums.StockTransactionTypeIn)

	result, err := svc.List(context.Background(), ListInput{
		Pagination: pagination.Params{Limit: 3},
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 3)
	assert.NotEmpty(t, result.NextCursor)
	assert.True(t, result.Entries[0].CreatedAt.After(result.Entries[2].CreatedAt))

	next, err := svc.List(context.Background(), ListInput{
		Pagination: pagination.Params{Limit: 3, Cursor: result.NextCursor},
	})
	require.NoError(t, err)
	require.Len(t, next.Entries, 2)
	assert.Empty(t, next.NextCursor)
}

func TestListFiltersByTypeAndComputesTotals(t *testing.T) {
	svc, repo := newTestService(t)
	productID := uuid.New()
	seedEntries(t, repo, productID, 3, enums.StockTransactionTypeIn)  // quantities 1+2+3
	seedEntries(t, repo, productID, 2, enums.StockTransactionTypeOut) // deltas -1-2

	out := enums.StockTransactionTypeOut
	result, err := svc.List(context.Background(), ListInput{
		Filters:    ListFilters{Type: &out},
		Pagination: pagination.Params{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, int64(0), result.Totals.StockIn)
	assert.Equal(t, int64(3), result.Totals.StockOut)

	all, err := svc.List(context.Background(), ListInput{Pagination: pagination.Params{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(6), all.Totals.StockIn)
	assert.Equal(t, int64(3), all.Totals.StockOut)
}

func TestListFiltersBySearch(t *testing.T) {
	svc, repo := newTestService(t)
	require.NoError(t, repo.Create(context.Background(), &models.StockTransaction{
		ID: uuid.New(), ProductID: uuid.New(), ProductName: "เสื้อยืดสีขาว",
		Type: enums.StockTransactionTypeIn, Quantity: 1, RemainingStock: 1,
		Reason: "เพิ่มสินค้าใหม่ เสื้อยืดสีขาว", ReferenceID: uuid.New(), StaffName: DefaultStaffName,
	}))
	require.NoError(t, repo.Create(context.Background(), &models.StockTransaction{
		ID: uuid.New(), ProductID: uuid.New(), ProductName: "กางเกงยีนส์",
		Type: enums.StockTransactionTypeIn, Quantity: 1, RemainingStock: 1,
		Reason: "เพิ่มสินค้าใหม่ กางเกงยีนส์", ReferenceID: uuid.New(), StaffName: DefaultStaffName,
	}))

	result, err := svc.List(context.Background(), ListInput{
		Filters:    ListFilters{Query: "เสื้อยืด"},
		Pagination: pagination.Params{Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, "เสื้อยืดสีขาว", result.Entries[0].ProductName)
}

func TestHistoryForProductOrdersOldestFirst(t *testing.T) {
	svc, repo := newTestService(t)
	productID := uuid.New()
	seedEntries(t, repo, productID, 3, enums.StockTransactionTypeIn)
	seedEntries(t, repo, uuid.New(), 2, enums.StockTransactionTypeIn)

	history, err := svc.HistoryForProduct(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].CreatedAt.Before(history[2].CreatedAt))
}
