package controllers

import (
	"net/http"
	"strings"

	"github.com/pattadon/shopstock-backend/api/responses"
	"github.com/pattadon/shopstock-backend/api/validators"
	"github.com/pattadon/shopstock-backend/internal/inventory"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/logger"
)

// ListStockHistory returns one page of the stock ledger with direction
// totals for the active filter set.
func ListStockHistory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		filters, err := stockHistoryFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), inventory.ListInput{
			Filters:    filters,
			Pagination: pageParams(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductStockHistory returns the full ledger trail for one product,
// newest first.
func ProductStockHistory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.HistoryForProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"entries": entries})
	}
}

func stockHistoryFilters(r *http.Request) (inventory.ListFilters, error) {
	filters := inventory.ListFilters{Query: strings.TrimSpace(r.URL.Query().Get("q"))}

	productID, err := validators.ParseQueryUUID(r, "product_id")
	if err != nil {
		return filters, err
	}
	filters.ProductID = productID

	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		entryType := enums.StockTransactionType(raw)
		if !entryType.IsValid() {
			return filters, pkgerrors.New(pkgerrors.CodeValidation, "type must be stock_in or stock_out")
		}
		filters.Type = &entryType
	}

	from, err := validators.ParseQueryTime(r, "from")
	if err != nil {
		return filters, err
	}
	filters.From = from

	to, err := validators.ParseQueryTime(r, "to")
	if err != nil {
		return filters, err
	}
	filters.To = to

	return filters, nil
}
