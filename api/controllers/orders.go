package controllers

import (
	"net/http"
	"strings"

	"github.com/pattadon/shopstock-backend/api/responses"
	"github.com/pattadon/shopstock-backend/api/validators"
	"github.com/pattadon/shopstock-backend/internal/orders"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/logger"
	"github.com/pattadon/shopstock-backend/pkg/types"
)

type createOrderRequest struct {
	OrderNumber string             `json:"orderNumber" validate:"required"`
	Customer    types.CustomerInfo `json:"customer" validate:"required"`
	Items       []types.OrderItem  `json:"items" validate:"required,min=1,dive"`
	SlipURL     *string            `json:"slipUrl" validate:"omitempty,url"`
}

func (req createOrderRequest) toInput() orders.CreateOrderInput {
	return orders.CreateOrderInput{
		OrderNumber: req.OrderNumber,
		Customer:    req.Customer,
		Items:       req.Items,
		SlipURL:     req.SlipURL,
	}
}

// CreateOrder registers a sales order. The total is derived from the
// line items server side.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder returns a single order.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns one page of orders still in flight, optionally
// filtered by status or an order number search.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		filters := orders.ListFilters{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}

		result, err := svc.ListActiveOrders(r.Context(), orders.ListOrdersInput{
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

// ListUnassignedOrders returns pending orders no staff member has
// claimed yet, oldest first.
func ListUnassignedOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		list, err := svc.ListUnassignedPending(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": list})
	}
}
