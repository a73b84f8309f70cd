package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/pattadon/shopstock-backend/api/middleware"
	"github.com/pattadon/shopstock-backend/api/responses"
	"github.com/pattadon/shopstock-backend/api/validators"
	"github.com/pattadon/shopstock-backend/internal/picking"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/logger"
	"github.com/pattadon/shopstock-backend/pkg/types"
)

type createPickingRequest struct {
	OrderID  *string            `json:"orderId" validate:"omitempty,uuid4"`
	Customer types.CustomerInfo `json:"customer" validate:"required"`
	Items    []types.OrderItem  `json:"items" validate:"required,min=1,dive"`
}

func (req createPickingRequest) toInput(staffID uuid.UUID, staffName string) (picking.CreateRecordInput, error) {
	input := picking.CreateRecordInput{
		StaffID:   staffID,
		StaffName: staffName,
		Customer:  req.Customer,
		Items:     req.Items,
	}
	if req.OrderID != nil {
		orderID, err := uuid.Parse(*req.OrderID)
		if err != nil {
			return picking.CreateRecordInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid orderId")
		}
		input.OrderID = &orderID
	}
	return input, nil
}

type commitShipmentRequest struct {
	TrackingNumber   string `json:"trackingNumber"`
	ShippingProvider string `json:"shippingProvider"`
}

// CreatePickingRecord opens a stock request and claims the linked order
// for the authenticated staff member.
func CreatePickingRecord(svc picking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "picking service unavailable"))
			return
		}

		staffID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var req createPickingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput(staffID, middleware.DisplayNameFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.CreateRecord(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// CommitShipment records courier details. The first non-empty tracking
// number dispatches the record and deducts sold stock exactly once.
func CommitShipment(svc picking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "picking service unavailable"))
			return
		}

		recordID, err := pathUUID(r, "recordID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req commitShipmentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CommitShipment(r.Context(), recordID, picking.CommitShipmentInput{
			TrackingNumber:   req.TrackingNumber,
			ShippingProvider: req.ShippingProvider,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ConfirmDelivery finalizes a dispatched record and its linked order.
func ConfirmDelivery(svc picking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "picking service unavailable"))
			return
		}

		recordID, err := pathUUID(r, "recordID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.ConfirmDelivery(r.Context(), recordID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// GetPickingRecord returns a single picking record.
func GetPickingRecord(svc picking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "picking service unavailable"))
			return
		}

		recordID, err := pathUUID(r, "recordID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.GetRecord(r.Context(), recordID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// ListPickingRecords returns one page of records, optionally filtered
// by status or staff member.
func ListPickingRecords(svc picking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "picking service unavailable"))
			return
		}

		var filters picking.ListFilters
		staffID, err := validators.ParseQueryUUID(r, "staff_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.StaffID = staffID
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParsePickingStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}

		result, err := svc.ListRecords(r.Context(), picking.ListRecordsInput{
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

// ListMyPickingRecords returns the authenticated staff member's own
// picking history.
func ListMyPickingRecords(svc picking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "picking service unavailable"))
			return
		}

		staffID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		result, err := svc.ListByStaff(r.Context(), staffID, pageParams(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
