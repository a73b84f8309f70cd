package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pattadon/shopstock-backend/api/middleware"
	"github.com/pattadon/shopstock-backend/internal/products"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/pagination"
)

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	value, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return value, nil
}

func pageParams(r *http.Request) pagination.Params {
	query := r.URL.Query()
	params := pagination.Params{Cursor: strings.TrimSpace(query.Get("cursor"))}
	if limit := strings.TrimSpace(query.Get("limit")); limit != "" {
		// Out-of-range values are clamped by the repositories.
		if value, err := strconv.Atoi(limit); err == nil && value > 0 {
			params.Limit = value
		}
	}
	return params
}

// actorFromContext builds the ledger actor from the authenticated user.
func actorFromContext(r *http.Request) products.Actor {
	actor := products.Actor{StaffName: middleware.DisplayNameFromContext(r.Context())}
	if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			actor.StaffID = &id
		}
	}
	return actor
}
