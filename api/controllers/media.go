package controllers

import (
	"net/http"

	"github.com/pattadon/shopstock-backend/api/responses"
	"github.com/pattadon/shopstock-backend/internal/media"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/logger"
)

// Multipart parsing buffers up to this much in memory before spilling
// to disk. Uploads themselves are limited by the media service.
const multipartMemoryLimit = 8 << 20

type uploadFunc func(r *http.Request, svc media.Service) (*media.UploadResult, error)

// UploadProductImage stores a product image and returns its public URL.
func UploadProductImage(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return uploadHandler(svc, logg, func(r *http.Request, svc media.Service) (*media.UploadResult, error) {
		input, cleanup, err := uploadInputFromRequest(r)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		return svc.UploadProductImage(r.Context(), input)
	})
}

// UploadSlip stores a payment slip image and returns its public URL.
func UploadSlip(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return uploadHandler(svc, logg, func(r *http.Request, svc media.Service) (*media.UploadResult, error) {
		input, cleanup, err := uploadInputFromRequest(r)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		return svc.UploadSlip(r.Context(), input)
	})
}

func uploadHandler(svc media.Service, logg *logger.Logger, upload uploadFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		result, err := upload(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func uploadInputFromRequest(r *http.Request) (media.UploadInput, func(), error) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return media.UploadInput{}, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return media.UploadInput{}, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required")
	}

	input := media.UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return input, func() { file.Close() }, nil
}
