package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pattadon/shopstock-backend/pkg/config"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
	"github.com/pattadon/shopstock-backend/pkg/storage/gcs"
)

// allowedImageTypes is the upload allowlist for dashboard images.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// UploadInput describes one incoming file.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult carries the stored object key and its public URL.
type UploadResult struct {
	ObjectKey string `json:"objectKey"`
	URL       string `json:"url"`
}

// Service stores uploaded images in object storage. Uploads resolve
// before the product write commits, so a failed upload aborts the
// mutation instead of leaving a product without its image.
type Service interface {
	UploadProductImage(ctx context.Context, input UploadInput) (*UploadResult, error)
	UploadSlip(ctx context.Context, input UploadInput) (*UploadResult, error)
	Delete(ctx context.Context, objectKey string) error
}

type service struct {
	uploader gcs.Uploader
	gcsCfg   config.GCSConfig
	mediaCfg config.MediaConfig
}

// NewService constructs a media service instance.
func NewService(uploader gcs.Uploader, gcsCfg config.GCSConfig, mediaCfg config.MediaConfig) (Service, error) {
	if uploader == nil {
		return nil, fmt.Errorf("object storage uploader required")
	}
	return &service{uploader: uploader, gcsCfg: gcsCfg, mediaCfg: mediaCfg}, nil
}

func (s *service) UploadProductImage(ctx context.Context, input UploadInput) (*UploadResult, error) {
	return s.upload(ctx, s.gcsCfg.ProductsFolder, input)
}

func (s *service) UploadSlip(ctx context.Context, input UploadInput) (*UploadResult, error) {
	return s.upload(ctx, s.gcsCfg.SlipsFolder, input)
}

func (s *service) upload(ctx context.Context, folder string, input UploadInput) (*UploadResult, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	objectKey := gcs.GenerateObjectKey(folder, input.FileName)
	url, err := s.uploader.Upload(ctx, objectKey, input.ContentType, input.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: upload object")
	}
	return &UploadResult{ObjectKey: objectKey, URL: url}, nil
}

func (s *service) Delete(ctx context.Context, objectKey string) error {
	if strings.TrimSpace(objectKey) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "object key is required")
	}
	if err := s.uploader.DeleteObject(ctx, objectKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: delete object")
	}
	return nil
}

func (s *service) validate(input UploadInput) error {
	if strings.TrimSpace(input.FileName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	if _, ok := allowedImageTypes[contentType]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported content type %q", input.ContentType))
	}
	maxBytes := int64(s.mediaCfg.MaxUploadMB) << 20
	if maxBytes > 0 && input.Size > maxBytes {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds the %d MB upload limit", s.mediaCfg.MaxUploadMB))
	}
	if input.Body == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "file body is required")
	}
	return nil
}
