package media

import (
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pattadon/shopstock-backend/pkg/config"
	pkgerrors "github.com/pattadon/shopstock-backend/pkg/errors"
)

type fakeUploader struct {
	uploaded map[string]string
	deleted  []string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploaded: map[string]string{}}
}

func (f *fakeUploader) Upload(_ context.Context, objectKey, contentType string, body io.Reader) (string, error) {
	payload, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.uploaded[objectKey] = contentType + ":" + string(payload)
	return "https://storage.googleapis.com/shopstock-media/" + objectKey, nil
}

func (f *fakeUploader) DeleteObject(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func newTestService(t *testing.T) (Service, *fakeUploader) {
	t.Helper()
	uploader := newFakeUploader()
	svc, err := NewService(uploader, config.GCSConfig{
		BucketName:     "shopstock-media",
		ProductsFolder: "products",
		SlipsFolder:    "slips",
	}, config.MediaConfig{MaxUploadMB: 10})
	require.NoError(t, err)
	return svc, uploader
}

func TestUploadProductImage(t *testing.T) {
	svc, uploader := newTestService(t)

	result, err := svc.UploadProductImage(context.Background(), UploadInput{
		FileName:    "เสื้อยืด.PNG",
		ContentType: "image/png",
		Size:        1024,
		Body:        strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)

	keyPattern := regexp.MustCompile(`^products/\d{13}-[a-z0-9]{6}\.png$`)
	assert.Regexp(t, keyPattern, result.ObjectKey)
	assert.Equal(t, "https://storage.googleapis.com/shopstock-media/"+result.ObjectKey, result.URL)
	assert.Equal(t, "image/png:png-bytes", uploader.uploaded[result.ObjectKey])
}

func TestUploadSlipUsesSlipsFolder(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.UploadSlip(context.Background(), UploadInput{
		FileName:    "slip.jpg",
		ContentType: "image/jpeg",
		Size:        2048,
		Body:        strings.NewReader("jpg-bytes"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.ObjectKey, "slips/"), "key %s", result.ObjectKey)
}

func TestUploadValidation(t *testing.T) {
	svc, uploader := newTestService(t)

	cases := []struct {
		name  string
		input UploadInput
	}{
		{name: "missing file name", input: UploadInput{ContentType: "image/png", Body: strings.NewReader("x")}},
		{name: "disallowed content type", input: UploadInput{FileName: "x.pdf", ContentType: "application/pdf", Body: strings.NewReader("x")}},
		{name: "oversized file", input: UploadInput{FileName: "x.png", ContentType: "image/png", Size: 11 << 20, Body: strings.NewReader("x")}},
		{name: "nil body", input: UploadInput{FileName: "x.png", ContentType: "image/png"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UploadProductImage(context.Background(), tc.input)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
	assert.Empty(t, uploader.uploaded)
}

func TestDelete(t *testing.T) {
	svc, uploader := newTestService(t)

	require.NoError(t, svc.Delete(context.Background(), "products/123-abcdef.png"))
	assert.Equal(t, []string{"products/123-abcdef.png"}, uploader.deleted)

	err := svc.Delete(context.Background(), "   ")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
