package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rossimission/storefront-backend/pkg/config"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
	"github.com/rossimission/storefront-backend/pkg/storage/gcs"
)

const defaultUploadURLExpiry = 15 * time.Minute

// allowedImageTypes maps the accepted upload content types to the file
// extension used for the stored object.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// urlSigner is the slice of the GCS client the presign flow needs.
type urlSigner interface {
	SignedURL(method, bucket, object, contentType string, expiry time.Time) (string, error)
	PublicURL(bucket, object string) string
	DefaultBucket() string
}

// Service hands out short-lived upload URLs for product imagery.
type Service interface {
	PresignUpload(ctx context.Context, input PresignUploadInput) (*PresignUploadDTO, error)
}

type service struct {
	signer urlSigner
	expiry time.Duration
}

// NewService builds a media service backed by the provided signer.
func NewService(signer urlSigner, cfg config.GCSConfig) (Service, error) {
	if signer == nil {
		return nil, fmt.Errorf("storage signer required")
	}
	expiry := cfg.UploadURLExpiry
	if expiry <= 0 {
		expiry = defaultUploadURLExpiry
	}
	return &service{signer: signer, expiry: expiry}, nil
}

// PresignUploadInput describes the file an admin wants to upload.
type PresignUploadInput struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required"`
}

// PresignUploadDTO carries the one-shot upload URL plus the public URL
// the product record should store once the upload finishes.
type PresignUploadDTO struct {
	UploadURL   string    `json:"upload_url"`
	PublicURL   string    `json:"public_url"`
	ObjectKey   string    `json:"object_key"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// PresignUpload validates the content type, derives a collision-free
// object key, and signs a PUT URL for it.
func (s *service) PresignUpload(_ context.Context, input PresignUploadInput) (*PresignUploadDTO, error) {
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content type must be a jpeg, png, webp, or gif image")
	}

	objectKey := buildObjectKey(input.FileName, ext)
	expiresAt := time.Now().UTC().Add(s.expiry)
	bucket := s.signer.DefaultBucket()

	uploadURL, err := s.signer.SignedURL("PUT", bucket, objectKey, contentType, expiresAt)
	if err != nil {
		if errors.Is(err, gcs.ErrSigningUnavailable) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload signing is not configured")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign upload url")
	}

	return &PresignUploadDTO{
		UploadURL:   uploadURL,
		PublicURL:   s.signer.PublicURL(bucket, objectKey),
		ObjectKey:   objectKey,
		ContentType: contentType,
		ExpiresAt:   expiresAt,
	}, nil
}

// buildObjectKey keeps a sanitized slice of the original name for
// debuggability but namespaces every upload under a fresh UUID.
func buildObjectKey(fileName, ext string) string {
	base := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	base = sanitizeBaseName(base)
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("products/%s/%s%s", uuid.NewString(), base, ext)
}

func sanitizeBaseName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	const maxBaseLen = 64
	out := b.String()
	if len(out) > maxBaseLen {
		out = out[:maxBaseLen]
	}
	return out
}
