package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rcvillanueva/padeliver-backend/pkg/enums"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/storage/gcs"
)

const (
	brandImagePrefix   = "brand_images/"
	productImagePrefix = "product_images/"

	// Uploads are capped well above any realistic product photo.
	maxImageBytes = 8 << 20
)

// ImageDTO is the API shape of a stored image.
type ImageDTO struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Service handles product and brand image storage.
type Service interface {
	UploadImage(ctx context.Context, kind enums.ImageKind, name, base64Data string) (*ImageDTO, error)
	ListBrandImages(ctx context.Context) ([]ImageDTO, error)
}

type objectStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error)
	ListObjects(ctx context.Context, prefix string) ([]gcs.ObjectInfo, error)
	PublicURL(key string) string
}

// ServiceParams carries the dependencies for NewService.
type ServiceParams struct {
	Storage objectStore
}

type service struct {
	storage objectStore
}

// NewService validates the dependencies and returns the media service.
func NewService(params ServiceParams) (Service, error) {
	if params.Storage == nil {
		return nil, fmt.Errorf("media service requires object storage")
	}
	return &service{storage: params.Storage}, nil
}

// UploadImage decodes the base64 payload and stores it as a JPEG under the
// folder chosen by kind. The stored object name is derived from the provided
// name when present, otherwise a UUID.
func (s *service) UploadImage(ctx context.Context, kind enums.ImageKind, name, base64Data string) (*ImageDTO, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image kind must be brand or product")
	}
	if strings.TrimSpace(base64Data) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image data is required")
	}

	// Data-URL payloads arrive with a media-type header; strip it.
	if idx := strings.Index(base64Data, ","); idx >= 0 && strings.HasPrefix(base64Data, "data:") {
		base64Data = base64Data[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(base64Data))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image data is not valid base64")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image data is empty")
	}
	if len(data) > maxImageBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image exceeds the upload size limit")
	}

	key := imageKey(kind, name)
	url, err := s.storage.PutObject(ctx, key, data, "image/jpeg")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to store image")
	}

	return &ImageDTO{Key: key, URL: url}, nil
}

// ListBrandImages returns the public URLs of every stored brand image.
func (s *service) ListBrandImages(ctx context.Context) ([]ImageDTO, error) {
	objects, err := s.storage.ListObjects(ctx, brandImagePrefix)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list brand images")
	}

	images := make([]ImageDTO, 0, len(objects))
	for _, obj := range objects {
		if obj.Name == brandImagePrefix {
			continue // folder placeholder objects
		}
		images = append(images, ImageDTO{Key: obj.Name, URL: s.storage.PublicURL(obj.Name)})
	}
	return images, nil
}

func imageKey(kind enums.ImageKind, name string) string {
	prefix := productImagePrefix
	if kind == enums.ImageKindBrand {
		prefix = brandImagePrefix
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = uuid.NewString()
	}
	name = sanitizeObjectName(name)
	if !strings.HasSuffix(name, ".jpg") && !strings.HasSuffix(name, ".jpeg") {
		name += ".jpg"
	}
	return prefix + name
}

// sanitizeObjectName keeps object keys flat and URL-safe.
func sanitizeObjectName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
