package media

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/rcvillanueva/padeliver-backend/pkg/enums"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/storage/gcs"
)

type fakeObjectStore struct {
	putKey         string
	putData        []byte
	putContentType string
	putErr         error

	listObjects []gcs.ObjectInfo
	listErr     error
}

func (f *fakeObjectStore) PutObject(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.putKey = key
	f.putData = data
	f.putContentType = contentType
	return f.PublicURL(key), nil
}

func (f *fakeObjectStore) ListObjects(_ context.Context, _ string) ([]gcs.ObjectInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listObjects, nil
}

func (f *fakeObjectStore) PublicURL(key string) string {
	return "https://storage.googleapis.com/padeliver-media/" + key
}

func newTestService(t *testing.T, store *fakeObjectStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Storage: store})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	if typed.Code() != want {
		t.Fatalf("expected code %s, got %s", want, typed.Code())
	}
}

func TestUploadImageStoresDecodedJPEG(t *testing.T) {
	t.Parallel()

	store := &fakeObjectStore{}
	svc := newTestService(t, store)

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	dto, err := svc.UploadImage(context.Background(), enums.ImageKindProduct, "burger photo", base64.StdEncoding.EncodeToString(payload))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}

	if dto.Key != "product_images/burger_photo.jpg" {
		t.Fatalf("unexpected key %q", dto.Key)
	}
	if store.putContentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", store.putContentType)
	}
	if string(store.putData) != string(payload) {
		t.Fatalf("stored bytes differ from decoded payload")
	}
	if !strings.HasSuffix(dto.URL, dto.Key) {
		t.Fatalf("URL %q does not reference key %q", dto.URL, dto.Key)
	}
}

func TestUploadImageBrandPrefixAndGeneratedName(t *testing.T) {
	t.Parallel()

	store := &fakeObjectStore{}
	svc := newTestService(t, store)

	dto, err := svc.UploadImage(context.Background(), enums.ImageKindBrand, "", base64.StdEncoding.EncodeToString([]byte("img")))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if !strings.HasPrefix(dto.Key, "brand_images/") {
		t.Fatalf("expected brand_images/ prefix, got %q", dto.Key)
	}
	if !strings.HasSuffix(dto.Key, ".jpg") {
		t.Fatalf("expected .jpg suffix, got %q", dto.Key)
	}
}

func TestUploadImageStripsDataURLHeader(t *testing.T) {
	t.Parallel()

	store := &fakeObjectStore{}
	svc := newTestService(t, store)

	raw := []byte("jpeg-bytes")
	payload := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw)
	_, err := svc.UploadImage(context.Background(), enums.ImageKindProduct, "pic", payload)
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if string(store.putData) != string(raw) {
		t.Fatalf("stored bytes differ after data-URL strip")
	}
}

func TestUploadImageValidation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &fakeObjectStore{})
	ctx := context.Background()

	cases := []struct {
		name string
		kind enums.ImageKind
		data string
	}{
		{"invalid kind", enums.ImageKind("banner"), base64.StdEncoding.EncodeToString([]byte("x"))},
		{"empty data", enums.ImageKindBrand, "   "},
		{"bad base64", enums.ImageKindBrand, "not-base64!!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UploadImage(ctx, tc.kind, "n", tc.data)
			assertCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestUploadImageStorageFailure(t *testing.T) {
	t.Parallel()

	store := &fakeObjectStore{putErr: errors.New("bucket offline")}
	svc := newTestService(t, store)

	_, err := svc.UploadImage(context.Background(), enums.ImageKindProduct, "pic", base64.StdEncoding.EncodeToString([]byte("x")))
	assertCode(t, err, pkgerrors.CodeDependency)
}

func TestListBrandImagesSkipsFolderPlaceholder(t *testing.T) {
	t.Parallel()

	store := &fakeObjectStore{listObjects: []gcs.ObjectInfo{
		{Name: "brand_images/"},
		{Name: "brand_images/logo.jpg"},
		{Name: "brand_images/banner.jpg"},
	}}
	svc := newTestService(t, store)

	images, err := svc.ListBrandImages(context.Background())
	if err != nil {
		t.Fatalf("ListBrandImages: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if images[0].Key != "brand_images/logo.jpg" {
		t.Fatalf("unexpected first key %q", images[0].Key)
	}
	if !strings.Contains(images[0].URL, "brand_images/logo.jpg") {
		t.Fatalf("URL %q missing key", images[0].URL)
	}
}

func TestListBrandImagesDependencyFailure(t *testing.T) {
	t.Parallel()

	store := &fakeObjectStore{listErr: errors.New("list failed")}
	svc := newTestService(t, store)

	_, err := svc.ListBrandImages(context.Background())
	assertCode(t, err, pkgerrors.CodeDependency)
}
