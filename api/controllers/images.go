package controllers

import (
	"net/http"
	"strings"

	"github.com/rcvillanueva/padeliver-backend/api/responses"
	"github.com/rcvillanueva/padeliver-backend/api/validators"
	mediasvc "github.com/rcvillanueva/padeliver-backend/internal/media"
	"github.com/rcvillanueva/padeliver-backend/pkg/enums"
	pkgerrors "github.com/rcvillanueva/padeliver-backend/pkg/errors"
	"github.com/rcvillanueva/padeliver-backend/pkg/logger"
)

type uploadImageRequest struct {
	Kind string `json:"kind" validate:"required"`
	Name string `json:"name,omitempty"`
	Data string `json:"data" validate:"required"`
}

// UploadImage stores a base64 JPEG under the brand or product image folder.
func UploadImage(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		var payload uploadImageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseImageKind(strings.TrimSpace(payload.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image kind"))
			return
		}

		image, err := svc.UploadImage(r.Context(), kind, payload.Name, payload.Data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, image)
	}
}

// ListBrandImages returns the stored brand image URLs.
func ListBrandImages(svc mediasvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		images, err := svc.ListBrandImages(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, images)
	}
}
