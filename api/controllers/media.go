package controllers

import (
	"net/http"

	"github.com/rossimission/storefront-backend/api/responses"
	"github.com/rossimission/storefront-backend/api/validators"
	"github.com/rossimission/storefront-backend/internal/media"
	"github.com/rossimission/storefront-backend/pkg/logger"
)

// MediaPresign hands out a short-lived signed URL for a product image
// upload.
func MediaPresign(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload media.PresignUploadInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.PresignUpload(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
