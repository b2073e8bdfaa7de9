package controllers

import (
	"net/http"

	"github.com/rossimission/storefront-backend/api/responses"
	"github.com/rossimission/storefront-backend/api/validators"
	"github.com/rossimission/storefront-backend/internal/newsletter"
	"github.com/rossimission/storefront-backend/pkg/logger"
)

// NewsletterSubscribe stores an opted-in email address.
func NewsletterSubscribe(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload newsletter.SubscribeInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Subscribe(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}
