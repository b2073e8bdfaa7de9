package controllers

import (
	"net/http"

	"github.com/rossimission/storefront-backend/api/responses"
	"github.com/rossimission/storefront-backend/internal/checkout"
	"github.com/rossimission/storefront-backend/pkg/logger"
)

// CheckoutStart creates a Square payment link for the session cart and
// returns the hosted checkout URL.
func CheckoutStart(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sessionID, err := cartSession(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.StartCheckout(ctx, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// CheckoutComplete clears the session cart once the shopper lands back
// from the hosted payment page.
func CheckoutComplete(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sessionID, err := cartSession(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.CompleteCheckout(ctx, sessionID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "completed"})
	}
}
