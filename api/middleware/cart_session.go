package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rossimission/storefront-backend/api/responses"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
	"github.com/rossimission/storefront-backend/pkg/logger"
)

const cartSessionHeader = "X-Cart-Session"

// CartSession resolves the caller's cart session ID from the request header.
// A missing header mints a fresh session; a malformed one is rejected. The
// resolved ID is echoed back so browsers can persist it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(cartSessionHeader))
			if sessionID == "" {
				sessionID = uuid.NewString()
			} else if _, err := uuid.Parse(sessionID); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session must be a valid uuid"))
				return
			}

			w.Header().Set(cartSessionHeader, sessionID)

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
