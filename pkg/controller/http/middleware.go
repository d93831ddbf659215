package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/usecase"
	"github.com/secmon-lab/dinewise/pkg/utils/errutil"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
)

// UserIDHeader carries the caller's user ID. It is trusted as-is.
const UserIDHeader = "X-User-ID"

type ctxUserIDKey struct{}

// userMiddleware resolves the acting user and attaches a request-scoped logger
func userMiddleware(defaultUserID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := defaultUserID
			if v := r.Header.Get(UserIDHeader); v != "" {
				id, err := strconv.ParseInt(v, 10, 64)
				if err != nil || id <= 0 {
					err = goerr.Wrap(usecase.ErrInvalidRequest, "invalid user ID header", goerr.V("value", v))
					errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
					return
				}
				userID = id
			}

			logger := logging.From(r.Context()).With(
				"request_id", middleware.GetReqID(r.Context()),
				"user_id", userID,
			)
			ctx := logging.With(r.Context(), logger)
			ctx = context.WithValue(ctx, ctxUserIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userIDFrom(ctx context.Context) int64 {
	if id, ok := ctx.Value(ctxUserIDKey{}).(int64); ok {
		return id
	}
	return DefaultUserID
}
