package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"hirehub/internal/response"

	"go.uber.org/zap"
)

// Recovery turns a panic in a handler into a logged 500 with the standard
// JSON error envelope. http.ErrAbortHandler is re-raised for net/http.
func Recovery(builder *response.Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				GetRequestLogger(r.Context()).Error("Panic recovered",
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)

				err := response.NewInternalError("Internal server error", fmt.Errorf("panic: %v", rec))
				builder.WriteError(w, r, err)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
