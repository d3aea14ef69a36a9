package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"granth/internal/httputil"
)

// Recovery turns a panicking handler into a 500 problem response. The
// problem's instance is the request id so a client report can be matched to
// the logged stack.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
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
				requestID := httputil.GetRequestID(r)
				logger.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", requestID,
					"stack", string(debug.Stack()),
				)

				p := httputil.NewProblem(http.StatusInternalServerError, "internal server error")
				p.Instance = requestID
				httputil.RespondProblem(w, p)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
