package middleware

import (
	"net/http"

	"github.com/learnflow/learnflow-api/internal/api/shared"
)

// TraceMiddleware assigns a trace ID to every request so that error
// responses and log lines can be correlated. The ID is also echoed back
// to the client in the X-Trace-ID header.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		if traceID := shared.GetTraceID(ctx); traceID != "" {
			w.Header().Set("X-Trace-ID", traceID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
