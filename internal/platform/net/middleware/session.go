package middleware

import (
	"net/http"

	"timeslider/internal/platform/logger"
	pnet "timeslider/internal/platform/net"
)

// SessionHeader carries the id of the control session that served the request
const SessionHeader = "X-Session-ID"

// Session stamps the session id on the request context, on the request scoped
// logger and on the response headers. Mount it after RequestID.
func Session(id func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := id()
			if sid == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			reqID := pnet.RequestID(ctx)
			ctx = pnet.WithRequest(ctx, "", sid)
			ctx = logger.WithRequest(ctx, reqID, sid)
			w.Header().Set(SessionHeader, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
