package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"

	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
	pnet "timeslider/internal/platform/net"
)

// panicReply mirrors the API envelope so clients parse one shape
type panicReply struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code"`
	Error      string         `json:"error"`
	RequestID  string         `json:"request_id,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
}

// RecoverJSON turns a handler panic into a 500 envelope with the panic code
// and logs the stack on the request logger. http.ErrAbortHandler is re-raised
// so net/http can drop the connection.
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}

			ctx := r.Context()
			logger.C(ctx).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("handler panic")

			reply := panicReply{
				StatusCode: http.StatusInternalServerError,
				Status:     http.StatusText(http.StatusInternalServerError),
				Code:       perr.ErrorCodePanic,
				Error:      "panic recovered",
				RequestID:  pnet.RequestID(ctx),
				SessionID:  pnet.SessionID(ctx),
			}
			if reply.RequestID != "" {
				w.Header().Set("X-Request-ID", reply.RequestID)
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(reply.StatusCode)
			_ = json.NewEncoder(w).Encode(reply)
		}()
		next.ServeHTTP(w, r)
	})
}
