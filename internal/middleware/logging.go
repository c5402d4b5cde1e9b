package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/Bernardstanislas/secretariat/internal/constants"
	"github.com/Bernardstanislas/secretariat/internal/logging"
)

// Recoverer logs handler panics and answers 500 instead of dropping the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.Error("Handler panic",
				"request_id", GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			http.Error(w, constants.MsgUnexpectedError, http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}
