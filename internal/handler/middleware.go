package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

const recoverStackSize = 4096

// Recover turns a panic into a 500 response through the global fallback.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			stack := make([]byte, recoverStackSize)
			stack = stack[:runtime.Stack(stack, false)]
			slog.ErrorContext(r.Context(), "panic recovered", "panic", rec, "stack", string(stack))

			writeError(w, r, fmt.Errorf("panic: %v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}
