package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/2beens/stepgoal/internal/telemetry/metrics"
	"github.com/2beens/stepgoal/pkg"

	log "github.com/sirupsen/logrus"
)

type panicResponse struct {
	Error string `json:"error"`
}

// PanicRecovery turns a handler panic into a JSON 500. http.ErrAbortHandler
// is passed on so net/http can abort the connection itself.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				log.WithFields(log.Fields{
					"route":  routeName(r),
					"method": r.Method,
					"client": clientIP(r),
				}).Errorf("panic serving %s: %v\n%s", r.URL.Path, rec, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				pkg.WriteJSON(w, panicResponse{Error: "internal_error"}, http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
