package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/2beens/trainingtracker/internal/telemetry/metrics"
	"github.com/2beens/trainingtracker/pkg"

	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a JSON 500 response and counts it.
// http.ErrAbortHandler is re-raised, net/http handles that one itself.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				log.WithFields(log.Fields{
					"method": req.Method,
					"route":  routeTemplate(req),
					"panic":  rec,
				}).Errorf("panic while serving request\n%s", debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				pkg.WriteJSONError(respWriter, "internal server error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}
