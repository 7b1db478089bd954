package accesslog

import (
	"net/http"
	"time"

	"github.com/bizzon-vn/bepnhanga/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns a middleware that logs every HTTP request with its
// duration, response status and payload sizes.
func Handler(logger logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.With(r.Context(),
				"duration", time.Since(start).String(),
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"remote", r.RemoteAddr,
			).Infof("%s %s %s %d", r.Method, r.RequestURI, r.Proto, ww.Status())
		}
		return http.HandlerFunc(f)
	}
}
