package handlers

import (
	"net/http"
	"runtime"

	"github.com/sirupsen/logrus"

	"kpslogistics/config"
)

// RecoverWrapper turns a panicking handler into a 500 response.
func RecoverWrapper(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := make([]byte, 8*1024)
				stack = stack[:runtime.Stack(stack, false)]
				config.GetLogger().WithFields(logrus.Fields{
					"module": "handlers",
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  rec,
					"stack":  string(stack),
				}).Error("panic recovered")
				writeJSON(w, http.StatusInternalServerError, ApiResponse{Success: false, Message: "internal server error"})
			}
		}()

		handler.ServeHTTP(w, r)
	})
}
