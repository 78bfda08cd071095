// Package handler is the serverless function entry. The hosting platform
// routes every request to Handler; the application is built on the first
// request of a cold start and reused while the instance stays warm.
package handler

import (
	"net/http"

	"eduverse/bootstrap"
)

var obtain = bootstrap.Application

// Application returns the application object exactly as the bootstrap shim
// obtained it, or a nil handler with the initialization error
func Application() (http.Handler, error) {
	server, err := obtain()
	if err != nil {
		return nil, err
	}
	return server, nil
}

// Handler is the serverless entry point
func Handler(w http.ResponseWriter, r *http.Request) {
	h, err := Application()
	if err != nil {
		bootstrap.Default().Logger().Sugar().Errorw("Application unavailable", "error", err, "path", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false,"error":"application failed to initialize"}` + "\n"))
		return
	}
	h.ServeHTTP(w, r)
}
