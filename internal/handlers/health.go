package handlers

import "net/http"

// Health is a plain liveness probe; it does not touch the history store.
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
