package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"devicehub/internal/auth"
	"devicehub/internal/dispatch"
)

// RegisterRoutes вешает инструментальный endpoint под /api/v1.
// validator == nil — без авторизации (dev-режим).
func RegisterRoutes(r *mux.Router, d *dispatch.Dispatcher, validator *auth.Validator) {
	sub := r.PathPrefix("/api/v1").Subrouter()
	if validator != nil {
		sub.Use(BearerAuth(validator))
	}
	h := &Handler{dispatcher: d}
	sub.HandleFunc("/invoke", h.Invoke).Methods(http.MethodPost)
}
