package httpapi

import (
	"encoding/json"
	"net/http"

	"devicehub/internal/dispatch"
	"devicehub/internal/models"
)

type Handler struct {
	dispatcher *dispatch.Dispatcher
}

// Invoke принимает событие инструмента и отдаёт конверт диспетчера как есть.
// HTTP-статус дублирует statusCode конверта.
func (h *Handler) Invoke(w http.ResponseWriter, r *http.Request) {
	var req dispatch.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", "invalid request body: "+err.Error(), nil)
		return
	}
	resp := h.dispatcher.Dispatch(r.Context(), req)
	models.WriteJSON(w, resp.StatusCode, resp)
}
