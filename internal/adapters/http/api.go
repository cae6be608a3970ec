package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/karilint/bones/internal/filters"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type apiLoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Mode      string `json:"mode"`
	TokenName string `json:"token_name"`
}

func (h *Handler) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req apiLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = "token"
	}

	if mode == "session" {
		token, identity, err := h.service.LoginWithSession(r.Context(), req.Email, req.Password)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid credentials"})
			return
		}
		h.setSessionCookie(w, token)
		writeJSON(w, http.StatusOK, map[string]any{"user_id": identity.User.ID, "email": identity.User.Email, "mode": "session"})
		return
	}

	token, identity, err := h.service.LoginWithAPIToken(r.Context(), req.Email, req.Password, req.TokenName)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": identity.User.ID, "email": identity.User.Email, "token": token, "mode": "token"})
}

func (h *Handler) handleAPIWhoAmI(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": identity.User.ID, "email": identity.User.Email})
}

func (h *Handler) handleAPILogout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}
	c, err := r.Cookie(sessionCookieName)
	if err == nil && c.Value != "" {
		_ = h.service.LogoutSession(r.Context(), c.Value)
		h.clearSessionCookie(w)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.DashboardCounts(r.Context()))
}

func (h *Handler) handleAPIListTransects(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	states, err := h.service.TransectStates(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "filter choices unavailable"})
		return
	}
	filter := filters.ParseTransectFilter(params, filters.StateChoices(states))

	items, total, err := h.service.ListTransects(r.Context(), filter, parsePage(params))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
}

func (h *Handler) handleAPIGetTransect(w http.ResponseWriter, r *http.Request) {
	uid, ok := uintURLParam(r, "pk")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid transect id"})
		return
	}
	transect, err := h.service.GetTransect(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "transect not found"})
		return
	}
	writeJSON(w, http.StatusOK, transect)
}

func (h *Handler) handleAPIListOccurrences(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	states, err := h.service.OccurrenceStates(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "filter choices unavailable"})
		return
	}
	filter := filters.ParseOccurrenceFilter(params, filters.StateChoices(states))

	items, total, err := h.service.ListOccurrences(r.Context(), filter, parsePage(params))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
}

func (h *Handler) handleAPIListWorkflows(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	filter := filters.ParseWorkflowFilter(params)

	items, total, err := h.service.ListWorkflows(r.Context(), filter, parsePage(params))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
}

func (h *Handler) handleAPIListDataLogFiles(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	filter := filters.ParseDataLogFileFilter(params)

	items, total, err := h.service.ListDataLogFiles(r.Context(), filter, parsePage(params))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": total})
}

func (h *Handler) handleAPIRecentHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.MergedRecentHistory(r.Context(), 50))
}

func (h *Handler) handleAPIListAuditLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.ListAuditLogs(r.Context(), 200)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
