package server

import (
	"net/http"
	"strings"

	"sentix/internal/logger"
)

type ExplainHandler struct {
	explainer Explainer
	chat      Chatter
	log       *logger.Logger
}

func NewExplainHandler(e Explainer, c Chatter) *ExplainHandler {
	return &ExplainHandler{explainer: e, chat: c, log: logger.Named("explain")}
}

// Explain answers {text} with {meaning} plus the structured fields when the
// provider returned them.
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if h.explainer == nil {
		writeError(w, http.StatusServiceUnavailable, "Explanations are not configured")
		return
	}

	exp, err := h.explainer.ExplainDetailed(r.Context(), text)
	if err != nil {
		h.log.Warn("explain %q: %v", text, err)
		writeError(w, http.StatusBadGateway, "Failed to get explanation")
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// Chat answers {message} with {reply}.
func (h *ExplainHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if h.chat == nil {
		writeError(w, http.StatusServiceUnavailable, "Chat is not configured")
		return
	}

	reply, err := h.chat.Chat(r.Context(), msg)
	if err != nil {
		h.log.Warn("chat: %v", err)
		writeError(w, http.StatusBadGateway, "Failed to get reply")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
