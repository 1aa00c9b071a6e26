package httpapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type telegramLinkRequest struct {
	// nil отвязывает чат
	ChatID *int64 `json:"chat_id"`
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, err := s.users.Get(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// linkTelegram привязывает чат Telegram для напоминаний
func (s *Server) linkTelegram(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req telegramLinkRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.users.LinkTelegram(r.Context(), userIDFrom(r.Context()), req.ChatID); err != nil {
		s.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
