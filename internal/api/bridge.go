package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/staffworks/staffbot/internal/app/invites"
	"github.com/staffworks/staffbot/internal/gateway"
)

// ─── Gateway Bridge ─────────────────────────────────────────────────────────
// The chat connector runs as a separate process and bridges gateway events
// into the daemon over these endpoints. Binding the ops API to loopback is
// what keeps the bridge private.
//
// POST /api/gateway/messages — one non-command chat message (accrual path)
// POST /api/gateway/commands — one parsed-prefix command, returns reply text
// POST /api/gateway/joins    — member join (invite tracking)
// POST /api/gateway/leaves   — member leave

// Bridge holds the services the connector drives.
type Bridge struct {
	Dispatcher *gateway.Dispatcher
	Invites    *invites.Service
	Prefix     string
}

// SetBridge mounts the gateway bridge endpoints.
func (s *Server) SetBridge(b *Bridge) { s.bridge = b }

func (s *Server) mountBridge(r chi.Router) {
	r.Post("/gateway/messages", s.handleBridgeMessage)
	r.Post("/gateway/commands", s.handleBridgeCommand)
	r.Post("/gateway/joins", s.handleBridgeJoin)
	r.Post("/gateway/leaves", s.handleBridgeLeave)
}

type bridgeMessageRequest struct {
	AuthorID  int64  `json:"author_id"`
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

func (s *Server) handleBridgeMessage(w http.ResponseWriter, r *http.Request) {
	var req bridgeMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.bridge.Dispatcher.OnMessage(r.Context(), req.AuthorID, req.ChannelID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBridgeCommand(w http.ResponseWriter, r *http.Request) {
	var req bridgeMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cmd, ok := gateway.ParseCommand(req.AuthorID, req.ChannelID, req.Content, s.bridge.Prefix)
	if !ok {
		writeError(w, http.StatusBadRequest, "not a command")
		return
	}
	reply, err := s.bridge.Dispatcher.Dispatch(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type bridgeMemberRequest struct {
	UserID    int64 `json:"user_id"`
	InviterID int64 `json:"inviter_id"`
}

func (s *Server) handleBridgeJoin(w http.ResponseWriter, r *http.Request) {
	var req bridgeMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	l, err := s.bridge.Invites.MemberJoined(r.Context(), req.UserID, req.InviterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleBridgeLeave(w http.ResponseWriter, r *http.Request) {
	var req bridgeMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.bridge.Invites.MemberLeft(r.Context(), req.UserID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
