package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// HandleChatHistory returns the transcript, opening the session (and writing
// the greeting) for a fresh account.
func (h *Handler) HandleChatHistory(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	id, _, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	s, err := h.session(id)
	if err != nil {
		h.logf("open chat session for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not load chat history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": s.History()})
}

// HandleChatSend submits one message and returns the coach's reply.
func (h *Handler) HandleChatSend(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id, _, ok := h.loadRecord(w, r)
	if !ok {
		return
	}
	var in struct {
		Message string `json:"message"`
	}
	if !readJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Message) == "" {
		httpError(w, http.StatusBadRequest, "message is required")
		return
	}
	s, err := h.session(id)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "could not open chat session")
		return
	}
	reply, err := s.Send(r.Context(), in.Message)
	if err != nil {
		h.logf("chat send for %s: %v", id, err)
		httpError(w, http.StatusInternalServerError, "could not save chat message")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
}

const (
	chatWSWriteWait = 10 * time.Second
	chatWSPongWait  = 60 * time.Second
	chatWSPingEvery = (chatWSPongWait * 9) / 10
)

var chatWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type chatWSInbound struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

type chatWSOutbound struct {
	Type    string `json:"type"`
	Role    string `json:"role,omitempty"`
	Text    string `json:"text,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// HandleChatWS serves the coach conversation over a websocket. The transcript
// is replayed on connect, then each "send" is answered with the coach's
// reply.
func (h *Handler) HandleChatWS(w http.ResponseWriter, r *http.Request) {
	id := h.userID(r)
	if id == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if _, ok, err := h.profiles.Get(id); err != nil || !ok {
		http.Error(w, "account has not completed onboarding", http.StatusNotFound)
		return
	}
	s, err := h.session(id)
	if err != nil {
		http.Error(w, "could not open chat session", http.StatusInternalServerError)
		return
	}

	conn, err := chatWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(chatWSPongWait)); err != nil {
		h.logf("chat ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatWSPongWait))
	})

	writeCh := make(chan chatWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(chatWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for _, turn := range s.History() {
		pushChatWS(writeCh, chatWSOutbound{Type: "history", Role: turn.Role, Text: turn.Text})
	}

	for {
		var in chatWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushChatWS(writeCh, chatWSOutbound{Type: "pong"})
		case "send":
			msg := strings.TrimSpace(in.Message)
			if msg == "" {
				pushChatWS(writeCh, chatWSOutbound{
					Type:    "error",
					Code:    "invalid_argument",
					Message: "message is required",
				})
				continue
			}
			reply, sendErr := s.Send(ctx, msg)
			if sendErr != nil {
				pushChatWS(writeCh, chatWSOutbound{
					Type:    "error",
					Code:    "internal",
					Message: sendErr.Error(),
				})
				continue
			}
			pushChatWS(writeCh, chatWSOutbound{Type: "reply", Role: "model", Text: reply})
		default:
			pushChatWS(writeCh, chatWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "unsupported type",
			})
		}
	}
}

func pushChatWS(writeCh chan chatWSOutbound, out chatWSOutbound) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
