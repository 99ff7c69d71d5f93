package coach

import (
	"context"
	"log"
	"strings"
	"sync"

	"breathefree/internal/llmclient"
	"breathefree/internal/repository/chatstore"
)

const (
	chatSystemInstruction = "You are a friendly, supportive AI coach for someone trying to quit smoking. " +
		"Keep your answers concise, empathetic, and encouraging. Your name is BreatheFree."

	// Shown as the opening model turn when no history exists.
	Greeting = "Hi! I'm your BreatheFree coach. How can I support you on your quit journey today?"

	// Returned in place of a reply when generation fails. The user's
	// message is still kept in the transcript.
	unavailableReply = "I'm having a little trouble connecting right now. Please try again in a moment."
)

// ChatLog is the slice of chatstore the session needs.
type ChatLog interface {
	Append(userID string, msg chatstore.Message) error
	History(userID string, limit int) ([]chatstore.Message, error)
}

// Session is one user's conversation with the coach persona. History lives in
// the chat log; the session rehydrates it on open and persists both sides of
// every exchange as they happen. Sends are serialized so concurrent callers
// cannot interleave a transcript.
type Session struct {
	userID string
	llm    llmclient.Client
	logs   ChatLog
	logger *log.Logger

	mu      sync.Mutex
	history []llmclient.Turn
}

// OpenSession rehydrates the user's transcript. A fresh account gets the
// greeting as its first model turn.
func OpenSession(userID string, llm llmclient.Client, logs ChatLog, logger *log.Logger) (*Session, error) {
	s := &Session{userID: userID, llm: llm, logs: logs, logger: logger}

	stored, err := logs.History(userID, chatstore.DefaultHistoryLimit)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		greeting := chatstore.Message{Role: "model", Text: Greeting}
		if err := logs.Append(userID, greeting); err != nil {
			return nil, err
		}
		stored = []chatstore.Message{greeting}
	}
	for _, m := range stored {
		s.history = append(s.history, llmclient.Turn{Role: m.Role, Text: m.Text})
	}
	return s, nil
}

// Send submits a user message and returns the coach's reply. The user turn is
// persisted before generation so a failed reply never loses it.
func (s *Session) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.logs.Append(s.userID, chatstore.Message{Role: "user", Text: message}); err != nil {
		return "", err
	}

	reply, err := s.llm.Chat(ctx, chatSystemInstruction, s.history, message)
	if err != nil || strings.TrimSpace(reply) == "" {
		if s.logger != nil {
			s.logger.Printf("coach: chat reply fallback for %s: %v", s.userID, err)
		}
		reply = unavailableReply
	}

	s.history = append(s.history,
		llmclient.Turn{Role: "user", Text: message},
		llmclient.Turn{Role: "model", Text: reply})

	if err := s.logs.Append(s.userID, chatstore.Message{Role: "model", Text: reply}); err != nil {
		return "", err
	}
	return reply, nil
}

// History returns the in-memory transcript, greeting included.
func (s *Session) History() []llmclient.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llmclient.Turn(nil), s.history...)
}
