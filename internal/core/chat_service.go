package core

import (
	"context"
	"fmt"

	"brandpilot.io/marketing-backend/internal/store"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// ChatService persists chat exchanges and serves the chat widget.
type ChatService struct {
	history store.ChatHistoryStore
	gateway CompletionGateway
}

func NewChatService(history store.ChatHistoryStore, gateway CompletionGateway) *ChatService {
	return &ChatService{
		history: history,
		gateway: gateway,
	}
}

// SaveChat appends an already-completed exchange. Kept for clients that do
// their own completion call first; no validation, no deduplication.
func (s *ChatService) SaveChat(userMessage, aiResponse string) (*store.ChatRecord, error) {
	record, err := s.history.SaveChat(userMessage, aiResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to store chat record: %w", err)
	}
	return record, nil
}

// SendMessage is the atomic complete-and-log operation: it fetches the AI
// reply and persists the exchange in one call. A storage failure fails the
// whole call, so a caller never sees a reply that was not persisted.
func (s *ChatService) SendMessage(ctx context.Context, message string) (*store.ChatRecord, error) {
	if message == "" {
		return nil, ErrMissingField
	}

	reply, err := s.gateway.Complete(ctx, message)
	if err != nil {
		return nil, err
	}

	record, err := s.history.SaveChat(message, reply)
	if err != nil {
		return nil, fmt.Errorf("failed to store chat record: %w", err)
	}
	return record, nil
}

// History lists stored exchanges newest first. limit is clamped to a sane
// range; cursor comes from a previous page's next_cursor.
func (s *ChatService) History(limit int, cursor string) ([]store.ChatRecord, string, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.history.ListChat(limit, cursor)
}
