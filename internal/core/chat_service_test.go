package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"brandpilot.io/marketing-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistoryStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSendMessageCompletesAndLogs(t *testing.T) {
	history := newTestHistoryStore(t)
	gw := &stubGateway{response: "hello back"}
	svc := NewChatService(history, gw)

	record, err := svc.SendMessage(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", record.UserMsg)
	assert.Equal(t, "hello back", record.AIResponse)
	assert.NotEmpty(t, record.ID)

	// The exchange must already be durable when the call returns.
	records, _, err := svc.History(10, "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
}

func TestSendMessageMissingField(t *testing.T) {
	history := newTestHistoryStore(t)
	gw := &stubGateway{response: "unused"}
	svc := NewChatService(history, gw)

	_, err := svc.SendMessage(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, 0, gw.calls)
}

func TestSendMessageUpstreamFailureDoesNotPersist(t *testing.T) {
	history := newTestHistoryStore(t)
	gw := &stubGateway{err: errors.New("network down")}
	svc := NewChatService(history, gw)

	_, err := svc.SendMessage(context.Background(), "hello")
	require.Error(t, err)

	records, _, err := svc.History(10, "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

type failingHistoryStore struct{}

func (failingHistoryStore) SaveChat(userMessage, aiResponse string) (*store.ChatRecord, error) {
	return nil, errors.New("disk full")
}

func (failingHistoryStore) ListChat(limit int, cursor string) ([]store.ChatRecord, string, error) {
	return nil, "", errors.New("disk full")
}

func (failingHistoryStore) Close() error { return nil }

func TestSendMessageStorageFailureFailsCall(t *testing.T) {
	gw := &stubGateway{response: "hello back"}
	svc := NewChatService(failingHistoryStore{}, gw)

	_, err := svc.SendMessage(context.Background(), "hello")
	assert.Error(t, err)
	assert.Equal(t, 1, gw.calls)
}

type limitCapturingStore struct {
	failingHistoryStore
	gotLimit int
}

func (s *limitCapturingStore) ListChat(limit int, cursor string) ([]store.ChatRecord, string, error) {
	s.gotLimit = limit
	return nil, "", nil
}

func TestHistoryClampsLimit(t *testing.T) {
	capture := &limitCapturingStore{}
	svc := NewChatService(capture, &stubGateway{})

	_, _, err := svc.History(0, "")
	require.NoError(t, err)
	assert.Equal(t, defaultHistoryLimit, capture.gotLimit)

	_, _, err = svc.History(10000, "")
	require.NoError(t, err)
	assert.Equal(t, maxHistoryLimit, capture.gotLimit)
}

func TestSaveChatPassthrough(t *testing.T) {
	history := newTestHistoryStore(t)
	svc := NewChatService(history, &stubGateway{})

	first, err := svc.SaveChat("q", "a")
	require.NoError(t, err)
	second, err := svc.SaveChat("q", "a")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}
