package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusmatch/api/internal/domain"
	"github.com/campusmatch/api/internal/logging"
)

type mockChatSvc struct{ mock.Mock }

func (m *mockChatSvc) Save(ctx context.Context, senderID, receiverID, body string) (*domain.ChatMessage, error) {
	args := m.Called(ctx, senderID, receiverID, body)
	if msg, _ := args.Get(0).(*domain.ChatMessage); msg != nil {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockChatSvc) History(ctx context.Context, userA, userB string) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, userA, userB)
	out, _ := args.Get(0).([]domain.ChatMessage)
	return out, args.Error(1)
}

func TestHistory_ReturnsOrderedMessages(t *testing.T) {
	t1 := time.Now().UTC().Add(-2 * time.Minute)
	svc := &mockChatSvc{}
	svc.On("History", mock.Anything, "u1", "u2").Return([]domain.ChatMessage{
		{MessageID: "m1", SenderID: "u1", ReceiverID: "u2", Body: "hi", CreatedAt: t1},
		{MessageID: "m2", SenderID: "u2", ReceiverID: "u1", Body: "hey", CreatedAt: t1.Add(time.Minute)},
	}, nil)

	h := NewChatHandler(svc, logging.Discard())
	r := chi.NewRouter()
	r.Get("/chat/history/{userId}/{otherUserId}", h.History)

	req := httptest.NewRequest(http.MethodGet, "/chat/history/u1/u2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []domain.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].MessageID)
	assert.Equal(t, "m2", msgs[1].MessageID)
}

func TestHistory_StoreFailureIs500(t *testing.T) {
	svc := &mockChatSvc{}
	svc.On("History", mock.Anything, "u1", "u2").Return(nil, context.DeadlineExceeded)

	h := NewChatHandler(svc, logging.Discard())
	r := chi.NewRouter()
	r.Get("/chat/history/{userId}/{otherUserId}", h.History)

	req := httptest.NewRequest(http.MethodGet, "/chat/history/u1/u2", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
