package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusmatch/api/internal/domain"
	"github.com/campusmatch/api/internal/logging"
)

type mockMatchSvc struct{ mock.Mock }

func (m *mockMatchSvc) Suggestions(ctx context.Context, userID, gender string) ([]domain.User, error) {
	args := m.Called(ctx, userID, gender)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}
func (m *mockMatchSvc) Approach(ctx context.Context, fromUserID, toUserID, requestLine string) (*domain.Approach, error) {
	args := m.Called(ctx, fromUserID, toUserID, requestLine)
	if a, _ := args.Get(0).(*domain.Approach); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockMatchSvc) Received(ctx context.Context, userID string) ([]domain.Approach, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]domain.Approach)
	return out, args.Error(1)
}

func newMatchRouter(svc *mockMatchSvc) http.Handler {
	h := NewMatchHandler(svc, logging.Discard())
	r := chi.NewRouter()
	r.Get("/match/suggestions", h.Suggestions)
	r.Post("/match/approach", h.Approach)
	return r
}

func TestSuggestions_EmptyResultIsEmptyArray(t *testing.T) {
	svc := &mockMatchSvc{}
	svc.On("Suggestions", mock.Anything, "u1", "").Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/match/suggestions?userId=u1", nil)
	rec := httptest.NewRecorder()
	newMatchRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env UsersEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.NotNil(t, env.Users)
	assert.Empty(t, env.Users)
}

func TestApproach_InsufficientCoinsIs400(t *testing.T) {
	svc := &mockMatchSvc{}
	svc.On("Approach", mock.Anything, "u1", "u2", "hi").Return(nil, domain.ErrInsufficientCoins)

	rec := postJSON(t, newMatchRouter(svc), "/match/approach",
		map[string]string{"fromUserId": "u1", "toUserId": "u2", "requestLine": "hi"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not enough coins")
}

func TestApproach_Success(t *testing.T) {
	svc := &mockMatchSvc{}
	svc.On("Approach", mock.Anything, "u1", "u2", "coffee?").
		Return(&domain.Approach{ApproachID: "01A"}, nil)

	rec := postJSON(t, newMatchRouter(svc), "/match/approach",
		map[string]string{"fromUserId": "u1", "toUserId": "u2", "requestLine": "coffee?"})

	require.Equal(t, http.StatusOK, rec.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
}
