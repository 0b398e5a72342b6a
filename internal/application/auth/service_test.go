package auth

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/campusmatch/api/internal/domain"
	"github.com/campusmatch/api/internal/logging"
)

// --- mocks ---

type mockOTPStore struct{ mock.Mock }

func (m *mockOTPStore) Replace(ctx context.Context, c *domain.OneTimeCode) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockOTPStore) Latest(ctx context.Context, email string) (*domain.OneTimeCode, error) {
	args := m.Called(ctx, email)
	if c, _ := args.Get(0).(*domain.OneTimeCode); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOTPStore) Consume(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

// --- builder ---

func newService(os *mockOTPStore, us *mockUserStore, ml *mockMailer, allowedDomain string) Service {
	return NewService(os, us, ml, 5*time.Minute, allowedDomain, logging.Discard())
}

// --- IssueCode ---

func TestIssueCode_EmptyEmail(t *testing.T) {
	svc := newService(nil, nil, nil, "")
	_, err := svc.IssueCode(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestIssueCode_DomainPolicyRejected(t *testing.T) {
	svc := newService(nil, nil, nil, "x.edu")
	_, err := svc.IssueCode(context.Background(), "someone@gmail.com")
	require.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestIssueCode_DomainPolicyAccepted(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.edu").Return(nil, domain.ErrNotFound)
	os.On("Replace", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", "a@x.edu", mock.Anything, mock.Anything).Return(nil)

	svc := newService(os, us, ml, "x.edu")
	res, err := svc.IssueCode(context.Background(), "a@x.edu")
	require.NoError(t, err)
	assert.True(t, res.IsNewUser)
	require.NoError(t, <-res.Delivery)
	ml.AssertExpectations(t)
}

func TestIssueCode_CodeIsSixDigitsInRange(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	os.On("Replace", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc := newService(os, us, ml, "")

	for i := 0; i < 50; i++ {
		res, err := svc.IssueCode(context.Background(), "a@x.edu")
		require.NoError(t, err)
		require.Len(t, res.Code, 6)
		n, err := strconv.Atoi(res.Code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
		<-res.Delivery
	}
}

func TestIssueCode_ReplacesPriorCode(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.edu").Return(&domain.User{UserID: "u1", Email: "a@x.edu"}, nil)
	var stored []*domain.OneTimeCode
	os.On("Replace", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = append(stored, args.Get(1).(*domain.OneTimeCode))
	}).Return(nil)
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc := newService(os, us, ml, "")

	first, err := svc.IssueCode(context.Background(), "a@x.edu")
	require.NoError(t, err)
	assert.False(t, first.IsNewUser)
	<-first.Delivery
	second, err := svc.IssueCode(context.Background(), "a@x.edu")
	require.NoError(t, err)
	<-second.Delivery

	// Replace is called per issue; the repo guarantees prior rows are gone.
	require.Len(t, stored, 2)
	assert.NotEqual(t, stored[0].Code, stored[1].Code)
	assert.True(t, stored[1].ExpiresAt.Sub(stored[1].IssuedAt) == 5*time.Minute)
}

func TestIssueCode_DeliveryFailureDoesNotFailRequest(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	ml := &mockMailer{}
	us.On("GetByEmail", mock.Anything, "a@x.edu").Return(nil, domain.ErrNotFound)
	os.On("Replace", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	svc := newService(os, us, ml, "")

	res, err := svc.IssueCode(context.Background(), "a@x.edu")
	require.NoError(t, err)
	require.Error(t, <-res.Delivery)
}

func TestIssueCode_StoreFailure(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@x.edu").Return(nil, domain.ErrNotFound)
	os.On("Replace", mock.Anything, mock.Anything).Return(errors.New("db down"))
	svc := newService(os, us, nil, "")

	_, err := svc.IssueCode(context.Background(), "a@x.edu")
	require.Error(t, err)
}

// --- VerifyCode ---

func liveCode(email, code string) *domain.OneTimeCode {
	now := time.Now().UTC()
	return &domain.OneTimeCode{Email: email, Code: code, IssuedAt: now, ExpiresAt: now.Add(5 * time.Minute)}
}

func TestVerifyCode_NoCodeIssued(t *testing.T) {
	os := &mockOTPStore{}
	os.On("Latest", mock.Anything, "a@x.edu").Return(nil, domain.ErrNotFound)
	svc := newService(os, nil, nil, "")

	_, err := svc.VerifyCode(context.Background(), "a@x.edu", "123456")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyCode_Expired(t *testing.T) {
	os := &mockOTPStore{}
	expired := liveCode("a@x.edu", "123456")
	expired.ExpiresAt = time.Now().UTC().Add(-time.Second)
	os.On("Latest", mock.Anything, "a@x.edu").Return(expired, nil)
	svc := newService(os, nil, nil, "")

	// Even the correct code is unverifiable past expiry.
	_, err := svc.VerifyCode(context.Background(), "a@x.edu", "123456")
	require.ErrorIs(t, err, domain.ErrCodeExpired)
}

func TestVerifyCode_Mismatch(t *testing.T) {
	os := &mockOTPStore{}
	os.On("Latest", mock.Anything, "a@x.edu").Return(liveCode("a@x.edu", "123456"), nil)
	svc := newService(os, nil, nil, "")

	_, err := svc.VerifyCode(context.Background(), "a@x.edu", "123456 ")
	require.ErrorIs(t, err, domain.ErrCodeMismatch)
	os.AssertNotCalled(t, "Consume", mock.Anything, mock.Anything)
}

func TestVerifyCode_SuccessConsumesCode(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	os.On("Latest", mock.Anything, "a@x.edu").Return(liveCode("a@x.edu", "123456"), nil)
	os.On("Consume", mock.Anything, "a@x.edu").Return(nil)
	us.On("GetByEmail", mock.Anything, "a@x.edu").Return(&domain.User{UserID: "u1", Email: "a@x.edu"}, nil)
	svc := newService(os, us, nil, "")

	res, err := svc.VerifyCode(context.Background(), "a@x.edu", "123456")
	require.NoError(t, err)
	assert.False(t, res.IsNewUser)
	require.NotNil(t, res.User)
	os.AssertCalled(t, "Consume", mock.Anything, "a@x.edu")
}

func TestVerifyCode_SecondUseFails(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	code := liveCode("a@x.edu", "123456")
	os.On("Latest", mock.Anything, "a@x.edu").Return(code, nil).Once()
	os.On("Consume", mock.Anything, "a@x.edu").Return(nil).Once()
	us.On("GetByEmail", mock.Anything, "a@x.edu").Return(nil, domain.ErrNotFound)
	// After consumption the store has nothing left for the email.
	os.On("Latest", mock.Anything, "a@x.edu").Return(nil, domain.ErrNotFound)
	svc := newService(os, us, nil, "")

	first, err := svc.VerifyCode(context.Background(), "a@x.edu", "123456")
	require.NoError(t, err)
	assert.True(t, first.IsNewUser)

	_, err = svc.VerifyCode(context.Background(), "a@x.edu", "123456")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
