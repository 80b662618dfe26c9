package billing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"phone8ez/domain/account"
	"phone8ez/domain/core"
	"phone8ez/internal"
	"phone8ez/internal/identity"
)

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Get(ctx context.Context, email core.Email) (*account.Subscription, error) {
	args := m.Called(ctx, email)
	if s, ok := args.Get(0).(*account.Subscription); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriptionRepository) Upsert(ctx context.Context, sub *account.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

var now = time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)

func newService(repo *MockSubscriptionRepository) *Service {
	s := NewService(repo, internal.NewNopLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestStatusWithoutSubscription(t *testing.T) {
	repo := new(MockSubscriptionRepository)
	repo.On("Get", mock.Anything, core.Email("a@example.com")).Return(nil, core.ErrNotFound)

	status, err := newService(repo).Status(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.Nil(t, status.Subscription)
}

func TestActivateNewSubscription(t *testing.T) {
	repo := new(MockSubscriptionRepository)
	repo.On("Get", mock.Anything, core.Email("a@example.com")).Return(nil, core.ErrNotFound)
	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(s *account.Subscription) bool {
		return s.Plan == "monthly" && s.CurrentPeriodEnd.Equal(now.Add(30*24*time.Hour))
	})).Return(nil)

	sub, err := newService(repo).Activate(context.Background(), "a@example.com", " monthly ", 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, account.SubscriptionActive, sub.Status)
	repo.AssertExpectations(t)
}

func TestActivateExtendsRunningPeriod(t *testing.T) {
	end := now.Add(10 * 24 * time.Hour)
	repo := new(MockSubscriptionRepository)
	repo.On("Get", mock.Anything, core.Email("a@example.com")).Return(&account.Subscription{
		UserEmail: "a@example.com", Plan: "monthly", Status: account.SubscriptionActive, CurrentPeriodEnd: end,
	}, nil)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	sub, err := newService(repo).Activate(context.Background(), "a@example.com", "monthly", 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, end.Add(30*24*time.Hour), sub.CurrentPeriodEnd)
}

func TestActivateValidation(t *testing.T) {
	s := newService(new(MockSubscriptionRepository))

	_, err := s.Activate(context.Background(), "a@example.com", " ", time.Hour)
	assert.True(t, core.IsValidationError(err))
	_, err = s.Activate(context.Background(), "a@example.com", "monthly", 0)
	assert.True(t, core.IsValidationError(err))
}

func TestCancelKeepsPaidPeriod(t *testing.T) {
	repo := new(MockSubscriptionRepository)
	repo.On("Get", mock.Anything, core.Email("a@example.com")).Return(&account.Subscription{
		UserEmail: "a@example.com", Status: account.SubscriptionActive, CurrentPeriodEnd: now.Add(time.Hour),
	}, nil).Once()
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	s := newService(repo)
	sub, err := s.Cancel(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.SubscriptionCanceled, sub.Status)
	assert.True(t, sub.IsActive(now))

	repo.On("Get", mock.Anything, core.Email("a@example.com")).Return(sub, nil)
	_, err = s.Cancel(context.Background(), "a@example.com")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestRequireSubscription(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := new(MockSubscriptionRepository)
	repo.On("Get", mock.Anything, core.Email("paid@example.com")).Return(&account.Subscription{
		Status: account.SubscriptionActive, CurrentPeriodEnd: now.Add(time.Hour),
	}, nil)
	repo.On("Get", mock.Anything, core.Email("free@example.com")).Return(nil, core.ErrNotFound)
	repo.On("Get", mock.Anything, core.Email("broken@example.com")).Return(nil, errors.New("timeout"))
	s := newService(repo)

	tests := []struct {
		name      string
		principal *account.Principal
		enabled   bool
		want      int
	}{
		{"disabled", nil, false, http.StatusOK},
		{"anonymous", nil, true, http.StatusUnauthorized},
		{"paid", &account.Principal{Email: "paid@example.com"}, true, http.StatusOK},
		{"free", &account.Principal{Email: "free@example.com"}, true, http.StatusPaymentRequired},
		{"lookup failure", &account.Principal{Email: "broken@example.com"}, true, http.StatusInternalServerError},
		{"admin", &account.Principal{Email: "free@example.com", Role: account.RoleAdmin}, true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) {
				if tt.principal != nil {
					identity.WithPrincipal(c, *tt.principal)
				}
				c.Next()
			}, RequireSubscription(s, tt.enabled), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
