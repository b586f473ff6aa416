package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invite-redirector/internal/config"
	"invite-redirector/internal/domain"
	"invite-redirector/internal/service"
)

type MockInviteService struct {
	mock.Mock
}

func (m *MockInviteService) Load(ctx context.Context) *domain.InvitationRecord {
	return m.Called(ctx).Get(0).(*domain.InvitationRecord)
}

func (m *MockInviteService) Current(ctx context.Context) (*domain.InvitationRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).(*domain.InvitationRecord), args.Error(1)
}

func (m *MockInviteService) Reconcile(ctx context.Context) *service.ReconcileResult {
	return m.Called(ctx).Get(0).(*service.ReconcileResult)
}

func (m *MockInviteService) Replace(ctx context.Context, newURL string) (*domain.InvitationRecord, error) {
	args := m.Called(ctx, newURL)
	return args.Get(0).(*domain.InvitationRecord), args.Error(1)
}

func (m *MockInviteService) ValidateStored(ctx context.Context) (*domain.ValidationResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(*domain.ValidationResult), args.Error(1)
}

func (m *MockInviteService) Check(ctx context.Context) *domain.CheckResult {
	return m.Called(ctx).Get(0).(*domain.CheckResult)
}

func TestCheckInvite(t *testing.T) {
	svc := new(MockInviteService)
	want := &domain.CheckResult{
		Checked:   true,
		DaysLeft:  0,
		Action:    domain.CheckActionDeactivatedExpired,
		Timestamp: time.Now(),
	}
	svc.On("Check", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return(want).Once()

	jr := NewJobRunner(svc, &config.Config{})
	got := jr.CheckInvite()

	require.NotNil(t, got)
	assert.Equal(t, domain.CheckActionDeactivatedExpired, got.Action)
	svc.AssertExpectations(t)
}

func TestCheckInvite_RecoversFromPanic(t *testing.T) {
	svc := new(MockInviteService)
	svc.On("Check", mock.Anything).Run(func(mock.Arguments) {
		panic("store exploded")
	}).Return((*domain.CheckResult)(nil))

	jr := NewJobRunner(svc, &config.Config{})

	assert.NotPanics(t, func() {
		assert.Nil(t, jr.CheckInvite())
	})
}
