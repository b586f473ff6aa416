package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockValidator
type MockValidator struct {
	mock.Mock
}

func (m *MockValidator) Validate(ctx context.Context, url string) bool {
	args := m.Called(ctx, url)
	return args.Bool(0)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) LinkExpired(ctx context.Context, url string, daysLeft int) bool {
	args := m.Called(ctx, url, daysLeft)
	return args.Bool(0)
}

func (m *MockNotifier) LinkInvalid(ctx context.Context, url string) bool {
	args := m.Called(ctx, url)
	return args.Bool(0)
}

func (m *MockNotifier) LinkUpdated(ctx context.Context, oldURL, newURL string) bool {
	args := m.Called(ctx, oldURL, newURL)
	return args.Bool(0)
}
