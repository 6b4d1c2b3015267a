package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/knowlab/knowlab-cli/internal/api"
	"github.com/knowlab/knowlab-cli/internal/domain"
)

// MockBackend mocks the Backend interface
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Upload(ctx context.Context, name string, r io.Reader) (int64, error) {
	args := m.Called(ctx, name, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBackend) Summarize(ctx context.Context, fileIDs []int64) (*api.SummarizeResponse, error) {
	args := m.Called(ctx, fileIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.SummarizeResponse), args.Error(1)
}

func (m *MockBackend) ListSessions(ctx context.Context) ([]domain.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockBackend) Ask(ctx context.Context, sessionID, query string) (string, error) {
	args := m.Called(ctx, sessionID, query)
	return args.String(0), args.Error(1)
}

func (m *MockBackend) Audio(ctx context.Context, sessionID, language string) (*api.AudioResponse, error) {
	args := m.Called(ctx, sessionID, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AudioResponse), args.Error(1)
}

// MockAuthBackend mocks the AuthBackend interface
type MockAuthBackend struct {
	mock.Mock
}

func (m *MockAuthBackend) Signup(ctx context.Context, input api.SignupInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockAuthBackend) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.LoginResponse), args.Error(1)
}

func (m *MockAuthBackend) GoogleLogin(ctx context.Context, credential string) (*api.LoginResponse, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.LoginResponse), args.Error(1)
}

func (m *MockAuthBackend) GoogleSignup(ctx context.Context, credential string) (*api.LoginResponse, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.LoginResponse), args.Error(1)
}

func (m *MockAuthBackend) VerifyOTP(ctx context.Context, email, code string) (*api.LoginResponse, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.LoginResponse), args.Error(1)
}

func (m *MockAuthBackend) ResendOTP(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthBackend) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockNotifier mocks the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Success(message string) {
	m.Called(message)
}

func (m *MockNotifier) Failure(message string) {
	m.Called(message)
}

func (m *MockNotifier) AuthRequired() {
	m.Called()
}

// MockBroadcaster mocks the Broadcaster interface
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) PublishSessionAdded(s domain.Session) error {
	args := m.Called(s)
	return args.Error(0)
}
