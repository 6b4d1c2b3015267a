package service

import (
	"context"
	"io"

	"github.com/knowlab/knowlab-cli/internal/api"
	"github.com/knowlab/knowlab-cli/internal/domain"
)

// Backend is the document-facing surface of the API client consumed by the
// services. Narrowed to an interface so tests can mock the backend.
type Backend interface {
	Upload(ctx context.Context, name string, r io.Reader) (int64, error)
	Summarize(ctx context.Context, fileIDs []int64) (*api.SummarizeResponse, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)
	Ask(ctx context.Context, sessionID, query string) (string, error)
	Audio(ctx context.Context, sessionID, language string) (*api.AudioResponse, error)
}

// AuthBackend is the authentication surface of the API client.
type AuthBackend interface {
	Signup(ctx context.Context, input api.SignupInput) error
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	GoogleLogin(ctx context.Context, credential string) (*api.LoginResponse, error)
	GoogleSignup(ctx context.Context, credential string) (*api.LoginResponse, error)
	VerifyOTP(ctx context.Context, email, code string) (*api.LoginResponse, error)
	ResendOTP(ctx context.Context, email string) error
	Logout(ctx context.Context) error
}

// Broadcaster is the slice of the bus the directory publishes on.
type Broadcaster interface {
	PublishSessionAdded(s domain.Session) error
}
