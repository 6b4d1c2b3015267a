package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/knowlab/knowlab-cli/internal/api"
	"github.com/knowlab/knowlab-cli/internal/domain"
	"github.com/knowlab/knowlab-cli/internal/store"
)

var validate = validator.New()

// googleFallbackName is shown when the backend returns no display name.
const googleFallbackName = "Google User"

// SignupInput is the validated account creation form.
type SignupInput struct {
	FullName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// Auth manages the stored credential and display name and wraps the
// backend's authentication endpoints.
type Auth struct {
	backend AuthBackend
	store   store.Store
}

// NewAuth creates the authentication service.
func NewAuth(backend AuthBackend, s store.Store) *Auth {
	return &Auth{backend: backend, store: s}
}

// Token returns the stored credential, or "" when signed out. Implements
// api.TokenSource.
func (a *Auth) Token() string {
	token, _, err := a.store.Get(store.KeyToken)
	if err != nil {
		log.Error().Err(err).Msg("failed to read token")
		return ""
	}
	return token
}

// Username returns the stored display name.
func (a *Auth) Username() string {
	name, _, err := a.store.Get(store.KeyUsername)
	if err != nil {
		log.Error().Err(err).Msg("failed to read username")
		return ""
	}
	return name
}

// Signup validates the form locally, then registers the account. The
// backend emails a one-time password; the account is inactive until
// VerifyOTP succeeds.
func (a *Auth) Signup(ctx context.Context, input SignupInput) error {
	if err := validate.Struct(input); err != nil {
		return domain.NewValidationError(signupValidationMessage(err))
	}
	return a.backend.Signup(ctx, api.SignupInput{
		FullName:        input.FullName,
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
}

// VerifyOTP confirms the emailed code and, on the backend's auto-login,
// persists the issued credential.
func (a *Auth) VerifyOTP(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return domain.NewValidationError("email and code are required")
	}
	verified, err := a.backend.VerifyOTP(ctx, email, code)
	if err != nil {
		return err
	}
	if verified.Token != "" {
		return a.persist(verified)
	}
	return nil
}

// ResendOTP requests a fresh code for an unverified account.
func (a *Auth) ResendOTP(ctx context.Context, email string) error {
	if email == "" {
		return domain.NewValidationError("email is required")
	}
	return a.backend.ResendOTP(ctx, email)
}

// Login signs in with email and password and persists the credential.
func (a *Auth) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return domain.NewValidationError("email and password are required")
	}
	loggedIn, err := a.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return a.persist(loggedIn)
}

// GoogleLogin signs in with a Google ID token.
func (a *Auth) GoogleLogin(ctx context.Context, credential string) error {
	if credential == "" {
		return domain.NewValidationError("credential is required")
	}
	loggedIn, err := a.backend.GoogleLogin(ctx, credential)
	if err != nil {
		return err
	}
	return a.persist(loggedIn)
}

// GoogleSignup creates an account from a Google ID token and signs in.
func (a *Auth) GoogleSignup(ctx context.Context, credential string) error {
	if credential == "" {
		return domain.NewValidationError("credential is required")
	}
	signedUp, err := a.backend.GoogleSignup(ctx, credential)
	if err != nil {
		return err
	}
	return a.persist(signedUp)
}

// Logout invalidates the server-side token best-effort, then always
// clears the local credential and display name.
func (a *Auth) Logout(ctx context.Context) error {
	if a.Token() != "" {
		if err := a.backend.Logout(ctx); err != nil {
			log.Warn().Err(err).Msg("backend logout failed, clearing local state anyway")
		}
	}
	if err := a.store.Remove(store.KeyToken); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	if err := a.store.Remove(store.KeyUsername); err != nil {
		return fmt.Errorf("failed to clear username: %w", err)
	}
	return nil
}

func (a *Auth) persist(loggedIn *api.LoginResponse) error {
	if err := a.store.Set(store.KeyToken, loggedIn.Token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	name := loggedIn.Username
	if name == "" {
		name = googleFallbackName
	}
	if err := a.store.Set(store.KeyUsername, name); err != nil {
		return fmt.Errorf("failed to persist username: %w", err)
	}
	return nil
}

func signupValidationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return "invalid signup details"
	}
	fe := fieldErrors[0]
	switch {
	case fe.Field() == "ConfirmPassword":
		return "passwords do not match"
	case fe.Tag() == "email":
		return "email address is invalid"
	case fe.Tag() == "min":
		return "password must be at least 8 characters"
	default:
		return fmt.Sprintf("%s is required", fe.Field())
	}
}
