package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/knowlab/knowlab-cli/internal/api"
	"github.com/knowlab/knowlab-cli/internal/domain"
	"github.com/knowlab/knowlab-cli/internal/store"
)

func validSignup() SignupInput {
	return SignupInput{
		FullName:        "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "s3cret-password",
		ConfirmPassword: "s3cret-password",
	}
}

func TestAuth_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("valid form reaches the backend", func(t *testing.T) {
		mockBackend := new(MockAuthBackend)
		mockBackend.On("Signup", ctx, mock.AnythingOfType("api.SignupInput")).Return(nil)

		a := NewAuth(mockBackend, store.NewMemoryStore())
		assert.NoError(t, a.Signup(ctx, validSignup()))
		mockBackend.AssertExpectations(t)
	})

	t.Run("validation failures stay local", func(t *testing.T) {
		cases := []struct {
			name    string
			mutate  func(*SignupInput)
			message string
		}{
			{"missing name", func(in *SignupInput) { in.FullName = "" }, "FullName is required"},
			{"bad email", func(in *SignupInput) { in.Email = "not-an-email" }, "email address is invalid"},
			{"short password", func(in *SignupInput) {
				in.Password = "short"
				in.ConfirmPassword = "short"
			}, "password must be at least 8 characters"},
			{"mismatch", func(in *SignupInput) { in.ConfirmPassword = "different-password" }, "passwords do not match"},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				mockBackend := new(MockAuthBackend)
				a := NewAuth(mockBackend, store.NewMemoryStore())

				input := validSignup()
				tc.mutate(&input)

				err := a.Signup(ctx, input)
				assert.True(t, domain.IsValidation(err))
				assert.Equal(t, tc.message, domain.UserMessage(err, ""))
				mockBackend.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
			})
		}
	})
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("persists token and username", func(t *testing.T) {
		mockBackend := new(MockAuthBackend)
		mockBackend.On("Login", ctx, "ada@example.com", "pw").Return(&api.LoginResponse{
			Token:    "tok-1",
			Username: "Ada",
		}, nil)

		st := store.NewMemoryStore()
		a := NewAuth(mockBackend, st)

		assert.NoError(t, a.Login(ctx, "ada@example.com", "pw"))
		assert.Equal(t, "tok-1", a.Token())
		assert.Equal(t, "Ada", a.Username())
		mockBackend.AssertExpectations(t)
	})

	t.Run("backend rejection persists nothing", func(t *testing.T) {
		mockBackend := new(MockAuthBackend)
		mockBackend.On("Login", ctx, "ada@example.com", "wrong").
			Return(nil, domain.NewUnauthorizedError("Invalid credentials"))

		a := NewAuth(mockBackend, store.NewMemoryStore())
		err := a.Login(ctx, "ada@example.com", "wrong")
		assert.True(t, domain.IsUnauthorized(err))
		assert.Empty(t, a.Token())
	})

	t.Run("empty fields are rejected locally", func(t *testing.T) {
		a := NewAuth(new(MockAuthBackend), store.NewMemoryStore())
		assert.True(t, domain.IsValidation(a.Login(ctx, "", "pw")))
		assert.True(t, domain.IsValidation(a.Login(ctx, "a@b.c", "")))
	})
}

func TestAuth_GoogleLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("fills in the fallback display name", func(t *testing.T) {
		mockBackend := new(MockAuthBackend)
		mockBackend.On("GoogleLogin", ctx, "cred").Return(&api.LoginResponse{Token: "tok-2"}, nil)

		a := NewAuth(mockBackend, store.NewMemoryStore())
		assert.NoError(t, a.GoogleLogin(ctx, "cred"))
		assert.Equal(t, "Google User", a.Username())
	})

	t.Run("missing credential is rejected locally", func(t *testing.T) {
		a := NewAuth(new(MockAuthBackend), store.NewMemoryStore())
		assert.True(t, domain.IsValidation(a.GoogleLogin(ctx, "")))
	})
}

func TestAuth_VerifyOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("auto-login persists the issued token", func(t *testing.T) {
		mockBackend := new(MockAuthBackend)
		mockBackend.On("VerifyOTP", ctx, "ada@example.com", "123456").Return(&api.LoginResponse{
			Token:    "tok-3",
			Username: "Ada",
		}, nil)

		a := NewAuth(mockBackend, store.NewMemoryStore())
		assert.NoError(t, a.VerifyOTP(ctx, "ada@example.com", "123456"))
		assert.Equal(t, "tok-3", a.Token())
	})

	t.Run("verification without auto-login leaves the store alone", func(t *testing.T) {
		mockBackend := new(MockAuthBackend)
		mockBackend.On("VerifyOTP", ctx, "ada@example.com", "123456").Return(&api.LoginResponse{}, nil)

		a := NewAuth(mockBackend, store.NewMemoryStore())
		assert.NoError(t, a.VerifyOTP(ctx, "ada@example.com", "123456"))
		assert.Empty(t, a.Token())
	})
}

func TestAuth_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("clears local state even when the backend fails", func(t *testing.T) {
		mockBackend := new(MockAuthBackend)
		mockBackend.On("Logout", ctx).Return(errors.New("gateway timeout"))

		st := store.NewMemoryStore()
		assert.NoError(t, st.Set(store.KeyToken, "tok"))
		assert.NoError(t, st.Set(store.KeyUsername, "Ada"))

		a := NewAuth(mockBackend, st)
		assert.NoError(t, a.Logout(ctx))
		assert.Empty(t, a.Token())
		assert.Empty(t, a.Username())
		mockBackend.AssertExpectations(t)
	})

	t.Run("signed out skips the backend", func(t *testing.T) {
		mockBackend := new(MockAuthBackend)
		a := NewAuth(mockBackend, store.NewMemoryStore())
		assert.NoError(t, a.Logout(ctx))
		mockBackend.AssertNotCalled(t, "Logout", mock.Anything)
	})
}
