package api

import (
	"context"
)

// SignupInput is the account creation payload.
type SignupInput struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginResponse carries the issued credential and display name.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Signup registers a new account. The backend responds by emailing a
// one-time password; the account stays inactive until VerifyOTP.
func (c *Client) Signup(ctx context.Context, input SignupInput) error {
	req, err := c.newJSONRequest(ctx, "auth/signup/", input, false)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Login exchanges credentials for a token and display name.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	payload := map[string]string{"email": email, "password": password}
	req, err := c.newJSONRequest(ctx, "auth/login/", payload, false)
	if err != nil {
		return nil, err
	}

	var loggedIn LoginResponse
	if err := c.do(req, &loggedIn); err != nil {
		return nil, err
	}
	return &loggedIn, nil
}

// GoogleLogin signs in with a Google ID token.
func (c *Client) GoogleLogin(ctx context.Context, credential string) (*LoginResponse, error) {
	return c.googleAuth(ctx, "auth/google-login/", credential)
}

// GoogleSignup creates an account from a Google ID token.
func (c *Client) GoogleSignup(ctx context.Context, credential string) (*LoginResponse, error) {
	return c.googleAuth(ctx, "auth/signup/google-login/", credential)
}

func (c *Client) googleAuth(ctx context.Context, path, credential string) (*LoginResponse, error) {
	req, err := c.newJSONRequest(ctx, path, map[string]string{"credential": credential}, false)
	if err != nil {
		return nil, err
	}

	var loggedIn LoginResponse
	if err := c.do(req, &loggedIn); err != nil {
		return nil, err
	}
	return &loggedIn, nil
}

// VerifyOTP confirms the emailed code. On success the backend activates
// the account and auto-logs-in, returning a token.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*LoginResponse, error) {
	payload := map[string]string{"email": email, "code": code}
	req, err := c.newJSONRequest(ctx, "auth/verify-otp/", payload, false)
	if err != nil {
		return nil, err
	}

	var verified LoginResponse
	if err := c.do(req, &verified); err != nil {
		return nil, err
	}
	return &verified, nil
}

// ResendOTP requests a fresh code for an unverified account.
func (c *Client) ResendOTP(ctx context.Context, email string) error {
	req, err := c.newJSONRequest(ctx, "auth/resend-otp/", map[string]string{"email": email}, false)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Logout invalidates the server-side token.
func (c *Client) Logout(ctx context.Context) error {
	req, err := c.newJSONRequest(ctx, "auth/logout/", struct{}{}, true)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
