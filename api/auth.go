package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/BADARRASHEED/Student-Result-Tracking/httpx"
	"github.com/BADARRASHEED/Student-Result-Tracking/session"
)

type credentials struct {
	Username string `validate:"required,email"`
	Password string `validate:"required"`
}

// Login exchanges credentials for a token and stores the session.
// A rejected login does not touch the stored session.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	if err := s.checkInput(credentials{Username: username, Password: password}); err != nil {
		return LoginResponse{}, err
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out LoginResponse
	err := s.client.Request(ctx, "/auth/login", &out,
		httpx.WithMethod(http.MethodPost),
		httpx.WithForm(form),
	)
	if err != nil {
		if he, ok := httpx.AsError(err); ok && he.Kind == httpx.KindHTTP && len(bytes.TrimSpace(he.RawBody)) == 0 {
			he.Message = "Invalid credentials"
		}
		return LoginResponse{}, err
	}
	if out.AccessToken == "" {
		return LoginResponse{}, errors.New("login response carried no access token")
	}
	if err := session.SaveAuth(s.store, out.AccessToken, out.Role, out.Name); err != nil {
		return out, err
	}
	return out, nil
}

// Logout forgets the stored session.
func (s *Service) Logout() error {
	return session.ClearAuth(s.store)
}

// Current returns the stored session.
func (s *Service) Current() (session.Session, error) {
	if s.store == nil {
		return session.Session{}, nil
	}
	return s.store.Load()
}
