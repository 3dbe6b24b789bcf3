// internal/app/features/account/service.go

// Package account implements the sign-in, registration, and profile flows
// against the platform's user endpoints.
package account

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/guard"
	"github.com/sila-platform/siladesk/internal/app/system/session"
	"github.com/sila-platform/siladesk/internal/app/system/timeouts"
	"github.com/sila-platform/siladesk/internal/app/system/transport"
)

// Endpoints for the account flows.
const (
	LoginPath        = "/users/login/"
	ProfilePath      = "/users/profile/"
	TokenRefreshPath = "/users/token/refresh/"
)

// ErrBadCredentials is returned when the login response carries no access
// token under any of the key names backends use.
var ErrBadCredentials = errors.New("login failed, check your credentials")

// ErrNoRefreshToken is returned when a token refresh is attempted without
// a stored refresh token.
var ErrNoRefreshToken = errors.New("no refresh token in session")

// Service runs the account flows.
type Service struct {
	api  *transport.Client
	sess *session.Store
	log  *zap.Logger
}

// NewService wires the account flows.
func NewService(api *transport.Client, sess *session.Store, log *zap.Logger) *Service {
	return &Service{api: api, sess: sess, log: log}
}

type loginResponse struct {
	Access      string           `json:"access"`
	Token       string           `json:"token"`
	AccessToken string           `json:"accessToken"`
	Refresh     string           `json:"refresh"`
	User        *session.Profile `json:"user"`
}

// Login signs in and establishes the session. Backends differ on which key
// carries the access token; the first of access, token, accessToken wins.
// When the login response omits the user, the profile is fetched within a
// short window; a slow or failing profile endpoint does not fail the login,
// the session is just established without a cached profile.
//
// Returns the route the client should navigate to: the dashboard for
// ministry users, home for everyone else.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	var res loginResponse
	err := s.api.JSON(ctx, http.MethodPost, LoginPath, map[string]any{
		"email":    email,
		"password": password,
	}, &res)
	if err != nil {
		return "", err
	}

	token := res.Access
	if token == "" {
		token = res.Token
	}
	if token == "" {
		token = res.AccessToken
	}
	if token == "" {
		return "", ErrBadCredentials
	}

	user := res.User
	if user == nil {
		fetchCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), s.log, "post-login profile fetch")
		fetched, err := s.fetchProfile(fetchCtx)
		cancel()
		if err != nil {
			s.log.Warn("profile fetch after login failed", zap.Error(err))
		} else {
			user = fetched
		}
	}

	if err := s.sess.SetSession(token, res.Refresh, user); err != nil {
		return "", err
	}

	if session.RolesFor(user).IsMinistry {
		return guard.RouteDashboard, nil
	}
	return guard.RouteHome, nil
}

// Logout clears the session and returns the home route.
func (s *Service) Logout() string {
	s.sess.ClearSession()
	return guard.RouteHome
}

// RefreshToken exchanges the stored refresh token for a new access token.
func (s *Service) RefreshToken(ctx context.Context) error {
	refresh := s.sess.RefreshTokenValue()
	if refresh == "" {
		return ErrNoRefreshToken
	}
	var res loginResponse
	err := s.api.JSON(ctx, http.MethodPost, TokenRefreshPath, map[string]any{
		"refresh": refresh,
	}, &res)
	if err != nil {
		return err
	}
	token := res.Access
	if token == "" {
		token = res.Token
	}
	if token == "" {
		return errors.New("token refresh response carried no access token")
	}
	return s.sess.SetAccessToken(token)
}

// LoadProfile fetches the current profile, falling back to the session's
// cached user when the endpoint is unavailable.
func (s *Service) LoadProfile(ctx context.Context) (*session.Profile, error) {
	p, err := s.fetchProfile(ctx)
	if err != nil {
		if cached, ok := s.sess.User(); ok {
			s.log.Debug("profile fetch failed, using cached user", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) fetchProfile(ctx context.Context) (*session.Profile, error) {
	var p session.Profile
	if err := s.api.JSON(ctx, http.MethodGet, ProfilePath, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
