// internal/app/system/session/store.go

// Package session owns the client's authentication state: the bearer token,
// the cached user profile, the canonical role derivation, and the
// auth-changed broadcast that tells mounted views to re-derive and re-fetch.
//
// The store is an explicit dependency passed to views, never ambient global
// state. Token and user are persisted independently and may desynchronize
// (token present with no cached profile, or the reverse after a partial
// failure); IsAuthenticated is deliberately token-only so either half can be
// missing without wedging the client.
package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/sila-platform/siladesk/internal/app/system/localstate"
)

// Store reads and writes the persisted session. Written only by the login,
// logout, and profile-refresh flows; read everywhere.
type Store struct {
	state localstate.Store
	log   *zap.Logger

	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

// NewStore creates a session store over the given persisted state.
func NewStore(state localstate.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		state: state,
		log:   log,
		subs:  make(map[int]chan struct{}),
	}
}

// Token returns the bearer token, resolving the primary and legacy storage
// keys in order, or "" when logged out.
func (s *Store) Token() string {
	return localstate.Token(s.state)
}

// IsAuthenticated reports whether a bearer token is present. The cached
// profile is intentionally not consulted.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// User returns the cached profile, or (nil, false) when absent. Malformed
// persisted data fails soft: it is treated as absent, never returned as a
// partial profile and never an error.
func (s *Store) User() (*Profile, bool) {
	raw, ok := s.state.Get(localstate.KeyUser)
	if !ok || raw == "" {
		return nil, false
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Debug("cached user profile is malformed, treating as absent", zap.Error(err))
		return nil, false
	}
	return &p, true
}

// Roles returns the derived role flags for the cached user. An absent or
// malformed profile yields the zero Roles.
func (s *Store) Roles() Roles {
	p, _ := s.User()
	return RolesFor(p)
}

// Viewer returns the visibility-filter view of the current user.
func (s *Store) Viewer() Viewer {
	p, _ := s.User()
	return ViewerFor(p)
}

// DisplayName returns the role-appropriate display name for the cached
// user, or "" when no profile is cached.
func (s *Store) DisplayName() string {
	p, _ := s.User()
	return p.DisplayName()
}

// SetSession persists a new login. The access token is always written; the
// refresh token and profile only when provided. Subscribers are notified
// once the state is durable.
func (s *Store) SetSession(token, refreshToken string, user *Profile) error {
	if err := s.state.Set(localstate.KeyToken, token); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := s.state.Set(localstate.KeyRefreshToken, refreshToken); err != nil {
			return err
		}
	}
	if user != nil {
		if err := s.writeUser(user); err != nil {
			return err
		}
	}
	s.notify()
	return nil
}

// ClearSession logs out: every token key, the refresh token, and the cached
// profile are removed, then subscribers are notified.
func (s *Store) ClearSession() {
	localstate.ClearTokens(s.state)
	_ = s.state.Delete(localstate.KeyRefreshToken)
	_ = s.state.Delete(localstate.KeyUser)
	s.notify()
}

// RefreshUser overwrites the cached profile without touching tokens. Called
// after a profile edit round-trips through the server.
func (s *Store) RefreshUser(user *Profile) error {
	if user == nil {
		return nil
	}
	if err := s.writeUser(user); err != nil {
		return err
	}
	s.notify()
	return nil
}

// RefreshTokenValue returns the stored refresh token, or "".
func (s *Store) RefreshTokenValue() string {
	v, _ := s.state.Get(localstate.KeyRefreshToken)
	return v
}

// SetAccessToken replaces just the access token (after a token refresh).
func (s *Store) SetAccessToken(token string) error {
	return s.state.Set(localstate.KeyToken, token)
}

// TokenExpiry parses the access token as a JWT without verifying it and
// returns its expiry claim. Opaque tokens and tokens without an exp claim
// return false. Verification is the server's job; this exists only so the
// client can warn before a session goes stale.
func (s *Store) TokenExpiry() (time.Time, bool) {
	tok := s.Token()
	if tok == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func (s *Store) writeUser(user *Profile) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.state.Set(localstate.KeyUser, string(raw))
}

// Subscribe registers for auth-changed notifications. The returned channel
// receives one (coalesced) signal per state change; the cancel func must be
// called when the subscribing view unmounts so no listener leaks. Cancel
// closes the channel, so a `for range` listener terminates on its own.
// Delivery is non-blocking per subscriber and unordered across subscribers.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	// The close happens under the same mutex notify sends under, and only
	// after the channel leaves the map, so a send can never hit a closed
	// channel. Cancel is idempotent.
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// notify raises the auth-changed signal for every subscriber. A subscriber
// that has not drained its previous signal just keeps the one pending
// notification; signals carry no payload, so coalescing loses nothing.
func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
