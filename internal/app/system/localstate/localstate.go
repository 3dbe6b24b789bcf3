// internal/app/system/localstate/localstate.go

// Package localstate persists the client's key-value state (auth tokens and
// the cached user profile) across runs, much like a browser keeps
// localStorage for a single profile. Values are opaque strings; callers own
// serialization.
package localstate

// Well-known keys. The three token keys exist because different backend
// login responses have stored the bearer credential under different names;
// KeyToken is the primary and the other two are legacy fallbacks that must
// keep working.
const (
	KeyToken        = "token"
	KeyAccessToken  = "accessToken"
	KeyAccess       = "access"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// TokenKeys returns the bearer token storage keys in resolution order:
// primary first, then the legacy fallbacks. Callers that read or clear
// tokens must honor this exact order.
func TokenKeys() []string {
	return []string{KeyToken, KeyAccessToken, KeyAccess}
}

// Store is a persisted string key-value store. Implementations must be safe
// for concurrent use.
type Store interface {
	// Get returns the value for key and whether it was present. A value
	// that exists but cannot be verified or decoded is reported as absent.
	Get(key string) (string, bool)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns the currently stored keys in no particular order.
	Keys() []string
}

// Token resolves the bearer token from s using the TokenKeys precedence.
// It returns "" when no token is stored.
func Token(s Store) string {
	for _, k := range TokenKeys() {
		if v, ok := s.Get(k); ok && v != "" {
			return v
		}
	}
	return ""
}

// ClearTokens removes every known token key from s. The refresh token and
// cached user are left untouched; this mirrors what a forced re-login after
// an unauthorized response does.
func ClearTokens(s Store) {
	for _, k := range TokenKeys() {
		_ = s.Delete(k)
	}
}
