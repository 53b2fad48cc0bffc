package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lucasvrm/ecodoacao/internal/store"
)

const (
	accessKey  = "ecodoacao_access"
	refreshKey = "ecodoacao_refresh"
)

// Store persists the access/refresh token pair in the settings table.
// Read failures degrade to "no token" so callers can treat an unreadable
// store the same as a logged-out session.
type Store struct {
	settings *store.SettingsStore
}

func NewStore(settings *store.SettingsStore) *Store {
	return &Store{settings: settings}
}

func (s *Store) Access() string {
	v, err := s.settings.Get(accessKey)
	if err != nil {
		return ""
	}
	return v
}

func (s *Store) Refresh() string {
	v, err := s.settings.Get(refreshKey)
	if err != nil {
		return ""
	}
	return v
}

// SetTokens stores whichever tokens are non-empty; an empty string leaves
// the stored slot untouched.
func (s *Store) SetTokens(access, refresh string) error {
	if access != "" {
		if err := s.settings.Set(accessKey, access); err != nil {
			return err
		}
	}
	if refresh != "" {
		if err := s.settings.Set(refreshKey, refresh); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Clear() error {
	if err := s.settings.Delete(accessKey); err != nil {
		return err
	}
	return s.settings.Delete(refreshKey)
}

// Decode extracts the claims of a JWT without verifying its signature.
// Returns nil for anything malformed. The result is display/convenience
// data only; the server re-checks authorization on every privileged call.
func Decode(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil
	}
	return claims
}

// Claims decodes the stored access token. Nil when absent or malformed.
func (s *Store) Claims() map[string]any {
	return Decode(s.Access())
}

// ExpiresIn reports how long until the stored access token expires.
// ok is false when there is no token or it carries no exp claim.
func (s *Store) ExpiresIn() (d time.Duration, ok bool) {
	claims := s.Claims()
	if claims == nil {
		return 0, false
	}
	exp, isNum := claims["exp"].(float64)
	if !isNum {
		return 0, false
	}
	return time.Until(time.Unix(int64(exp), 0)), true
}
