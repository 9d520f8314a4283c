// Package session owns the single bearer-credential slot of the client.
//
// The slot is a file under the user's config directory, so the credential
// survives separate command invocations the way a browser session store
// survives navigation. No shape validation happens client-side; the server
// is the only judge of validity.
package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const credentialFileMode = 0o600

// Store wraps the credential slot. All methods are safe for concurrent use:
// the read/write pair is guarded so a 401 clearing the slot cannot race
// another in-flight request reading it.
type Store struct {
	mu       sync.Mutex
	path     string
	onExpire func()
	expired  bool
}

// NewFileStore returns a Store persisting the credential at path.
func NewFileStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath resolves the conventional credential location under the
// user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "threatwatch", "credential"), nil
}

// Token returns the stored credential and whether one is present.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}

// SetToken persists a freshly issued credential and re-arms the expiry
// reaction for the new session.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(token), credentialFileMode); err != nil {
		return err
	}
	s.expired = false
	return nil
}

// Clear removes the stored credential. Missing slot is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

func (s *Store) clearLocked() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// OnExpire registers the uniform session-expiry reaction (the
// redirect-to-login signal). At most one hook is held.
func (s *Store) OnExpire(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = fn
}

// ExpireOnce clears the credential and fires the expiry hook exactly once,
// no matter how many concurrent 401 responses call it. Subsequent calls are
// no-ops until a new credential is stored.
func (s *Store) ExpireOnce() {
	s.mu.Lock()
	if s.expired {
		s.mu.Unlock()
		return
	}
	s.expired = true
	_ = s.clearLocked()
	fn := s.onExpire
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// TokenExpiry reads the exp claim of the stored credential without verifying
// the signature. Display-only: the server remains the authority on validity.
// Returns false when no credential is stored or the claim is absent or
// unparseable.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token, ok := s.Token()
	if !ok {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
