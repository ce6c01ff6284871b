// Package credstore persists the bearer credential across client restarts.
package credstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL is the retention hint applied when saving a credential,
// mirroring the server-side token lifetime.
const DefaultTTL = 7 * 24 * time.Hour

// record is the on-disk shape of the stored credential.
type record struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileStore keeps the credential in a JSON file. The expiry stored with it is
// a retention hint only; the remote service remains the authority on whether
// a token is still valid.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save persists the token with the given ttl hint.
func (s *FileStore) Save(token string, ttl time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(record{
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Load returns the stored token, or ok=false when none is stored or the
// retention hint has passed.
func (s *FileStore) Load() (string, bool) {
	f, err := os.Open(s.path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	var rec record
	if err := json.NewDecoder(f).Decode(&rec); err != nil {
		return "", false
	}
	if rec.Token == "" || time.Now().After(rec.ExpiresAt) {
		return "", false
	}
	return rec.Token, true
}

// Clear removes the persisted credential. A missing file is not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
