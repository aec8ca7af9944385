package auth

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store is the durable key/value persistence contract for token material,
// keyed by account id. The manager composes stored keys into a TokenSet and
// never interprets backend specifics.
type Store interface {
	// Save persists value under key for the account.
	Save(account, key, value string) error
	// Load retrieves the value for key, reporting whether it was present.
	Load(account, key string) (string, bool, error)
	// Delete removes key for the account; absent keys are not an error.
	Delete(account, key string) error
	// ListAccounts returns the ids of all accounts with stored material.
	ListAccounts() ([]string, error)
}

// FileStore persists token material as one JSON file per account under a
// directory, with 0600 file permissions.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// DefaultStoreDir returns the default token directory under the user cache
// directory.
func DefaultStoreDir() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine cache directory: %w", err)
	}
	return filepath.Join(cache, "flok", "tokens"), nil
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(account string) string {
	return filepath.Join(s.dir, url.PathEscape(account)+".json")
}

func (s *FileStore) read(account string) (map[string]string, error) {
	data, err := os.ReadFile(s.path(account))
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("corrupt token file for account %s: %w", account, err)
	}
	return values, nil
}

func (s *FileStore) write(account string, values map[string]string) error {
	if len(values) == 0 {
		err := os.Remove(s.path(account))
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(account), data, 0o600)
}

// Save implements Store.
func (s *FileStore) Save(account, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read(account)
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(account, values)
}

// Load implements Store.
func (s *FileStore) Load(account, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read(account)
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

// Delete implements Store. Removing the last key removes the account file.
func (s *FileStore) Delete(account, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.read(account)
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.write(account, values)
}

// ListAccounts implements Store.
func (s *FileStore) ListAccounts() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var accounts []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		account, err := url.PathUnescape(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	return accounts, nil
}
