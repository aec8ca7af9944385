package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvAccount selects the account when no explicit one is given.
const EnvAccount = "FLOK_ACCOUNT"

// DefaultAccount is the account id used when nothing else is configured.
const DefaultAccount = "default"

// Accounts resolves and manages the set of authenticated accounts. Account
// resolution is a pure function over the explicit input, the environment,
// the persisted default, and the store listing; it holds no mutable state
// of its own.
type Accounts struct {
	store       Store
	defaultFile string
}

// DefaultAccountFile returns the path of the persisted default-account file.
func DefaultAccountFile() (string, error) {
	config, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(config, "flok", "current-account"), nil
}

// NewAccounts creates an account resolver over the store, persisting the
// default account id at defaultFile.
func NewAccounts(store Store, defaultFile string) *Accounts {
	return &Accounts{store: store, defaultFile: defaultFile}
}

// List returns the ids of all accounts with stored tokens.
func (a *Accounts) List() ([]string, error) {
	return a.store.ListAccounts()
}

// Default returns the persisted default account id, if any.
func (a *Accounts) Default() (string, bool) {
	data, err := os.ReadFile(a.defaultFile)
	if err != nil {
		return "", false
	}
	id := strings.TrimSpace(string(data))
	return id, id != ""
}

// SetDefault persists the default account id.
func (a *Accounts) SetDefault(account string) error {
	if err := os.MkdirAll(filepath.Dir(a.defaultFile), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(a.defaultFile, []byte(account+"\n"), 0o600)
}

// Resolve picks the account to use: explicit argument, then the
// FLOK_ACCOUNT environment variable, then the persisted default, then the
// only stored account. It fails with ErrNoAccount when nothing is stored
// and an ambiguous-account error when several are and none was chosen.
func (a *Accounts) Resolve(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(EnvAccount); env != "" {
		return env, nil
	}
	if id, ok := a.Default(); ok {
		return id, nil
	}
	all, err := a.store.ListAccounts()
	if err != nil {
		return "", err
	}
	switch len(all) {
	case 0:
		return "", ErrNoAccount
	case 1:
		return all[0], nil
	default:
		return "", &Error{Reason: ReasonAmbiguousAccount, Accounts: all}
	}
}

// Remove deletes all stored material for the account and clears it as the
// default if it was one.
func (a *Accounts) Remove(account string) error {
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyExpiresAt} {
		if err := a.store.Delete(account, key); err != nil {
			return err
		}
	}
	if id, ok := a.Default(); ok && id == account {
		if err := os.Remove(a.defaultFile); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
