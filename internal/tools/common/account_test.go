package common

import (
	"errors"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/RyanLisse/flok/internal/auth"
	"github.com/RyanLisse/flok/internal/server"
)

func TestAccountFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
	}{
		{
			name:     "no account specified",
			args:     map[string]interface{}{},
			expected: "",
		},
		{
			name: "account specified",
			args: map[string]interface{}{
				"account": "work@example.com",
			},
			expected: "work@example.com",
		},
		{
			name: "account with other params",
			args: map[string]interface{}{
				"account": "personal@example.com",
				"count":   float64(10),
			},
			expected: "personal@example.com",
		},
		{
			name:     "nil args",
			args:     nil,
			expected: "",
		},
		{
			name: "non-string account type",
			args: map[string]interface{}{
				"account": 123,
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AccountFromArgs(tt.args); got != tt.expected {
				t.Errorf("AccountFromArgs() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

// newTestServerContext builds a server context over a throwaway token store
// seeded with the given accounts.
func newTestServerContext(t *testing.T, accounts ...string) *server.ServerContext {
	t.Helper()
	dir := t.TempDir()
	store := auth.NewFileStore(filepath.Join(dir, "tokens"))
	expires := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
	for _, account := range accounts {
		if err := store.Save(account, auth.KeyAccessToken, "at-"+account); err != nil {
			t.Fatal(err)
		}
		if err := store.Save(account, auth.KeyRefreshToken, "rt-"+account); err != nil {
			t.Fatal(err)
		}
		if err := store.Save(account, auth.KeyExpiresAt, expires); err != nil {
			t.Fatal(err)
		}
	}

	flow := auth.NewDeviceCodeFlow("client-1", "common", nil)
	manager := auth.NewManager(store, flow)
	resolver := auth.NewAccounts(store, filepath.Join(dir, "default-account"))

	sc := server.NewServerContext(t.Context(), server.Options{
		Manager:  manager,
		Accounts: resolver,
	})
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestResolveAccountExplicitWins(t *testing.T) {
	sc := newTestServerContext(t, "work@example.com", "home@example.com")

	got, err := ResolveAccount(sc, map[string]interface{}{"account": "work@example.com"})
	if err != nil {
		t.Fatalf("ResolveAccount() error = %v", err)
	}
	if got != "work@example.com" {
		t.Errorf("account = %q", got)
	}
}

func TestResolveAccountSingleStored(t *testing.T) {
	sc := newTestServerContext(t, "solo@example.com")

	got, err := ResolveAccount(sc, map[string]interface{}{})
	if err != nil {
		t.Fatalf("ResolveAccount() error = %v", err)
	}
	if got != "solo@example.com" {
		t.Errorf("account = %q", got)
	}
}

func TestResolveAccountNoneStored(t *testing.T) {
	sc := newTestServerContext(t)

	if _, err := ResolveAccount(sc, nil); !errors.Is(err, auth.ErrNoAccount) {
		t.Errorf("error = %v, want ErrNoAccount", err)
	}
}
