package auth

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFileStoreSaveLoadDelete(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if err := store.Save("work", KeyAccessToken, "at-1"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	value, ok, err := store.Load("work", KeyAccessToken)
	if err != nil || !ok || value != "at-1" {
		t.Errorf("Load() = %q, %v, %v", value, ok, err)
	}

	if _, ok, _ := store.Load("work", "missing-key"); ok {
		t.Error("Load() reported a missing key as present")
	}
	if _, ok, _ := store.Load("missing-account", KeyAccessToken); ok {
		t.Error("Load() reported a missing account as present")
	}

	if err := store.Delete("work", KeyAccessToken); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := store.Load("work", KeyAccessToken); ok {
		t.Error("key still present after Delete()")
	}
	if err := store.Delete("work", KeyAccessToken); err != nil {
		t.Errorf("repeated Delete() error = %v", err)
	}
}

func TestFileStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	dir := filepath.Join(t.TempDir(), "tokens")
	store := NewFileStore(dir)
	if err := store.Save("work", KeyAccessToken, "secret"); err != nil {
		t.Fatal(err)
	}

	dirInfo, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := dirInfo.Mode().Perm(); got != 0o700 {
		t.Errorf("directory mode = %o, want 700", got)
	}
	fileInfo, err := os.Stat(filepath.Join(dir, "work.json"))
	if err != nil {
		t.Fatal(err)
	}
	if got := fileInfo.Mode().Perm(); got != 0o600 {
		t.Errorf("file mode = %o, want 600", got)
	}
}

func TestFileStoreAccountNameEscaping(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	account := "user@example.com/work"

	if err := store.Save(account, KeyAccessToken, "at"); err != nil {
		t.Fatal(err)
	}
	// The account id must not introduce path separators.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].IsDir() {
		t.Fatalf("unexpected directory layout: %v", entries)
	}

	accounts, err := store.ListAccounts()
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 1 || accounts[0] != account {
		t.Errorf("ListAccounts() = %v, want the original unescaped id", accounts)
	}
}

func TestFileStoreListAccountsSorted(t *testing.T) {
	store := NewFileStore(t.TempDir())
	for _, account := range []string{"zeta", "alpha", "mid"} {
		if err := store.Save(account, KeyAccessToken, "at"); err != nil {
			t.Fatal(err)
		}
	}
	accounts, err := store.ListAccounts()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(accounts) != len(want) {
		t.Fatalf("ListAccounts() = %v", accounts)
	}
	for i := range want {
		if accounts[i] != want[i] {
			t.Errorf("accounts[%d] = %q, want %q", i, accounts[i], want[i])
		}
	}
}

func TestFileStoreListAccountsMissingDir(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "never-created"))
	accounts, err := store.ListAccounts()
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("ListAccounts() = %v, want empty", accounts)
	}
}

func TestFileStoreDeletingLastKeyRemovesFile(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	if err := store.Save("work", KeyAccessToken, "at"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("work", KeyAccessToken); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "work.json")); !os.IsNotExist(err) {
		t.Error("empty token file left behind")
	}
	accounts, _ := store.ListAccounts()
	if len(accounts) != 0 {
		t.Errorf("ListAccounts() = %v after removing all keys", accounts)
	}
}
