package library

import (
	"errors"
	"path/filepath"
	"testing"
)

// failingKV simulates a persistence backend that is present but broken.
type failingKV struct{}

func (failingKV) GetValue(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingKV) SetValue(string, string) error         { return errors.New("disk gone") }
func (failingKV) DeleteValue(string) error              { return errors.New("disk gone") }

func tokenStores(t *testing.T) map[string]TokenStore {
	return map[string]TokenStore{
		"memory":     &MemoryTokenStore{},
		"persistent": NewTokenStore(tempDB(t), nil),
	}
}

func TestTokenStoreSaveGetClear(t *testing.T) {
	for name, store := range tokenStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok := store.Get(); ok {
				t.Fatalf("new store should be empty")
			}

			store.Save("first")
			if got, ok := store.Get(); !ok || got != "first" {
				t.Fatalf("get = %q, %v", got, ok)
			}
			// Repeated reads keep returning the same token.
			if got, _ := store.Get(); got != "first" {
				t.Fatalf("second get = %q", got)
			}

			store.Save("second")
			if got, _ := store.Get(); got != "second" {
				t.Fatalf("save should overwrite, got %q", got)
			}

			store.Clear()
			if _, ok := store.Get(); ok {
				t.Fatalf("token should be absent after clear")
			}
			store.Clear()
			if _, ok := store.Get(); ok {
				t.Fatalf("clear should be idempotent")
			}
		})
	}
}

func TestPersistentTokenSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	NewTokenStore(db, nil).Save("tok123")
	db.Close()

	db, err = NewDatabase(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if got, ok := NewTokenStore(db, nil).Get(); !ok || got != "tok123" {
		t.Fatalf("token after reopen = %q, %v", got, ok)
	}
}

func TestTokenStoreUnavailableBackend(t *testing.T) {
	for name, store := range map[string]TokenStore{
		"nil":     NewTokenStore(nil, nil),
		"failing": NewTokenStore(failingKV{}, nil),
	} {
		t.Run(name, func(t *testing.T) {
			store.Save("tok")
			if _, ok := store.Get(); ok {
				t.Fatalf("unavailable backend should report no token")
			}
			store.Clear()
		})
	}
}
