package library

import (
	"log/slog"
	"sync"
)

// TokenKey is the single credential slot.
const TokenKey = "authToken"

// TokenStore holds the one active bearer token for the process.
type TokenStore interface {
	Save(token string)
	Get() (string, bool)
	Clear()
}

// KeyValueStore is the persistence backend a PersistentTokenStore writes to.
// *Database satisfies it.
type KeyValueStore interface {
	GetValue(key string) (string, bool, error)
	SetValue(key, value string) error
	DeleteValue(key string) error
}

// PersistentTokenStore keeps the token in a KeyValueStore so it outlives the
// process. A nil or failing backend degrades to "no token": writes are logged
// and dropped, reads report absent.
type PersistentTokenStore struct {
	kv     KeyValueStore
	logger *slog.Logger
}

// NewTokenStore returns a store backed by kv. kv may be nil.
func NewTokenStore(kv KeyValueStore, logger *slog.Logger) *PersistentTokenStore {
	if logger == nil {
		logger = discardLogger()
	}
	return &PersistentTokenStore{kv: kv, logger: logger}
}

func (s *PersistentTokenStore) Save(token string) {
	if s.kv == nil {
		s.logger.Warn("token store unavailable, token not saved")
		return
	}
	if err := s.kv.SetValue(TokenKey, token); err != nil {
		s.logger.Warn("save token", "err", err)
		return
	}
	s.logger.Debug("token saved")
}

func (s *PersistentTokenStore) Get() (string, bool) {
	if s.kv == nil {
		s.logger.Debug("token store unavailable, no token")
		return "", false
	}
	token, ok, err := s.kv.GetValue(TokenKey)
	if err != nil {
		s.logger.Warn("read token", "err", err)
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (s *PersistentTokenStore) Clear() {
	if s.kv == nil {
		return
	}
	if err := s.kv.DeleteValue(TokenKey); err != nil {
		s.logger.Warn("clear token", "err", err)
		return
	}
	s.logger.Debug("token removed")
}

// MemoryTokenStore keeps the token in process memory only.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

func (m *MemoryTokenStore) Save(token string) {
	m.mu.Lock()
	m.token, m.set = token, token != ""
	m.mu.Unlock()
}

func (m *MemoryTokenStore) Get() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.set
}

func (m *MemoryTokenStore) Clear() {
	m.mu.Lock()
	m.token, m.set = "", false
	m.mu.Unlock()
}
