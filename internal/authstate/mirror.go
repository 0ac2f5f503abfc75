package authstate

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/reetreev/dashboard/internal/domain"
)

// Mirror is the local persistence slot for the current user profile,
// the equivalent of the dashboard's single local-storage key.
type Mirror interface {
	Save(domain.UserProfile) error
	Load() (domain.UserProfile, bool, error)
	Clear() error
}

// FileMirror keeps the serialized profile in one JSON file.
type FileMirror struct {
	mu   sync.Mutex
	path string
}

func NewFileMirror(path string) *FileMirror {
	return &FileMirror{path: path}
}

func (m *FileMirror) Save(user domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(m.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(m.path, data, 0o600)
}

func (m *FileMirror) Load() (domain.UserProfile, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.UserProfile{}, false, nil
	}
	if err != nil {
		return domain.UserProfile{}, false, err
	}

	var user domain.UserProfile
	if err := json.Unmarshal(data, &user); err != nil {
		// A corrupt mirror is discarded, matching how the dashboard
		// drops an unparseable stored profile.
		_ = os.Remove(m.path)
		return domain.UserProfile{}, false, nil
	}
	return user, true, nil
}

func (m *FileMirror) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := os.Remove(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryMirror backs tests.
type MemoryMirror struct {
	mu   sync.Mutex
	user *domain.UserProfile
}

func NewMemoryMirror() *MemoryMirror {
	return &MemoryMirror{}
}

func (m *MemoryMirror) Save(user domain.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &user
	return nil
}

func (m *MemoryMirror) Load() (domain.UserProfile, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return domain.UserProfile{}, false, nil
	}
	return *m.user, true, nil
}

func (m *MemoryMirror) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	return nil
}
