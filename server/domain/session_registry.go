package domain

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// SessionRegistry tracks which registered usernames are currently online.
type SessionRegistry struct {
	mu     sync.Mutex
	online map[string]struct{}
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		online: make(map[string]struct{}),
	}
}

// Claim marks username online if it is not already and admit approves it.
// admit runs under the registry lock, so two concurrent claims for the same
// name can never both succeed.
func (r *SessionRegistry) Claim(username string, admit func() (bool, error)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.online[username]; ok {
		return false, nil
	}
	ok, err := admit()
	if err != nil || !ok {
		return false, err
	}
	r.online[username] = struct{}{}
	return true, nil
}

func (r *SessionRegistry) IsOnline(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.online[username]
	return ok
}

// Release marks username offline. Releasing an offline name is a no-op.
func (r *SessionRegistry) Release(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.online, username)
}

func (r *SessionRegistry) Online() []string {
	r.mu.Lock()
	names := lo.Keys(r.online)
	r.mu.Unlock()

	slices.Sort(names)
	return names
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.online)
}
