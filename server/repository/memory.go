package repository

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps users and messages in process memory. Nothing survives a restart.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]struct{}
	messages []string
}

func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]struct{}),
	}
}

func (m *Memory) Register(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[username]; ok {
		return false, nil
	}
	m.users[username] = struct{}{}
	return true, nil
}

func (m *Memory) IsRegistered(_ context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.users[username]
	return ok, nil
}

func (m *Memory) Append(_ context.Context, text string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, text)
	return uint64(len(m.messages) - 1), nil
}

func (m *Memory) ReadFrom(_ context.Context, cursor uint64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if cursor >= uint64(len(m.messages)) {
		return []string{}, nil
	}
	return slices.Clone(m.messages[cursor:]), nil
}

func (m *Memory) Len(_ context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.messages)), nil
}

func (m *Memory) Close() error {
	return nil
}
