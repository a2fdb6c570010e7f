package session

import (
	"context"
	"sync"
)

type Memory struct {
	mu      sync.Mutex
	pending map[int64]Pending
}

func NewMemory() *Memory {
	return &Memory{pending: make(map[int64]Pending)}
}

func (m *Memory) Get(_ context.Context, userID int64) (Pending, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[userID], nil
}

func (m *Memory) Set(_ context.Context, userID int64, p Pending) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Step == StepNone {
		delete(m.pending, userID)
		return nil
	}
	m.pending[userID] = p
	return nil
}

func (m *Memory) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, userID)
	return nil
}

func (m *Memory) Take(_ context.Context, userID int64, step Step) (Pending, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pending[userID]
	if !ok || p.Step != step {
		return Pending{}, false, nil
	}
	delete(m.pending, userID)
	return p, true, nil
}
