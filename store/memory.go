package store

import (
	"context"
	"slices"
	"sync"

	"earning-bot/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Store. Each method holds one lock for its whole
// read-modify-write, matching the atomicity of the Mongo implementation.
type Memory struct {
	mu          sync.Mutex
	users       map[int64]*models.User
	withdrawals []models.WithdrawalRequest
}

func NewMemory() *Memory {
	return &Memory{users: make(map[int64]*models.User)}
}

func (m *Memory) GetUser(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.ID]; ok {
		return ErrUserExists
	}
	m.users[u.ID] = cloneUser(u)
	return nil
}

func (m *Memory) CreditReferral(_ context.Context, referrerID, refereeID int64, amount models.Money) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[referrerID]
	if !ok {
		return false, ErrUserNotFound
	}
	if slices.Contains(u.Referred, refereeID) {
		return false, nil
	}
	u.Balance += amount
	u.Referrals++
	u.Referred = append(u.Referred, refereeID)
	return true, nil
}

func (m *Memory) MarkReferralSettled(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.ReferralSettled = true
	return nil
}

func (m *Memory) ClaimDaily(_ context.Context, userID int64, today models.Date, amount models.Money) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return false, ErrUserNotFound
	}
	if u.LastCheckin == today {
		return false, nil
	}
	u.LastCheckin = today
	u.Balance += amount
	return true, nil
}

func (m *Memory) DebitAll(_ context.Context, userID int64) (models.Money, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return 0, ErrUserNotFound
	}
	amount := u.Balance
	u.Balance = 0
	return amount, nil
}

func (m *Memory) Credit(_ context.Context, userID int64, amount models.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Balance += amount
	return nil
}

func (m *Memory) InsertWithdrawal(_ context.Context, w *models.WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w.ID.IsZero() {
		w.ID = primitive.NewObjectID()
	}
	m.withdrawals = append(m.withdrawals, *w)
	return nil
}

// Withdrawals returns a copy of every recorded request, oldest first.
func (m *Memory) Withdrawals() []models.WithdrawalRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.withdrawals)
}

// UserCount returns the number of stored users.
func (m *Memory) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.users)
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Referred = slices.Clone(u.Referred)
	if u.Referrer != nil {
		r := *u.Referrer
		c.Referrer = &r
	}
	return &c
}
