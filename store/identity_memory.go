package store

import (
	"context"
	"strconv"
	"sync"

	"activeflow/models"
)

// MemoryIdentity keeps accounts in a map keyed by normalised email.
type MemoryIdentity struct {
	mu     sync.Mutex
	users  map[string]models.User
	nextID int
	hash   func(string) (string, error)
}

func NewMemoryIdentity() *MemoryIdentity {
	return &MemoryIdentity{users: make(map[string]models.User), nextID: 1, hash: hashPassword}
}

func (m *MemoryIdentity) Register(_ context.Context, email, password, username string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	// bcrypt is slow; keep it outside the lock.
	hashed, err := m.hash(password)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[email]; exists {
		return nil, ErrEmailTaken
	}
	user := models.User{
		ID:       m.allocateID(),
		Email:    email,
		Password: hashed,
		Username: username,
	}
	m.users[email] = user
	return publicUser(user), nil
}

func (m *MemoryIdentity) Login(_ context.Context, email, password string) (*models.User, error) {
	m.mu.Lock()
	user, ok := m.users[normalizeEmail(email)]
	m.mu.Unlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := checkPassword(&user, password); err != nil {
		return nil, err
	}
	return publicUser(user), nil
}

func (m *MemoryIdentity) LoginExternal(_ context.Context, googleID, email, name string) (*models.User, error) {
	email = normalizeEmail(email)
	if googleID == "" || email == "" {
		return nil, ErrMissingCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.users[email]; ok {
		if user.GoogleID == "" {
			return nil, ErrEmailTaken
		}
		return publicUser(user), nil
	}

	user := models.User{
		ID:       m.allocateID(),
		GoogleID: googleID,
		Email:    email,
		Username: name,
	}
	m.users[email] = user
	return publicUser(user), nil
}

func (m *MemoryIdentity) allocateID() string {
	id := "user-" + strconv.Itoa(m.nextID)
	m.nextID++
	return id
}
