package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debatefightclub-backend/internal/auth"
	"debatefightclub-backend/internal/config"
	"debatefightclub-backend/internal/models"
	"debatefightclub-backend/internal/store"
)

type fakeAuthStore struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	touched int
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{byEmail: make(map[string]*models.User)}
}

func (f *fakeAuthStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeAuthStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeAuthStore) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeAuthStore) TouchUserSignIn(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched++
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		TokenExpiration: time.Hour,
	}
}

func TestSignupAndLogin(t *testing.T) {
	st := newFakeAuthStore()
	svc := NewAuthService(st, testConfig())

	user, err := svc.Signup(context.Background(), "Alice@Example.com", "Alice", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email, "email is normalized")
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "hunter2hunter2", user.HashedPassword)
	assert.True(t, auth.CheckPasswordHash("hunter2hunter2", user.HashedPassword))

	token, loggedIn, err := svc.Login(context.Background(), "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Equal(t, 1, st.touched, "last sign-in updated")
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeAuthStore(), testConfig())

	_, err := svc.Signup(context.Background(), "bob@example.com", "Bob", "password123")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "bob@example.com", "Bobby", "password456")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeAuthStore(), testConfig())

	_, err := svc.Signup(context.Background(), "carol@example.com", "Carol", "correct-horse")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "carol@example.com", "wrong-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewAuthService(newFakeAuthStore(), testConfig())
	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
