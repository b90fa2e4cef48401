package auth_test

import (
	"context"
	"strings"
	"sync"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
	auth "github.com/teachmeit/go-auth"
)

// MockVerifier implements auth.CredentialVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyIdentity(ctx context.Context, email, password string) (auth.Identity, error) {
	args := m.Called(ctx, email, password)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

// MockTokenIssuer implements auth.TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Generate(identity auth.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

// MockMailer implements auth.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendHTML(ctx context.Context, msg auth.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// stubHasher avoids bcrypt cost in workflow tests; hashes are
// recognizable prefixed copies of the plaintext.
type stubHasher struct{}

func (stubHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", auth.ErrNoEmptyString
	}
	return "hashed:" + password, nil
}

func (stubHasher) ComparePasswordAndHash(password, hash string) error {
	if hash != "hashed:"+password {
		return auth.ErrMismatchedHashAndPassword
	}
	return nil
}

// memoryStore is an in-memory auth.UserStore keyed by email.
type memoryStore struct {
	mu        sync.Mutex
	users     map[string]*auth.User
	saveCount int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]*auth.User{}}
}

func (s *memoryStore) key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *memoryStore) Exists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[s.key(email)]
	return ok, nil
}

func (s *memoryStore) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[s.key(email)]
	if !ok {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"email": email})
	}

	clone := *user
	return &clone, nil
}

func (s *memoryStore) Save(_ context.Context, user *auth.User) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveCount++
	clone := *user
	s.users[s.key(user.Email)] = &clone
	return user, nil
}

// failingStore wraps memoryStore and fails Save with a fixed error.
type failingStore struct {
	*memoryStore
	saveErr error
}

func (s *failingStore) Save(ctx context.Context, user *auth.User) (*auth.User, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	return s.memoryStore.Save(ctx, user)
}

func (s *memoryStore) saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCount
}
