package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-club/meridian/internal/auth"
	"github.com/meridian-club/meridian/internal/shared"
	_ "github.com/meridian-club/meridian/testing"
)

type mockRepo struct {
	byEmail map[string]*auth.User
	nextID  int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{byEmail: make(map[string]*auth.User), nextID: 1}
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockRepo) CreateUser(ctx context.Context, name, email, passwordHash string, role shared.Role) (*auth.User, error) {
	if _, ok := m.byEmail[email]; ok {
		return nil, shared.ErrDuplicateUser
	}
	user := &auth.User{ID: m.nextID, Name: name, Email: email, PasswordHash: passwordHash, Role: role}
	m.nextID++
	m.byEmail[email] = user
	copied := *user
	return &copied, nil
}

func TestRegisterHashesPasswordAndForcesUserRole(t *testing.T) {
	repo := newMockRepo()
	service := auth.NewService(repo, bcrypt.MinCost)

	user, err := service.Register(context.Background(), auth.RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, shared.RoleUser, user.Role)
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newMockRepo()
	service := auth.NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	_, err := service.Register(ctx, auth.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = service.Register(ctx, auth.RegisterInput{Name: "Imposter", Email: "ada@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, shared.ErrDuplicateUser)
	assert.Len(t, repo.byEmail, 1)
}

func TestAuthenticateRoundTripAfterRegister(t *testing.T) {
	repo := newMockRepo()
	service := auth.NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	created, err := service.Register(ctx, auth.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)

	user, err := service.Authenticate(ctx, "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	projection := user.Projection()
	assert.Equal(t, shared.UserProjection{ID: created.ID, Name: "Ada", Email: "ada@example.com", Role: shared.RoleUser}, projection)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	repo := newMockRepo()
	service := auth.NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	_, err := service.Register(ctx, auth.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)

	_, wrongPassword := service.Authenticate(ctx, "ada@example.com", "not-it")
	_, unknownEmail := service.Authenticate(ctx, "nobody@example.com", "secret")

	assert.ErrorIs(t, wrongPassword, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, shared.ErrInvalidCredentials)
	assert.Equal(t, shared.UserSafeMessage(wrongPassword), shared.UserSafeMessage(unknownEmail))
}

func TestRegisterAndAuthenticateAtPasswordLengthCeiling(t *testing.T) {
	repo := newMockRepo()
	service := auth.NewService(repo, bcrypt.MinCost)
	ctx := context.Background()

	// 100 characters, past bcrypt's 72 byte input limit.
	long := strings.Repeat("p", 100)
	_, err := service.Register(ctx, auth.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: long})
	require.NoError(t, err)

	user, err := service.Authenticate(ctx, "ada@example.com", long)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestServiceClampsBcryptCost(t *testing.T) {
	repo := newMockRepo()
	// An absurd cost must not break registration.
	service := auth.NewService(repo, 99)

	_, err := service.Register(context.Background(), auth.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
}
