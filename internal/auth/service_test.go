package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"starevents/internal/shared/config"
	"starevents/internal/users"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *users.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role users.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	args := m.Called(ctx, id, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]users.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]users.User), args.Get(1).(int64), args.Error(2)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func TestRegistrationRole(t *testing.T) {
	assert.Equal(t, users.RoleCustomer, registrationRole(""))
	assert.Equal(t, users.RoleCustomer, registrationRole("customer"))
	assert.Equal(t, users.RoleManager, registrationRole("manager"))
	assert.Equal(t, users.RoleManager, registrationRole("MANAGER"))
	assert.Equal(t, users.RoleCustomer, registrationRole("ADMIN"), "admin must not be self-assignable")
	assert.Equal(t, users.RoleCustomer, registrationRole("garbage"))
}

func TestRegisterHashesPasswordAndLowercasesEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testConfig())

	repo.On("EmailExists", mock.Anything, "Ishara@Example.com").Return(false, nil)

	var created *users.User
	repo.On("Create", mock.Anything, mock.AnythingOfType("*users.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*users.User)
			created.ID = uuid.New()
		}).
		Return(nil)

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Ishara",
		LastName:  "Silva",
		Email:     "Ishara@Example.com",
		Password:  "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "ishara@example.com", created.Email)
	assert.NotEqual(t, "password123", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password123")))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testConfig())

	repo.On("EmailExists", mock.Anything, mock.Anything).Return(true, nil)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Ishara",
		LastName:  "Silva",
		Email:     "ishara@example.com",
		Password:  "password123",
	})

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	repo.AssertNotCalled(t, "Create")
}

func TestLoginWrongPassword(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testConfig())

	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	repo.On("GetByEmail", mock.Anything, "ishara@example.com").Return(&users.User{
		ID:       uuid.New(),
		Email:    "ishara@example.com",
		Password: string(hashed),
		Role:     users.RoleCustomer,
	}, nil)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "ishara@example.com",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailMapsToInvalidCredentials(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testConfig())

	repo.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, users.ErrUserNotFound)

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testConfig()).(*service)

	user := &users.User{ID: uuid.New(), Email: "ishara@example.com", Role: users.RoleCustomer}
	accessToken, err := svc.signToken(user, "access", time.Now(), 15*time.Minute)
	assert.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), accessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshReissuesFromUserRecord(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testConfig()).(*service)

	user := &users.User{ID: uuid.New(), Email: "ishara@example.com", Role: users.RoleCustomer}
	refreshToken, err := svc.signToken(user, "refresh", time.Now(), 24*time.Hour)
	assert.NoError(t, err)

	// The role was upgraded after the refresh token was issued; the new
	// access token must carry the current role.
	promoted := *user
	promoted.Role = users.RoleManager
	repo.On("GetByID", mock.Anything, user.ID).Return(&promoted, nil)

	pair, err := svc.RefreshToken(context.Background(), refreshToken)
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, string(users.RoleManager), claims.Role)
	assert.Equal(t, "access", claims.Type)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewService(repo, testConfig()).(*service)

	user := &users.User{ID: uuid.New(), Email: "ishara@example.com", Role: users.RoleCustomer}
	token, err := svc.signToken(user, "access", time.Now(), 15*time.Minute)
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherSecret := testConfig()
	otherSecret.JWT.Secret = "different-secret"
	other := NewService(repo, otherSecret).(*service)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
