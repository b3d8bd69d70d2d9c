package services

import (
	"context"
	"testing"

	"github.com/comitanigiacomo/kanso-fit-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	t.Run("Success: Should register a valid user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, zap.NewNop())
		ctx := context.Background()

		input := RegisterInput{
			Email:    "test_success@kanso.app",
			Password: "StrongPassword123!",
		}

		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := service.Register(ctx, input)

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, input.Email, user.Email)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, user.PasswordHash)
		assert.Equal(t, domain.RolePatient, user.Role)

		mockRepo.AssertExpectations(t)
	})

	t.Run("Success: Should register a coach", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, zap.NewNop())
		ctx := context.Background()

		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

		user, err := service.Register(ctx, RegisterInput{Email: "coach@kanso.app", Password: "StrongPassword123!", Role: "coach"})

		assert.NoError(t, err)
		assert.Equal(t, domain.RoleCoach, user.Role)
	})

	t.Run("Fail: Should reject unknown role", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, zap.NewNop())

		user, err := service.Register(context.Background(), RegisterInput{Email: "x@kanso.app", Password: "StrongPassword123!", Role: "root"})

		assert.ErrorIs(t, err, domain.ErrInvalidRole)
		assert.Nil(t, user)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should return error for invalid email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, zap.NewNop())
		ctx := context.Background()

		input := RegisterInput{Email: "not-an-email", Password: "pass"}

		user, err := service.Register(ctx, input)

		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		assert.Nil(t, user)

		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should return error for short password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, zap.NewNop())
		ctx := context.Background()

		input := RegisterInput{Email: "valid@email.com", Password: "short"}

		user, err := service.Register(ctx, input)

		assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
		assert.Nil(t, user)

		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Fail: Should propagate repository error (Duplicate Email)", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, zap.NewNop())
		ctx := context.Background()

		input := RegisterInput{Email: "duplicate@email.com", Password: "StrongPassword123!"}

		mockRepo.On("Create", ctx, mock.Anything).Return(domain.ErrEmailAlreadyExists)

		user, err := service.Register(ctx, input)

		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		assert.Nil(t, user)

		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	stored, err := domain.NewUser("user-1", "login@kanso.app", domain.RolePatient)
	if err != nil {
		t.Fatal(err)
	}
	if err := stored.SetPassword("StrongPassword123!"); err != nil {
		t.Fatal(err)
	}

	t.Run("Success: Should accept correct credentials", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, zap.NewNop())

		mockRepo.On("GetByEmail", mock.Anything, "login@kanso.app").Return(stored, nil)

		user, err := service.Login(context.Background(), LoginInput{Email: "  LOGIN@kanso.app ", Password: "StrongPassword123!"})

		assert.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Fail: Wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, zap.NewNop())

		mockRepo.On("GetByEmail", mock.Anything, "login@kanso.app").Return(stored, nil)

		user, err := service.Login(context.Background(), LoginInput{Email: "login@kanso.app", Password: "nope-nope-nope"})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Nil(t, user)
	})

	t.Run("Fail: Unknown email looks like a wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, zap.NewNop())

		mockRepo.On("GetByEmail", mock.Anything, "ghost@kanso.app").Return(nil, domain.ErrUserNotFound)

		_, err := service.Login(context.Background(), LoginInput{Email: "ghost@kanso.app", Password: "whatever123"})

		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("Fail: Repository errors are not masked", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := NewAuthService(mockRepo, zap.NewNop())

		mockRepo.On("GetByEmail", mock.Anything, "login@kanso.app").Return(nil, assert.AnError)

		_, err := service.Login(context.Background(), LoginInput{Email: "login@kanso.app", Password: "whatever123"})

		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
