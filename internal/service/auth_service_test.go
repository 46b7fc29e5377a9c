package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/KanujanS/LMS/internal/ctxdata"
	"github.com/KanujanS/LMS/internal/errdefs"
	"github.com/KanujanS/LMS/internal/model"
	"github.com/KanujanS/LMS/internal/service"
	"github.com/KanujanS/LMS/internal/service/mocks"
)

const testJWTSecret = "test-secret"

func TestAuthService_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		users := &mocks.UserRepository{}
		svc := service.NewAuthService(users, testJWTSecret, time.Hour)

		users.On("CreateUser", mock.Anything, mock.MatchedBy(func(input *model.RepositoryCreateUserInput) bool {
			return input.Name == "Alex" &&
				input.Email == "alex@example.com" &&
				input.Role == model.RoleStudent &&
				input.PasswordHash != "" &&
				input.PasswordHash != "secret-password"
		})).Return(&model.User{Id: uuid.New(), Name: "Alex", Email: "alex@example.com", Role: model.RoleStudent}, nil)

		user, token, err := svc.Register(context.Background(), &model.RegisterInput{
			Name:     " Alex ",
			Email:    "Alex@Example.com",
			Password: "secret-password",
		})
		require.NoError(t, err)
		assert.Equal(t, "alex@example.com", user.Email)
		assert.NotEmpty(t, token)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		svc := service.NewAuthService(&mocks.UserRepository{}, testJWTSecret, time.Hour)

		_, _, err := svc.Register(context.Background(), &model.RegisterInput{
			Name:     "Alex",
			Email:    "alex@example.com",
			Password: "short",
		})
		assert.ErrorIs(t, err, errdefs.ErrValidation)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		svc := service.NewAuthService(&mocks.UserRepository{}, testJWTSecret, time.Hour)

		_, _, err := svc.Register(context.Background(), &model.RegisterInput{
			Name:     "Alex",
			Email:    "not-an-email",
			Password: "secret-password",
		})
		assert.ErrorIs(t, err, errdefs.ErrValidation)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		users := &mocks.UserRepository{}
		svc := service.NewAuthService(users, testJWTSecret, time.Hour)

		users.On("CreateUser", mock.Anything, mock.Anything).Return(nil, errdefs.ErrAlreadyExists)

		_, _, err := svc.Register(context.Background(), &model.RegisterInput{
			Name:     "Alex",
			Email:    "alex@example.com",
			Password: "secret-password",
		})
		assert.ErrorIs(t, err, errdefs.ErrAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	storedUser := &model.User{
		Id:           uuid.New(),
		Email:        "alex@example.com",
		PasswordHash: string(passwordHash),
		Role:         model.RoleStudent,
	}

	t.Run("Success", func(t *testing.T) {
		users := &mocks.UserRepository{}
		svc := service.NewAuthService(users, testJWTSecret, time.Hour)

		users.On("GetUserByEmail", mock.Anything, "alex@example.com").Return(storedUser, nil)

		user, token, err := svc.Login(context.Background(), &model.LoginInput{
			Email:    "alex@example.com",
			Password: "secret-password",
		})
		require.NoError(t, err)
		assert.Equal(t, storedUser.Id, user.Id)
		assert.NotEmpty(t, token)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		users := &mocks.UserRepository{}
		svc := service.NewAuthService(users, testJWTSecret, time.Hour)

		users.On("GetUserByEmail", mock.Anything, "alex@example.com").Return(storedUser, nil)

		_, _, err := svc.Login(context.Background(), &model.LoginInput{
			Email:    "alex@example.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, errdefs.ErrAuthentication)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		users := &mocks.UserRepository{}
		svc := service.NewAuthService(users, testJWTSecret, time.Hour)

		users.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, errdefs.ErrNotFound)

		_, _, err := svc.Login(context.Background(), &model.LoginInput{
			Email:    "nobody@example.com",
			Password: "secret-password",
		})
		assert.ErrorIs(t, err, errdefs.ErrAuthentication)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	storedUser := &model.User{Id: uuid.New(), Email: "alex@example.com", Role: model.RoleStudent}

	issueToken := func(t *testing.T, users *mocks.UserRepository) string {
		t.Helper()
		svc := service.NewAuthService(users, testJWTSecret, time.Hour)
		users.On("GetUserByEmail", mock.Anything, "alex@example.com").Return(&model.User{
			Id:           storedUser.Id,
			Email:        storedUser.Email,
			PasswordHash: mustHash(t, "secret-password"),
		}, nil).Once()
		_, token, err := svc.Login(context.Background(), &model.LoginInput{
			Email:    "alex@example.com",
			Password: "secret-password",
		})
		require.NoError(t, err)
		return token
	}

	t.Run("Success_ResolvesLiveUser", func(t *testing.T) {
		users := &mocks.UserRepository{}
		token := issueToken(t, users)
		svc := service.NewAuthService(users, testJWTSecret, time.Hour)

		// Live record carries a newer role than the one at token issue time.
		users.On("GetUser", mock.Anything, storedUser.Id).Return(&model.User{
			Id:   storedUser.Id,
			Role: model.RoleEducator,
		}, nil)

		user, err := svc.Authenticate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, model.RoleEducator, user.Role)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		svc := service.NewAuthService(&mocks.UserRepository{}, testJWTSecret, time.Hour)

		_, err := svc.Authenticate(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, errdefs.ErrAuthentication)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		users := &mocks.UserRepository{}
		token := issueToken(t, users)
		svc := service.NewAuthService(users, "another-secret", time.Hour)

		_, err := svc.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, errdefs.ErrAuthentication)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		users := &mocks.UserRepository{}
		issuer := service.NewAuthService(users, testJWTSecret, -time.Hour)
		users.On("GetUserByEmail", mock.Anything, "alex@example.com").Return(&model.User{
			Id:           storedUser.Id,
			Email:        storedUser.Email,
			PasswordHash: mustHash(t, "secret-password"),
		}, nil)
		_, token, err := issuer.Login(context.Background(), &model.LoginInput{
			Email:    "alex@example.com",
			Password: "secret-password",
		})
		require.NoError(t, err)

		svc := service.NewAuthService(users, testJWTSecret, time.Hour)
		_, err = svc.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, errdefs.ErrAuthentication)
	})

	t.Run("DeletedUser", func(t *testing.T) {
		users := &mocks.UserRepository{}
		token := issueToken(t, users)
		svc := service.NewAuthService(users, testJWTSecret, time.Hour)

		users.On("GetUser", mock.Anything, storedUser.Id).Return(nil, errdefs.ErrNotFound)

		_, err := svc.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, errdefs.ErrAuthentication)
	})
}

func TestAuthService_BecomeEducator(t *testing.T) {
	userID := uuid.New()
	ctx := ctxdata.WithUserID(context.Background(), userID)

	t.Run("Success_ReissuesToken", func(t *testing.T) {
		users := &mocks.UserRepository{}
		svc := service.NewAuthService(users, testJWTSecret, time.Hour)

		users.On("UpdateUserRole", mock.Anything, userID, model.RoleEducator).Return(&model.User{
			Id:   userID,
			Role: model.RoleEducator,
		}, nil)

		user, token, err := svc.BecomeEducator(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.RoleEducator, user.Role)
		assert.NotEmpty(t, token)
	})

	t.Run("NoUserInContext", func(t *testing.T) {
		svc := service.NewAuthService(&mocks.UserRepository{}, testJWTSecret, time.Hour)

		_, _, err := svc.BecomeEducator(context.Background())
		assert.ErrorIs(t, err, errdefs.ErrAuthentication)
	})
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}
