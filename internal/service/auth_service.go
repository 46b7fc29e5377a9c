package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/KanujanS/LMS/internal/errdefs"
	"github.com/KanujanS/LMS/internal/model"
)

const minPasswordLength = 8

type AuthService struct {
	userRepository UserRepository
	jwtSecret      []byte
	tokenTTL       time.Duration
}

func NewAuthService(userRepository UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		jwtSecret:      []byte(jwtSecret),
		tokenTTL:       tokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, input *model.RegisterInput) (*model.User, string, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, "", fmt.Errorf("%w: name is required", errdefs.ErrValidation)
	}
	if !strings.Contains(input.Email, "@") {
		return nil, "", fmt.Errorf("%w: invalid email", errdefs.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", errdefs.ErrValidation, minPasswordLength)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	newUserID, err := uuid.NewV7()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate user ID: %w", err)
	}

	user, err := s.userRepository.CreateUser(ctx, &model.RepositoryCreateUserInput{
		Id:           newUserID,
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(passwordHash),
		Role:         model.RoleStudent,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, input *model.LoginInput) (*model.User, string, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return nil, "", errdefs.ErrAuthentication
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", errdefs.ErrAuthentication
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) GetMe(ctx context.Context) (*model.User, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	return s.userRepository.GetUser(ctx, userID)
}

// BecomeEducator elevates the caller to the educator role and hands back a
// fresh token so the new role takes effect without re-login.
func (s *AuthService) BecomeEducator(ctx context.Context) (*model.User, string, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, "", err
	}

	user, err := s.userRepository.UpdateUserRole(ctx, userID, model.RoleEducator)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate validates a bearer token and resolves the live user record, so
// a role change or deletion is picked up on the next request.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errdefs.ErrAuthentication
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errdefs.ErrAuthentication
	}

	user, err := s.userRepository.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return nil, errdefs.ErrAuthentication
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Id.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
