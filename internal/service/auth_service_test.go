package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"threadchat/internal/auth"
	apperrors "threadchat/internal/errors"
	"threadchat/internal/model"
	"threadchat/internal/repository"
)

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		nameField     string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:      "successful signup",
			email:     "test@example.com",
			password:  "password123",
			nameField: "Test User",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:      "email already exists",
			email:     "existing@example.com",
			password:  "whatever-pass",
			nameField: "Someone Else",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:      "concurrent signup wins the unique index",
			email:     "race@example.com",
			password:  "password123",
			nameField: "Racer",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, repository.ErrNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(repository.ErrDuplicate)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			tokens := auth.NewTokenService("test-secret")
			service := NewAuthService(mockRepo, tokens)
			result, err := service.Signup(context.Background(), tt.email, tt.password, tt.nameField)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, tt.email, result.User.Email)
				assert.Equal(t, tt.nameField, result.User.Name)
				assert.NotEqual(t, tt.password, result.User.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), passwordDigest(tt.password)))

				cost, err := bcrypt.Cost([]byte(result.User.PasswordHash))
				require.NoError(t, err)
				assert.Equal(t, bcryptCost, cost)

				claims, err := tokens.Verify(result.Token)
				require.NoError(t, err)
				assert.Equal(t, result.User.ID, claims.UserID)
				assert.WithinDuration(t, claims.IssuedAt.Add(auth.SignupTokenTTL), claims.ExpiresAt.Time, 0)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, err := bcrypt.GenerateFromPassword(passwordDigest("password123"), bcryptCost)
	require.NoError(t, err)
	stored := &model.User{
		ID:           "5f0c6b8e-8d2f-4a43-9d4c-3f1c1c3f9a10",
		Email:        "test@example.com",
		Name:         "Test User",
		PasswordHash: string(hashedPassword),
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			tokens := auth.NewTokenService("test-secret")
			service := NewAuthService(mockRepo, tokens)
			result, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, stored.ID, result.User.ID)

				claims, err := tokens.Verify(result.Token)
				require.NoError(t, err)
				assert.Equal(t, stored.ID, claims.UserID)
				assert.WithinDuration(t, claims.IssuedAt.Add(auth.LoginTokenTTL), claims.ExpiresAt.Time, 0)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginStoreFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, errors.New("connection refused"))

	service := NewAuthService(mockRepo, auth.NewTokenService("test-secret"))
	_, err := service.Login(context.Background(), "test@example.com", "password123")

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_MultibytePassword(t *testing.T) {
	// 50 characters, 150 bytes.
	password := strings.Repeat("密", 50)
	nearMiss := strings.Repeat("密", 49) + "码"

	var created *model.User
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "wide@example.com").Return(nil, repository.ErrNotFound).Once()
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*model.User) }).
		Return(nil)

	svc := NewAuthService(mockRepo, auth.NewTokenService("test-secret"))
	_, err := svc.Signup(context.Background(), "wide@example.com", password, "Wide Chars")
	require.NoError(t, err)
	require.NotNil(t, created)

	mockRepo.On("FindByEmail", mock.Anything, "wide@example.com").Return(created, nil)

	result, err := svc.Login(context.Background(), "wide@example.com", password)
	require.NoError(t, err)
	assert.Equal(t, created.ID, result.User.ID)

	_, err = svc.Login(context.Background(), "wide@example.com", nearMiss)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
