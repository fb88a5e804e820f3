package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"threadchat/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockThreadRepository is a mock implementation of ThreadRepository.
type MockThreadRepository struct {
	mock.Mock
}

func (m *MockThreadRepository) ListByUser(ctx context.Context, userID string) ([]model.Thread, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Thread), args.Error(1)
}

func (m *MockThreadRepository) FindMessages(ctx context.Context, userID, threadID string) ([]model.Message, error) {
	args := m.Called(ctx, userID, threadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockThreadRepository) AppendTurn(ctx context.Context, userID, threadID, title string, messages []model.Message) error {
	args := m.Called(ctx, userID, threadID, title, messages)
	return args.Error(0)
}

func (m *MockThreadRepository) Delete(ctx context.Context, userID, threadID string) error {
	args := m.Called(ctx, userID, threadID)
	return args.Error(0)
}

// MockCompletion is a mock implementation of llm.Client.
type MockCompletion struct {
	mock.Mock
}

func (m *MockCompletion) Complete(ctx context.Context, message string) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}
