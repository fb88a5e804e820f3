package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "threadchat/internal/errors"
	"threadchat/internal/llm"
	"threadchat/internal/logger"
	"threadchat/internal/model"
	"threadchat/internal/repository"
)

// MaxMessageChars caps the length of a user chat message.
const MaxMessageChars = 1000

// ChatReply is the outcome of a chat turn.
type ChatReply struct {
	Reply    string
	ThreadID string
}

// ThreadService exposes the caller's conversations.
type ThreadService interface {
	ListThreads(ctx context.Context, userID string) ([]model.Thread, error)
	GetThreadMessages(ctx context.Context, userID, threadID string) ([]model.Message, error)
	DeleteThread(ctx context.Context, userID, threadID string) error
	// PostChat asks the completion client for a reply and records the turn.
	// An empty threadID starts a new thread.
	PostChat(ctx context.Context, userID, threadID, message string) (*ChatReply, error)
}

type threadService struct {
	threads    repository.ThreadRepository
	completion llm.Client
}

// NewThreadService creates the thread service.
func NewThreadService(threads repository.ThreadRepository, completion llm.Client) ThreadService {
	return &threadService{threads: threads, completion: completion}
}

func (s *threadService) ListThreads(ctx context.Context, userID string) ([]model.Thread, error) {
	threads, err := s.threads.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	return threads, nil
}

func (s *threadService) GetThreadMessages(ctx context.Context, userID, threadID string) ([]model.Message, error) {
	msgs, err := s.threads.FindMessages(ctx, userID, threadID)
	if err != nil {
		return nil, threadError(err)
	}
	return msgs, nil
}

func (s *threadService) DeleteThread(ctx context.Context, userID, threadID string) error {
	if err := s.threads.Delete(ctx, userID, threadID); err != nil {
		return threadError(err)
	}
	logger.InfoWithFields("thread deleted", logger.Fields{"user_id": userID, "thread_id": threadID})
	return nil
}

func (s *threadService) PostChat(ctx context.Context, userID, threadID, message string) (*ChatReply, error) {
	if err := validateChat(threadID, message); err != nil {
		return nil, err
	}
	if threadID == "" {
		threadID = uuid.NewString()
	}

	// Nothing is written unless the completion succeeds.
	reply, err := s.completion.Complete(ctx, message)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUpstream) {
			err = fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
		}
		return nil, err
	}

	if err := s.threads.AppendTurn(ctx, userID, threadID, model.TitleFrom(message), model.Turn(message, reply)); err != nil {
		return nil, fmt.Errorf("save chat turn: %w", err)
	}

	logger.DebugWithFields("chat turn saved", logger.Fields{"user_id": userID, "thread_id": threadID})
	return &ChatReply{Reply: reply, ThreadID: threadID}, nil
}

func validateChat(threadID, message string) error {
	fields := map[string]string{}
	switch n := utf8.RuneCountInString(message); {
	case n == 0:
		fields["message"] = "message is required"
	case n > MaxMessageChars:
		fields["message"] = fmt.Sprintf("message must be at most %d characters", MaxMessageChars)
	}
	if threadID != "" {
		if _, err := uuid.Parse(threadID); err != nil {
			fields["threadId"] = "threadId must be a valid UUID"
		}
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}

func threadError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrThreadNotFound
	}
	return err
}
