package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"threadchat/internal/model"
)

// ThreadRepository defines conversation persistence. Every operation is
// scoped to the owning user.
type ThreadRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Thread, error)
	FindMessages(ctx context.Context, userID, threadID string) ([]model.Message, error)
	// AppendTurn creates the thread with title if it does not exist and
	// appends messages in order, atomically.
	AppendTurn(ctx context.Context, userID, threadID, title string, messages []model.Message) error
	Delete(ctx context.Context, userID, threadID string) error
}

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository builds a GORM-backed thread store.
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func messagesInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("seq ASC")
}

func (r *threadRepository) ListByUser(ctx context.Context, userID string) ([]model.Thread, error) {
	threads := []model.Thread{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Preload("Messages", messagesInOrder).
		Find(&threads).Error; err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	return threads, nil
}

func (r *threadRepository) FindMessages(ctx context.Context, userID, threadID string) ([]model.Message, error) {
	var thread model.Thread
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND thread_id = ?", userID, threadID).
		Preload("Messages", messagesInOrder).
		First(&thread).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find thread: %w", err)
	}
	if thread.Messages == nil {
		return []model.Message{}, nil
	}
	return thread.Messages, nil
}

// AppendTurn inserts the thread row if missing, then locks it and appends the
// messages after its current sequence counter.
func (r *threadRepository) AppendTurn(ctx context.Context, userID, threadID, title string, messages []model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := model.Thread{UserID: userID, ThreadID: threadID, Title: title}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return fmt.Errorf("create thread: %w", err)
		}

		var locked model.Thread
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND thread_id = ?", userID, threadID).
			First(&locked).Error; err != nil {
			return fmt.Errorf("lock thread: %w", err)
		}

		rows := make([]model.Message, len(messages))
		for i, m := range messages {
			rows[i] = model.Message{
				ThreadRef: locked.ID,
				Seq:       locked.NextSeq + i,
				Role:      m.Role,
				Content:   m.Content,
			}
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("append messages: %w", err)
			}
		}

		if err := tx.Model(&model.Thread{}).
			Where("id = ?", locked.ID).
			Updates(map[string]any{
				"next_seq":   locked.NextSeq + len(rows),
				"updated_at": time.Now(),
			}).Error; err != nil {
			return fmt.Errorf("advance thread: %w", err)
		}
		return nil
	})
}

func (r *threadRepository) Delete(ctx context.Context, userID, threadID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var thread model.Thread
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND thread_id = ?", userID, threadID).
			First(&thread).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find thread: %w", err)
		}

		if err := tx.Where("thread_ref = ?", thread.ID).Delete(&model.Message{}).Error; err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}
		if err := tx.Delete(&thread).Error; err != nil {
			return fmt.Errorf("delete thread: %w", err)
		}
		return nil
	})
}
