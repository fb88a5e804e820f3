package repository

import (
	"errors"

	"threadchat/internal/db"
)

var (
	// ErrNotFound is returned when no record matches the query.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// New builds the credential and thread stores for an open connection.
func New(conn *db.Conn) (UserRepository, ThreadRepository) {
	if conn.Mongo != nil {
		return NewMongoUserRepository(conn.Mongo), NewMongoThreadRepository(conn.Mongo)
	}
	return NewUserRepository(conn.Gorm), NewThreadRepository(conn.Gorm)
}
