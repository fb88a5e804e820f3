//go:build integration

package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"

	"threadchat/internal/db"
	"threadchat/internal/model"
)

var testMongo *mongo.Database

// TestMain starts a throwaway MongoDB for the document-store repositories.
func TestMain(m *testing.M) {
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("start mongo container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		log.Fatalf("container port: %v", err)
	}

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	testMongo, err = db.NewMongo(ctx, uri, "threadchat_test")
	if err != nil {
		log.Fatalf("connect mongo: %v", err)
	}

	code := m.Run()

	_ = testMongo.Client().Disconnect(ctx)
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestMongoUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoUserRepository(testMongo)
	email := uuid.NewString() + "@example.com"

	user := &model.User{ID: uuid.NewString(), Email: email, Name: "Grace", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "hash", found.PasswordHash)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, email, byID.Email)

	err = repo.Create(ctx, &model.User{ID: uuid.NewString(), Email: email, Name: "Dup"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoThreadRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoThreadRepository(testMongo)
	owner, stranger := uuid.NewString(), uuid.NewString()
	threadID := uuid.NewString()

	require.NoError(t, repo.AppendTurn(ctx, owner, threadID, "hello", model.Turn("hello", "hi")))
	require.NoError(t, repo.AppendTurn(ctx, owner, threadID, "again", model.Turn("again", "hi again")))

	msgs, err := repo.FindMessages(ctx, owner, threadID)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[3].Role)

	threads, err := repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, "hello", threads[0].Title)

	_, err = repo.FindMessages(ctx, stranger, threadID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, stranger, threadID), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, owner, threadID))
	_, err = repo.FindMessages(ctx, owner, threadID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoThreadRepository_ConcurrentTurns(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoThreadRepository(testMongo)
	owner, threadID := uuid.NewString(), uuid.NewString()

	const turns = 10
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q := fmt.Sprintf("q-%d", i)
			assert.NoError(t, repo.AppendTurn(ctx, owner, threadID, q, model.Turn(q, "a-"+q)))
		}(i)
	}
	wg.Wait()

	threads, err := repo.ListByUser(ctx, owner)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	msgs := threads[0].Messages
	require.Len(t, msgs, 2*turns)
	for k := 0; k < turns; k++ {
		assert.Equal(t, "a-"+msgs[2*k].Content, msgs[2*k+1].Content)
	}
}
