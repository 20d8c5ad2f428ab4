package redis

import (
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/jeopardy-api/internal/pkg/errors"
)

func TestNewCacheRepo_NilClient(t *testing.T) {
	repo, err := NewCacheRepo(nil, "jeopardy:")

	assert.Error(t, err)
	assert.Nil(t, repo)
}

func TestCacheRepo_KeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	repo, err := NewCacheRepo(client, "jeopardy:")
	require.NoError(t, err)

	assert.Equal(t, "jeopardy:game:abc", repo.key("game:abc"))
}

func TestCacheRepo_UnreachableRedis(t *testing.T) {
	// Arrange: порт 1 на localhost гарантированно закрыт
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()
	repo, err := NewCacheRepo(client, "jeopardy:")
	require.NoError(t, err)

	// Act
	var dest map[string]int
	getErr := repo.GetJSON("snapshot:x", &dest)
	_, setErr := repo.SetNX("archived:x", 1, time.Minute)

	// Assert: ошибка соединения не выдается за промах кеша
	assert.Error(t, getErr)
	assert.NotErrorIs(t, getErr, apperrors.ErrNotFound)
	assert.Error(t, setErr)
}

func TestCacheRepo_SetJSONMarshalError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	repo, err := NewCacheRepo(client, "")
	require.NoError(t, err)

	err = repo.SetJSON("bad", make(chan int), time.Minute)

	assert.ErrorContains(t, err, "marshal cache value bad")
}
