package community

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rekhigroup/livplus-backend/pkg/config"
	"github.com/rekhigroup/livplus-backend/pkg/db"
	pkgerrors "github.com/rekhigroup/livplus-backend/pkg/errors"
	"github.com/rekhigroup/livplus-backend/pkg/outbox"
)

func setupCommunityService(t *testing.T) Service {
	t.Helper()

	dsn := "file:community_" + uuid.NewString() + "?mode=memory&cache=shared"
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ddl := `
CREATE TABLE IF NOT EXISTS community_threads (
  id TEXT PRIMARY KEY,
  author TEXT NOT NULL,
  avatar_url TEXT,
  question TEXT NOT NULL,
  details TEXT,
  tags TEXT NOT NULL DEFAULT '{}',
  likes INTEGER NOT NULL DEFAULT 0,
  views INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS community_replies (
  id TEXT PRIMARY KEY,
  thread_id TEXT NOT NULL,
  author TEXT NOT NULL,
  avatar_url TEXT,
  text TEXT NOT NULL,
  likes INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT,
  published_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, client.DB().Exec(ddl).Error)

	events := outbox.NewService(outbox.NewRepository(client.DB()), nil)
	svc, err := NewService(NewRepository(client.DB()), client, events)
	require.NoError(t, err)
	return svc
}

func postThread(t *testing.T, svc Service, question string) uuid.UUID {
	t.Helper()
	row, err := svc.CreateThread(context.Background(), ThreadInput{
		Author:   "Ravi",
		Question: question,
		Tags:     []string{" Sleep ", "ashwagandha", ""},
	})
	require.NoError(t, err)
	return row.ID
}

func TestCreateThreadNormalizesTags(t *testing.T) {
	svc := setupCommunityService(t)

	id := postThread(t, svc, "Does ashwagandha help with sleep?")

	thread, err := svc.GetThread(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"sleep", "ashwagandha"}, []string(thread.Tags))
	assert.Zero(t, thread.Likes)
	assert.Zero(t, thread.Views)
}

func TestCreateThreadValidation(t *testing.T) {
	svc := setupCommunityService(t)

	_, err := svc.CreateThread(context.Background(), ThreadInput{Author: "", Question: "q"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.CreateThread(context.Background(), ThreadInput{Author: "Ravi", Question: "  "})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestRepliesComeBackOldestFirst(t *testing.T) {
	svc := setupCommunityService(t)
	id := postThread(t, svc, "Best time to take triphala?")

	for _, text := range []string{"Morning works for me", "Before bed is traditional"} {
		_, err := svc.AddReply(context.Background(), id, ReplyInput{Author: "Meera", Text: text})
		require.NoError(t, err)
	}

	replies, err := svc.ListReplies(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, replies, 2)

	thread, err := svc.GetThread(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, thread.Replies, 2)
}

func TestAddReplyToUnknownThread(t *testing.T) {
	svc := setupCommunityService(t)

	_, err := svc.AddReply(context.Background(), uuid.New(), ReplyInput{Author: "Meera", Text: "hello"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestLikeAndViewCountersIncrement(t *testing.T) {
	svc := setupCommunityService(t)
	id := postThread(t, svc, "Neem for skin?")

	require.NoError(t, svc.LikeThread(context.Background(), id))
	require.NoError(t, svc.LikeThread(context.Background(), id))
	require.NoError(t, svc.RecordView(context.Background(), id))

	thread, err := svc.GetThread(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, thread.Likes)
	assert.Equal(t, 1, thread.Views)
}

func TestLikeUnknownThreadIsNotFound(t *testing.T) {
	svc := setupCommunityService(t)

	err := svc.LikeThread(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListThreadsNewestFirst(t *testing.T) {
	svc := setupCommunityService(t)
	postThread(t, svc, "first question")
	postThread(t, svc, "second question")

	rows, err := svc.ListThreads(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
}
