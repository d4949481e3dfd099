package file

import (
	"context"
	"testing"

	"pulse-backend/domain/core/entities"
	"pulse-backend/domain/core/valueobjects"
	pkgerrors "pulse-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(dir, zap.NewNop())
	require.NoError(t, err)
	return s, dir
}

func mustPost(t *testing.T, id, authorID string, createdAt int64) *entities.Post {
	t.Helper()
	content, err := valueobjects.NewContent("hello world", 2000)
	require.NoError(t, err)
	p, err := entities.NewPost(id, authorID, content, nil, createdAt)
	require.NoError(t, err)
	return p
}

func TestStore_PostsNewestInsertedFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePost(ctx, mustPost(t, "p1", "alice", 100)))
	require.NoError(t, s.SavePost(ctx, mustPost(t, "p2", "alice", 100)))
	require.NoError(t, s.SavePost(ctx, mustPost(t, "p3", "bob", 200)))

	posts, err := s.PostsByAuthors(ctx, []string{"alice", "bob"})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "p3", posts[0].ID)
	assert.Equal(t, "p2", posts[1].ID)
	assert.Equal(t, "p1", posts[2].ID)
}

func TestStore_PostByIDNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.PostByID(context.Background(), "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePost(ctx, mustPost(t, "p1", "alice", 100)))

	got, err := s.PostByID(ctx, "p1")
	require.NoError(t, err)
	got.LikeUserIDs = append(got.LikeUserIDs, "mallory")

	again, err := s.PostByID(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, again.LikeUserIDs)
}

func TestStore_EdgeSetStaysUnique(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddEdge(ctx, "alice", "bob"))
	require.NoError(t, s.AddEdge(ctx, "alice", "bob"))

	ids, err := s.FollowerIDs(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, ids)

	// Reverse direction is a distinct edge
	has, err := s.HasEdge(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStore_RemoveMissingEdgeIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RemoveEdge(ctx, "alice", "bob"))

	require.NoError(t, s.AddEdge(ctx, "alice", "bob"))
	require.NoError(t, s.RemoveEdge(ctx, "alice", "bob"))

	has, err := s.HasEdge(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStore_SequenceMonotonic(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.Next(ctx)
	require.NoError(t, err)
	second, err := s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)
}

func TestStore_MarkAllReadScopedToRecipient(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	n1, err := entities.NewNotification("n1", "alice", "bob", entities.NotificationFollow, "", 100)
	require.NoError(t, err)
	n2, err := entities.NewNotification("n2", "carol", "bob", entities.NotificationFollow, "", 100)
	require.NoError(t, err)
	require.NoError(t, s.AppendBatch(ctx, []*entities.Notification{n1, n2}))

	require.NoError(t, s.MarkAllRead(ctx, "alice"))
	require.NoError(t, s.MarkAllRead(ctx, "alice"))

	forAlice, err := s.ByRecipient(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, forAlice, 1)
	assert.True(t, forAlice[0].Read)

	forCarol, err := s.ByRecipient(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, forCarol, 1)
	assert.False(t, forCarol[0].Read)
}

func TestStore_AppendBatchKeepsBatchOrderNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	older, err := entities.NewNotification("n0", "alice", "bob", entities.NotificationLike, "p1", 50)
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, older))

	n1, err := entities.NewNotification("n1", "alice", "bob", entities.NotificationPost, "p2", 100)
	require.NoError(t, err)
	n2, err := entities.NewNotification("n2", "alice", "bob", entities.NotificationPost, "p2", 100)
	require.NoError(t, err)
	require.NoError(t, s.AppendBatch(ctx, []*entities.Notification{n1, n2}))

	list, err := s.ByRecipient(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "n2", list[0].ID)
	assert.Equal(t, "n1", list[1].ID)
	assert.Equal(t, "n0", list[2].ID)
}

func TestStore_CreateUserConflicts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	alice := &entities.AuthUser{
		User:         entities.User{ID: "u1", Handle: "alice", Name: "Alice"},
		Email:        "alice@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, s.CreateUser(ctx, alice))

	dupEmail := &entities.AuthUser{
		User:         entities.User{ID: "u2", Handle: "other", Name: "Other"},
		Email:        "alice@example.com",
		PasswordHash: "x",
	}
	err := s.CreateUser(ctx, dupEmail)
	assert.True(t, pkgerrors.IsConflict(err))

	dupHandle := &entities.AuthUser{
		User:         entities.User{ID: "u3", Handle: "alice", Name: "Other"},
		Email:        "other@example.com",
		PasswordHash: "x",
	}
	err = s.CreateUser(ctx, dupHandle)
	assert.True(t, pkgerrors.IsConflict(err))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestStore_StateSurvivesReload(t *testing.T) {
	s, dir := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePost(ctx, mustPost(t, "p1", "alice", 100)))
	require.NoError(t, s.AddEdge(ctx, "alice", "bob"))
	require.NoError(t, s.CreateUser(ctx, &entities.AuthUser{
		User:  entities.User{ID: "u1", Handle: "alice", Name: "Alice"},
		Email: "alice@example.com",
	}))
	_, err := s.Next(ctx)
	require.NoError(t, err)

	reloaded, err := NewStore(dir, zap.NewNop())
	require.NoError(t, err)

	post, err := reloaded.PostByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "alice", post.AuthorID)

	has, err := reloaded.HasEdge(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, has)

	next, err := reloaded.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)

	users, err := reloaded.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
