package services

import (
	"context"
	"fmt"
	"testing"

	"pulse-backend/domain/config"
	"pulse-backend/domain/core/entities"
	"pulse-backend/domain/core/valueobjects"
	"pulse-backend/infrastructure/persistence/file"
	"pulse-backend/pkg/auth"
	pkgerrors "pulse-backend/pkg/errors"
	"pulse-backend/pkg/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	store         *file.Store
	limits        *config.Holder
	identity      *IdentityService
	graph         *GraphService
	feed          *FeedService
	engagement    *EngagementService
	notifications *NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := file.NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	logger := zap.NewNop()
	metrics := observability.NewMetrics(fmt.Sprintf("test_%s", sanitizeMetricName(t.Name())))
	limits := config.NewHolder(nil)

	tokens, err := auth.NewTokenManager(auth.TokenManagerConfig{
		SecretKey: "test-secret",
		Issuer:    "pulse-test",
	})
	require.NoError(t, err)

	notifier := NewNotificationService(store, store, metrics, logger)
	return &testEnv{
		store:         store,
		limits:        limits,
		identity:      NewIdentityService(store, tokens, limits, logger),
		graph:         NewGraphService(store, store, notifier, logger),
		feed:          NewFeedService(store, store, logger),
		engagement:    NewEngagementService(store, store, store, store, notifier, limits, logger),
		notifications: notifier,
	}
}

func sanitizeMetricName(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

func (e *testEnv) registerUser(t *testing.T, name, handle string) *entities.User {
	t.Helper()
	u, token, err := e.identity.Register(
		context.Background(),
		name,
		handle,
		fmt.Sprintf("%s@example.com", handle),
		"correct-horse",
	)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return u
}

// seedPost writes a post straight to the store so tests control the
// id sequence and timestamp
func (e *testEnv) seedPost(t *testing.T, id, authorID string, createdAt int64) *entities.Post {
	t.Helper()
	content, err := valueobjects.NewContent("post "+id, 2000)
	require.NoError(t, err)
	post, err := entities.NewPost(id, authorID, content, nil, createdAt)
	require.NoError(t, err)
	require.NoError(t, e.store.SavePost(context.Background(), post))
	return post
}

func TestToggleFollow_CreatesThenRemovesEdge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")

	following, err := env.graph.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	is, err := env.graph.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, is)

	// Direction matters
	is, err = env.graph.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, is)

	following, err = env.graph.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	is, err = env.graph.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, is)
}

func TestToggleFollow_SelfIsSilentNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")

	following, err := env.graph.ToggleFollow(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)

	list, err := env.notifications.NotificationsFor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestToggleFollow_MissingTargetSurfacesNotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "Alice", "alice")

	_, err := env.graph.ToggleFollow(context.Background(), alice.ID, "ghost")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestToggleFollow_NotifiesOnFollowOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")

	_, err := env.graph.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = env.graph.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	list, err := env.notifications.NotificationsFor(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entities.NotificationFollow, list[0].Kind)
	assert.Equal(t, alice.ID, list[0].ActorID)
	assert.False(t, list[0].Read)
}

func TestFeedFor_IncludesSelfAndFolloweesNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")
	carol := env.registerUser(t, "Carol", "carol")

	_, err := env.graph.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	own, err := env.engagement.CreatePost(ctx, alice.ID, "from alice", nil)
	require.NoError(t, err)
	followed, err := env.engagement.CreatePost(ctx, bob.ID, "from bob", nil)
	require.NoError(t, err)
	_, err = env.engagement.CreatePost(ctx, carol.ID, "from carol", nil)
	require.NoError(t, err)

	feed, err := env.feed.FeedFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)

	// Same-millisecond creations keep most-recent-first order
	assert.Equal(t, followed.ID, feed.Posts[0].ID)
	assert.Equal(t, own.ID, feed.Posts[1].ID)

	// Unfollowing shrinks the author-set on the next read
	_, err = env.graph.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	feed, err = env.feed.FeedFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, own.ID, feed.Posts[0].ID)
}

func TestFeedFor_AttachesCommentsOldestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")

	post, err := env.engagement.CreatePost(ctx, alice.ID, "hello", nil)
	require.NoError(t, err)

	first, err := env.engagement.AddComment(ctx, bob.ID, post.ID, "first")
	require.NoError(t, err)
	second, err := env.engagement.AddComment(ctx, bob.ID, post.ID, "second")
	require.NoError(t, err)

	feed, err := env.feed.FeedFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed.Comments, 2)
	assert.Equal(t, first.ID, feed.Comments[0].ID)
	assert.Equal(t, second.ID, feed.Comments[1].ID)
}

func TestFeedFor_SortsByCreatedAtNotInsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")

	// Inserted out of timestamp order: 100, 300, 200
	env.seedPost(t, "p1", alice.ID, 100)
	env.seedPost(t, "p2", alice.ID, 300)
	env.seedPost(t, "p3", alice.ID, 200)

	feed, err := env.feed.FeedFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 3)
	assert.Equal(t, "p2", feed.Posts[0].ID)
	assert.Equal(t, "p3", feed.Posts[1].ID)
	assert.Equal(t, "p1", feed.Posts[2].ID)
}

func TestFeedFor_BreaksTimestampTiesBySequence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")

	_, err := env.graph.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// Same millisecond across two authors; the id counter decides
	env.seedPost(t, "p1", bob.ID, 500)
	env.seedPost(t, "p2", alice.ID, 500)
	env.seedPost(t, "p3", bob.ID, 500)

	feed, err := env.feed.FeedFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 3)
	assert.Equal(t, "p3", feed.Posts[0].ID)
	assert.Equal(t, "p2", feed.Posts[1].ID)
	assert.Equal(t, "p1", feed.Posts[2].ID)
}

func TestCreatePost_FansOutToCurrentFollowers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")
	carol := env.registerUser(t, "Carol", "carol")

	_, err := env.graph.ToggleFollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = env.graph.ToggleFollow(ctx, carol.ID, alice.ID)
	require.NoError(t, err)

	post, err := env.engagement.CreatePost(ctx, alice.ID, "news", nil)
	require.NoError(t, err)

	for _, follower := range []*entities.User{bob, carol} {
		list, err := env.notifications.NotificationsFor(ctx, follower.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, entities.NotificationPost, list[0].Kind)
		assert.Equal(t, post.ID, list[0].PostID)
		assert.Equal(t, alice.ID, list[0].ActorID)
	}

	// The author hears nothing about their own post
	own, err := env.notifications.NotificationsFor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, own)
}

func TestCreatePost_NoFollowersNoNotifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")

	post, err := env.engagement.CreatePost(ctx, alice.ID, "into the void", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)

	list, err := env.notifications.NotificationsFor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreatePost_RejectsOverlongContent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "Alice", "alice")

	long := make([]byte, 2001)
	for i := range long {
		long[i] = 'a'
	}

	_, err := env.engagement.CreatePost(context.Background(), alice.ID, string(long), nil)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestToggleLike_IdempotentToggleAndNotification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")

	post, err := env.engagement.CreatePost(ctx, alice.ID, "hello", nil)
	require.NoError(t, err)

	liked, err := env.engagement.ToggleLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, liked.LikeUserIDs)

	unliked, err := env.engagement.ToggleLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.Empty(t, unliked.LikeUserIDs)

	// One like notification from the add; none from the removal
	list, err := env.notifications.NotificationsFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entities.NotificationLike, list[0].Kind)
	assert.Equal(t, post.ID, list[0].PostID)
}

func TestToggleLike_SelfLikeTogglesWithoutNotifying(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")

	post, err := env.engagement.CreatePost(ctx, alice.ID, "hello", nil)
	require.NoError(t, err)

	liked, err := env.engagement.ToggleLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, liked.LikeUserIDs)

	list, err := env.notifications.NotificationsFor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestToggleLike_SelfLikeRejectedWhenDisabled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")

	post, err := env.engagement.CreatePost(ctx, alice.ID, "hello", nil)
	require.NoError(t, err)

	cfg := config.DefaultDomainConfig()
	cfg.AllowSelfLike = false
	env.limits.Set(cfg)

	_, err = env.engagement.ToggleLike(ctx, alice.ID, post.ID)
	assert.True(t, pkgerrors.IsValidation(err))

	// Nothing was written
	stored, err := env.store.PostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.LikeUserIDs)

	// Other users are unaffected by the switch
	updated, err := env.engagement.ToggleLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, updated.LikeUserIDs)
}

func TestToggleLike_MissingPostSurfacesNotFound(t *testing.T) {
	env := newTestEnv(t)
	alice := env.registerUser(t, "Alice", "alice")

	_, err := env.engagement.ToggleLike(context.Background(), alice.ID, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestAddComment_NotifiesAuthorExceptSelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")

	post, err := env.engagement.CreatePost(ctx, alice.ID, "hello", nil)
	require.NoError(t, err)

	_, err = env.engagement.AddComment(ctx, bob.ID, post.ID, "nice")
	require.NoError(t, err)
	_, err = env.engagement.AddComment(ctx, alice.ID, post.ID, "thanks")
	require.NoError(t, err)

	list, err := env.notifications.NotificationsFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entities.NotificationComment, list[0].Kind)
	assert.Equal(t, bob.ID, list[0].ActorID)

	comments, err := env.engagement.CommentsForPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestAddComment_MissingPostWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")

	_, err := env.engagement.AddComment(ctx, alice.ID, "missing", "hello?")
	assert.True(t, pkgerrors.IsNotFound(err))

	list, err := env.notifications.NotificationsFor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotifications_NewestFirstAndMarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")

	post, err := env.engagement.CreatePost(ctx, alice.ID, "hello", nil)
	require.NoError(t, err)
	_, err = env.engagement.ToggleLike(ctx, bob.ID, post.ID)
	require.NoError(t, err)
	_, err = env.engagement.AddComment(ctx, bob.ID, post.ID, "nice")
	require.NoError(t, err)

	list, err := env.notifications.NotificationsFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, entities.NotificationComment, list[0].Kind)
	assert.Equal(t, entities.NotificationLike, list[1].Kind)

	require.NoError(t, env.notifications.MarkAllRead(ctx, alice.ID))
	require.NoError(t, env.notifications.MarkAllRead(ctx, alice.ID))

	list, err = env.notifications.NotificationsFor(ctx, alice.ID)
	require.NoError(t, err)
	for _, n := range list {
		assert.True(t, n.Read)
	}
}

func TestSharedSequenceAcrossRecordKinds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")

	post, err := env.engagement.CreatePost(ctx, alice.ID, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)

	comment, err := env.engagement.AddComment(ctx, bob.ID, post.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "c2", comment.ID)

	// The comment notification consumed id 3
	_, err = env.graph.ToggleFollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	list, err := env.notifications.NotificationsFor(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n4", list[0].ID)
	assert.Equal(t, "n3", list[1].ID)
}

func TestGraph_FollowersFollowingSuggestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")
	bob := env.registerUser(t, "Bob", "bob")
	carol := env.registerUser(t, "Carol", "carol")

	_, err := env.graph.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	followers, err := env.graph.Followers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].ID)

	following, err := env.graph.Following(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)

	suggestions, err := env.graph.Suggestions(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, carol.ID, suggestions[0].ID)
}

func TestIdentity_RegisterLoginRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _, err := env.identity.Register(ctx, "Alice", "@Alice", "Alice@Example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Handle)
	assert.NotEmpty(t, user.AvatarColor)

	// Either identifier works
	byEmail, _, err := env.identity.Login(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byHandle, _, err := env.identity.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byHandle.ID)

	_, _, err = env.identity.Login(ctx, "alice", "wrong-password")
	assert.True(t, pkgerrors.IsUnauthorized(err))

	_, _, err = env.identity.Login(ctx, "nobody", "correct-horse")
	assert.True(t, pkgerrors.IsUnauthorized(err))
}

func TestIdentity_DuplicateRegistrationConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.identity.Register(ctx, "Alice", "alice", "alice@example.com", "correct-horse")
	require.NoError(t, err)

	_, _, err = env.identity.Register(ctx, "Other", "alice", "other@example.com", "correct-horse")
	assert.True(t, pkgerrors.IsConflict(err))

	_, _, err = env.identity.Register(ctx, "Other", "other", "alice@example.com", "correct-horse")
	assert.True(t, pkgerrors.IsConflict(err))
}

func TestIdentity_AvatarPaletteCycles(t *testing.T) {
	env := newTestEnv(t)
	palette := config.DefaultDomainConfig().AvatarPalette

	for i := 0; i < len(palette)+1; i++ {
		u := env.registerUser(t, fmt.Sprintf("User %d", i), fmt.Sprintf("user%d", i))
		assert.Equal(t, palette[i%len(palette)], u.AvatarColor)
	}
}

func TestIdentity_UpdateProfilePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.registerUser(t, "Alice", "alice")

	newName := "Alice A."
	updated, err := env.identity.UpdateProfile(ctx, alice.ID, &newName, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.Name)
	assert.Equal(t, alice.Handle, updated.Handle)

	picture := "https://example.com/a.png"
	updated, err = env.identity.UpdateProfile(ctx, alice.ID, nil, &picture)
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", updated.Name)
	assert.Equal(t, picture, updated.ProfilePicture)

	_, err = env.identity.UpdateProfile(ctx, "ghost", &newName, nil)
	assert.True(t, pkgerrors.IsNotFound(err))
}
