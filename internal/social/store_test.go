package social

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/astroview/backend/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.PostLike{},
		&models.Comment{},
		&models.CommentLike{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createPost(t *testing.T, db *gorm.DB, authorID uint, visibility string) models.Post {
	t.Helper()

	post := models.Post{
		AuthorID:   authorID,
		Content:    "test post",
		Visibility: visibility,
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func TestFollow(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	count, err := store.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The single follow row is visible from both ends.
	following, err := store.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := store.Followers(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, alice.ID, followers[0].ID)

	followed, err := store.Following(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, followed, 1)
	assert.Equal(t, bob.ID, followed[0].ID)

	followingCount, err := store.FollowingCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followingCount)
}

func TestFollowSelf(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)

	alice := createUser(t, db, "alice")

	_, err := store.Follow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollowTwice(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := store.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = store.Follow(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	// The duplicate attempt must not have changed the count.
	count, err := store.FollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestFollowUnknownUser(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)

	alice := createUser(t, db, "alice")

	_, err := store.Follow(context.Background(), alice.ID, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnfollow(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	_, err := store.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	count, err := store.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	following, err := store.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	_, err = store.Unfollow(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFollowing)
}

func TestLikePost(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, bob.ID, models.VisibilityPublic)

	count, liked, err := store.LikePost(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	hasLiked, err := store.HasLikedPost(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, hasLiked)

	_, _, err = store.LikePost(ctx, alice.ID, post.ID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	count, liked, err = store.UnlikePost(ctx, alice.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)

	_, _, err = store.UnlikePost(ctx, alice.ID, post.ID)
	assert.ErrorIs(t, err, ErrNotLiked)
}

func TestLikeUnknownPost(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)

	alice := createUser(t, db, "alice")

	_, _, err := store.LikePost(context.Background(), alice.ID, 9999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestLikeComment(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	post := createPost(t, db, bob.ID, models.VisibilityPublic)

	comment := models.Comment{PostID: post.ID, AuthorID: bob.ID, Content: "nice shot"}
	require.NoError(t, db.Create(&comment).Error)

	count, liked, err := store.LikeComment(ctx, alice.ID, comment.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), count)

	_, _, err = store.LikeComment(ctx, alice.ID, comment.ID)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	count, liked, err = store.UnlikeComment(ctx, alice.ID, comment.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), count)

	_, _, err = store.UnlikeComment(ctx, alice.ID, comment.ID)
	assert.ErrorIs(t, err, ErrNotLiked)

	_, _, err = store.LikeComment(ctx, alice.ID, 9999)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestDistinctUsersLikeSamePost(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	author := createUser(t, db, "author")
	post := createPost(t, db, author.ID, models.VisibilityPublic)

	for i := 0; i < 3; i++ {
		fan := createUser(t, db, fmt.Sprintf("fan%d", i))
		count, _, err := store.LikePost(ctx, fan.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), count)
	}
}

func TestRemoveUser(t *testing.T) {
	db := setupDB(t)
	store := NewStore(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")
	post := createPost(t, db, carol.ID, models.VisibilityPublic)

	_, err := store.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = store.Follow(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	_, _, err = store.LikePost(ctx, alice.ID, post.ID)
	require.NoError(t, err)

	require.NoError(t, store.RemoveUser(ctx, alice.ID))

	// Every edge touching alice is gone; the carol-independent state stays.
	count, err := store.FollowerCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = store.FollowingCount(ctx, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = store.PostLikeCount(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
