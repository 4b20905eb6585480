package feed

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/astroview/backend/internal/models"
	"github.com/astroview/backend/internal/social"
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
		&models.PostImage{},
		&models.PostLike{},
		&models.Community{},
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

func createPostAt(t *testing.T, db *gorm.DB, authorID uint, visibility string, at time.Time) models.Post {
	t.Helper()

	post := models.Post{
		AuthorID:   authorID,
		Content:    fmt.Sprintf("post by %d at %s", authorID, at.Format(time.RFC3339)),
		Visibility: visibility,
		CreatedAt:  at,
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func follow(t *testing.T, db *gorm.DB, graph *social.Store, followerID, targetID uint) {
	t.Helper()
	_, err := graph.Follow(context.Background(), followerID, targetID)
	require.NoError(t, err)
}

func TestGenerateMergesFollowedAndPublic(t *testing.T) {
	db := setupDB(t)
	graph := social.NewStore(db)
	composer := NewComposer(db, graph)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	a := createUser(t, db, "astro_a")
	b := createUser(t, db, "astro_b")
	c := createUser(t, db, "astro_c")

	follow(t, db, graph, viewer.ID, a.ID)
	follow(t, db, graph, viewer.ID, b.ID)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// a: three public posts, b: two followers-only posts, c: one public post.
	createPostAt(t, db, a.ID, models.VisibilityPublic, base.Add(1*time.Hour))
	createPostAt(t, db, a.ID, models.VisibilityPublic, base.Add(2*time.Hour))
	createPostAt(t, db, a.ID, models.VisibilityPublic, base.Add(3*time.Hour))
	createPostAt(t, db, b.ID, models.VisibilityFollowers, base.Add(4*time.Hour))
	createPostAt(t, db, b.ID, models.VisibilityFollowers, base.Add(5*time.Hour))
	newest := createPostAt(t, db, c.ID, models.VisibilityPublic, base.Add(6*time.Hour))

	// The viewer's own private post must not show up, even for themselves.
	createPostAt(t, db, viewer.ID, models.VisibilityPrivate, base.Add(7*time.Hour))

	page, err := composer.Generate(ctx, viewer.ID, 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, 6, page.Count)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.Pages)
	require.Len(t, page.Posts, 6)

	// Newest first.
	assert.Equal(t, newest.ID, page.Posts[0].ID)
	for i := 1; i < len(page.Posts); i++ {
		assert.False(t, page.Posts[i].CreatedAt.After(page.Posts[i-1].CreatedAt))
	}
}

func TestGenerateFollowedAuthorNotDoubleCounted(t *testing.T) {
	db := setupDB(t)
	graph := social.NewStore(db)
	composer := NewComposer(db, graph)

	viewer := createUser(t, db, "viewer")
	a := createUser(t, db, "astro_a")
	follow(t, db, graph, viewer.ID, a.ID)

	// Public post by a followed author matches both halves of the predicate
	// but must appear exactly once.
	createPostAt(t, db, a.ID, models.VisibilityPublic, time.Now())

	page, err := composer.Generate(context.Background(), viewer.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Posts, 1)
}

func TestGenerateEmptyFollowSet(t *testing.T) {
	db := setupDB(t)
	graph := social.NewStore(db)
	composer := NewComposer(db, graph)

	viewer := createUser(t, db, "viewer")
	a := createUser(t, db, "astro_a")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pub := createPostAt(t, db, a.ID, models.VisibilityPublic, base)
	createPostAt(t, db, a.ID, models.VisibilityFollowers, base.Add(time.Hour))
	createPostAt(t, db, a.ID, models.VisibilityPrivate, base.Add(2*time.Hour))

	page, err := composer.Generate(context.Background(), viewer.ID, 1, 10)
	require.NoError(t, err)

	// Not following anyone: only public posts remain.
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, pub.ID, page.Posts[0].ID)
}

func TestGeneratePagination(t *testing.T) {
	db := setupDB(t)
	graph := social.NewStore(db)
	composer := NewComposer(db, graph)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	a := createUser(t, db, "astro_a")

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		createPostAt(t, db, a.ID, models.VisibilityPublic, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := composer.Generate(ctx, viewer.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 10, page.Count)
	assert.Equal(t, 3, page.Pages)

	last, err := composer.Generate(ctx, viewer.ID, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, last.Count)

	// Pages never overlap.
	seen := make(map[uint]bool)
	for p := 1; p <= 3; p++ {
		result, err := composer.Generate(ctx, viewer.ID, p, 10)
		require.NoError(t, err)
		for _, post := range result.Posts {
			assert.False(t, seen[post.ID])
			seen[post.ID] = true
		}
	}
	assert.Len(t, seen, 25)

	// Beyond the last page: empty but well-formed.
	beyond, err := composer.Generate(ctx, viewer.ID, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, beyond.Count)
	assert.Equal(t, int64(25), beyond.Total)
	assert.Equal(t, 3, beyond.Pages)
	assert.NotNil(t, beyond.Posts)
}

func TestGenerateClampsPageAndLimit(t *testing.T) {
	db := setupDB(t)
	graph := social.NewStore(db)
	composer := NewComposer(db, graph)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	a := createUser(t, db, "astro_a")

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		createPostAt(t, db, a.ID, models.VisibilityPublic, base.Add(time.Duration(i)*time.Minute))
	}

	// page 0 and page -3 behave as page 1.
	page, err := composer.Generate(ctx, viewer.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Count)

	page, err = composer.Generate(ctx, viewer.ID, -3, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)

	// limit 0 falls back to the default page size.
	page, err = composer.Generate(ctx, viewer.ID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, page.Count)
	assert.Equal(t, 2, page.Pages)
}

func TestGenerateEmptyDatabase(t *testing.T) {
	db := setupDB(t)
	composer := NewComposer(db, social.NewStore(db))

	viewer := createUser(t, db, "viewer")

	page, err := composer.Generate(context.Background(), viewer.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.Pages)
	assert.NotNil(t, page.Posts)
	assert.Len(t, page.Posts, 0)
}

func TestGenerateUnknownUser(t *testing.T) {
	db := setupDB(t)
	composer := NewComposer(db, social.NewStore(db))

	_, err := composer.Generate(context.Background(), 9999, 1, 10)
	assert.ErrorIs(t, err, social.ErrUserNotFound)
}

func TestGenerateTimestampTieBreak(t *testing.T) {
	db := setupDB(t)
	graph := social.NewStore(db)
	composer := NewComposer(db, graph)

	viewer := createUser(t, db, "viewer")
	a := createUser(t, db, "astro_a")

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := createPostAt(t, db, a.ID, models.VisibilityPublic, at)
	second := createPostAt(t, db, a.ID, models.VisibilityPublic, at)

	page, err := composer.Generate(context.Background(), viewer.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)

	// Identical timestamps: the higher (later) ID wins.
	assert.Equal(t, second.ID, page.Posts[0].ID)
	assert.Equal(t, first.ID, page.Posts[1].ID)
}

func TestSuggestedUsers(t *testing.T) {
	db := setupDB(t)
	graph := social.NewStore(db)
	composer := NewComposer(db, graph)
	ctx := context.Background()

	viewer := createUser(t, db, "viewer")
	popular := createUser(t, db, "popular")
	quiet := createUser(t, db, "quiet")
	followed := createUser(t, db, "followed")

	follow(t, db, graph, viewer.ID, followed.ID)
	for i := 0; i < 3; i++ {
		fan := createUser(t, db, fmt.Sprintf("fan%d", i))
		follow(t, db, graph, fan.ID, popular.ID)
	}

	users, err := composer.SuggestedUsers(ctx, viewer.ID, 10)
	require.NoError(t, err)

	ids := make(map[uint]bool)
	for _, u := range users {
		ids[u.ID] = true
	}
	// Never the viewer, never someone already followed.
	assert.False(t, ids[viewer.ID])
	assert.False(t, ids[followed.ID])
	assert.True(t, ids[popular.ID])
	assert.True(t, ids[quiet.ID])

	// Most-followed first.
	require.NotEmpty(t, users)
	assert.Equal(t, popular.ID, users[0].ID)
}
