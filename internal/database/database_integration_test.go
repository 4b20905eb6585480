//go:build integration
// +build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/models"
)

// setupTestDB starts a throwaway PostgreSQL container and returns a migrated
// gorm handle against it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:alpine",
		tcpostgres.WithDatabase("astroview_test"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestMigrateCreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{
		"users", "follows", "posts", "post_images", "post_likes",
		"comments", "comment_likes", "communities", "community_members",
		"shop_items", "celestial_events", "notifications",
	} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %q to exist", table)
		}
	}
}

func TestFollowPairUniqueConstraint(t *testing.T) {
	db := setupTestDB(t)

	users := []models.User{
		{Username: "alice", Email: "alice@example.com", Password: "x"},
		{Username: "bob", Email: "bob@example.com", Password: "x"},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	follow := models.Follow{FollowerID: users[0].ID, FollowingID: users[1].ID}
	if err := db.Create(&follow).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}

	dup := models.Follow{FollowerID: users[0].ID, FollowingID: users[1].ID}
	if err := db.Create(&dup).Error; err == nil {
		t.Fatal("expected duplicate follow pair to violate unique index")
	}
}

func TestPostLikePairUniqueConstraint(t *testing.T) {
	db := setupTestDB(t)

	user := models.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	post := models.Post{AuthorID: user.ID, Content: "m31", Visibility: models.VisibilityPublic}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}

	like := models.PostLike{UserID: user.ID, PostID: post.ID}
	if err := db.Create(&like).Error; err != nil {
		t.Fatalf("create like: %v", err)
	}

	dup := models.PostLike{UserID: user.ID, PostID: post.ID}
	if err := db.Create(&dup).Error; err == nil {
		t.Fatal("expected duplicate like pair to violate unique index")
	}
}
