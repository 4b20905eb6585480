package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/astroview/backend/internal/database"
	"github.com/astroview/backend/internal/models"
	"github.com/astroview/backend/internal/social"
)

// Seeds the database with an admin account and a small set of demo users,
// posts, follows, shop items and celestial events for local development.
func main() {
	db := database.New().GetDB()
	ctx := context.Background()

	admin := ensureUser(db, "admin", adminEmail(), "Site administrator", models.RoleAdmin)
	stella := ensureUser(db, "stella", "stella@example.com", "Deep sky imager from Chile", models.RoleUser)
	orion := ensureUser(db, "orion_hunter", "orion@example.com", "Visual observer, dob owner", models.RoleUser)
	luna := ensureUser(db, "luna", "luna@example.com", "Lunar and planetary photography", models.RoleUser)

	graph := social.NewStore(db)
	seedFollow(ctx, graph, stella.ID, orion.ID)
	seedFollow(ctx, graph, stella.ID, luna.ID)
	seedFollow(ctx, graph, orion.ID, stella.ID)
	seedFollow(ctx, graph, luna.ID, stella.ID)

	seedPosts(db, stella, orion, luna)
	seedShop(db, admin)
	seedEvents(db, admin)

	log.Println("✅ Seed data written")
}

func adminEmail() string {
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		return email
	}
	return "admin@astroview.local"
}

func ensureUser(db *gorm.DB, username, email, bio, role string) models.User {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err == nil {
		return user
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user = models.User{
		Username:       username,
		Email:          email,
		Password:       string(hash),
		Bio:            bio,
		Role:           role,
		ProfilePicture: models.DefaultProfilePicture(username),
		IsVerified:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create user %s: %v", username, err)
	}
	log.Printf("Created user %s", username)
	return user
}

func seedFollow(ctx context.Context, graph *social.Store, followerID, targetID uint) {
	if _, err := graph.Follow(ctx, followerID, targetID); err != nil && !errors.Is(err, social.ErrAlreadyFollowing) {
		log.Printf("Failed to seed follow %d -> %d: %v", followerID, targetID, err)
	}
}

func seedPosts(db *gorm.DB, stella, orion, luna models.User) {
	var count int64
	db.Model(&models.Post{}).Count(&count)
	if count > 0 {
		return
	}

	capture := time.Now().AddDate(0, 0, -3)
	posts := []models.Post{
		{
			AuthorID:    stella.ID,
			Content:     "Finally got 6 hours of integration on the Carina Nebula. The dynamic range in the core still amazes me.",
			ObjectName:  "NGC 3372",
			ObjectType:  "nebula",
			RA:          "10h 45m 08s",
			Dec:         "-59° 52' 04\"",
			CaptureDate: &capture,
			Location:    "Atacama Desert, Chile",
			Telescope:   "Esprit 100ED",
			Camera:      "ASI2600MC Pro",
			Exposure:    "120x180s",
			Tags:        "nebula,narrowband,southern-sky",
			Visibility:  models.VisibilityPublic,
		},
		{
			AuthorID:   orion.ID,
			Content:    "Observing log from last night: M42 trapezium split cleanly at 200x, seeing was exceptional.",
			ObjectName: "M42",
			ObjectType: "nebula",
			Tags:       "visual,observing-log",
			Visibility: models.VisibilityFollowers,
		},
		{
			AuthorID:   luna.ID,
			Content:    "Waxing gibbous along the terminator tonight. Clavius crater detail through the 8\" SCT.",
			ObjectName: "Moon",
			ObjectType: "moon",
			Telescope:  "Celestron C8",
			Camera:     "ASI178MM",
			Tags:       "moon,lucky-imaging",
			Visibility: models.VisibilityPublic,
		},
	}
	for i := range posts {
		if err := db.Create(&posts[i]).Error; err != nil {
			log.Printf("Failed to seed post: %v", err)
		}
	}
	log.Printf("Seeded %d posts", len(posts))
}

func seedShop(db *gorm.DB, admin models.User) {
	var count int64
	db.Model(&models.ShopItem{}).Count(&count)
	if count > 0 {
		return
	}

	items := []models.ShopItem{
		{Name: "Sky-Watcher 8\" Dobsonian", Description: "Classic beginner-to-intermediate visual scope.", Price: 549.00, Category: "telescopes", InStock: true, Stock: 12, Featured: true, CreatedByID: admin.ID},
		{Name: "ZWO ASI662MC", Description: "Planetary camera with low read noise.", Price: 169.00, Category: "cameras", InStock: true, Stock: 30, CreatedByID: admin.ID},
		{Name: "Baader Neodymium Filter 1.25\"", Description: "Moon and skyglow filter.", Price: 55.00, Category: "accessories", InStock: true, Stock: 50, CreatedByID: admin.ID},
		{Name: "Turn Left at Orion", Description: "The observing guide everyone starts with.", Price: 24.95, Category: "books", InStock: true, Stock: 80, CreatedByID: admin.ID},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			log.Printf("Failed to seed shop item: %v", err)
		}
	}
	log.Printf("Seeded %d shop items", len(items))
}

func seedEvents(db *gorm.DB, admin models.User) {
	var count int64
	db.Model(&models.CelestialEvent{}).Count(&count)
	if count > 0 {
		return
	}

	now := time.Now()
	peak := now.AddDate(0, 1, 0)
	events := []models.CelestialEvent{
		{
			Name:          "Geminid Meteor Shower",
			Type:          "meteor_shower",
			Description:   "One of the strongest annual showers, up to 120 meteors per hour at peak.",
			StartDate:     now.AddDate(0, 3, 0),
			PeakTime:      &peak,
			Visibility:    "Global",
			Constellation: "Gemini",
			Tips:          "Best after midnight under dark skies, no equipment needed.",
			Source:        "NASA",
			Status:        models.EventStatusApproved,
			CreatedByID:   admin.ID,
			ApprovedByID:  &admin.ID,
			ApprovedAt:    &now,
		},
		{
			Name:        "Total Lunar Eclipse",
			Type:        "eclipse",
			Description: "The full moon passes through Earth's umbra.",
			StartDate:   now.AddDate(0, 6, 0),
			Visibility:  "Americas, Europe, Africa",
			Source:      "NASA",
			Status:      models.EventStatusApproved,
			CreatedByID: admin.ID,
			ApprovedByID: &admin.ID,
			ApprovedAt:  &now,
		},
	}
	for i := range events {
		if err := db.Create(&events[i]).Error; err != nil {
			log.Printf("Failed to seed event: %v", err)
		}
	}
	log.Printf("Seeded %d events", len(events))
}
