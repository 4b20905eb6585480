package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/astroview/backend/internal/database"
	"github.com/astroview/backend/internal/handlers"
	"github.com/astroview/backend/internal/middleware"
	"github.com/astroview/backend/internal/models"
	"github.com/astroview/backend/internal/notify"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db := database.New()

	// Create unified handler
	handler := handlers.NewHandler(db.GetDB(), notify.NewSMSNotifier())

	// Create server instance
	newServer := &Server{
		db:      db,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Uploaded images are served straight off disk
	r.Static("/uploads", "./uploads")

	// Brute-force protection on credential endpoints
	authLimiter := middleware.RateLimit(rate.Every(time.Minute/20), 5)

	api := r.Group("/api/v1")
	{
		// Auth routes (public)
		api.POST("/auth/register", authLimiter, s.handler.Auth.Register)
		api.POST("/auth/login", authLimiter, s.handler.Auth.Login)
		api.POST("/auth/refresh", authLimiter, s.handler.Auth.RefreshToken)
		api.GET("/auth/check-username", s.handler.Auth.CheckUsername)

		// Public reads
		api.GET("/stats", s.handler.Stats.GetStats)
		api.GET("/shop", s.handler.Shop.GetItems)
		api.GET("/shop/categories", s.handler.Shop.GetCategories)
		api.GET("/shop/item/:id", s.handler.Shop.GetItem)
		api.GET("/communities", s.handler.Community.GetCommunities)
		api.GET("/communities/:slug", s.handler.Community.GetCommunity)

		// Reads that behave differently for signed-in callers
		optional := api.Group("")
		optional.Use(middleware.OptionalAuth())
		{
			optional.GET("/posts", s.handler.Post.GetPosts)
			optional.GET("/posts/:id", s.handler.Post.GetPost)
			optional.GET("/posts/:id/comments", s.handler.Comment.GetComments)
			optional.GET("/users/:id", s.handler.User.GetUserProfile)
			optional.GET("/users/:id/followers", s.handler.User.GetFollowers)
			optional.GET("/users/:id/following", s.handler.User.GetFollowing)
			optional.GET("/users/:id/posts", s.handler.Post.GetUserPosts)
			optional.GET("/users", s.handler.User.SearchUsers)
			optional.GET("/events", s.handler.Event.GetEvents)
			optional.GET("/events/:id", s.handler.Event.GetEvent)
		}

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Account
			protected.GET("/auth/me", s.handler.Auth.GetMe)
			protected.POST("/auth/logout", s.handler.Auth.Logout)
			protected.PUT("/auth/details", s.handler.Auth.UpdateDetails)
			protected.PUT("/auth/password", s.handler.Auth.UpdatePassword)
			protected.PUT("/auth/avatar", s.handler.User.UpdateProfilePicture)

			// Posts
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/:id", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)
			protected.POST("/posts/:id/like", s.handler.Post.LikePost)
			protected.DELETE("/posts/:id/like", s.handler.Post.UnlikePost)
			protected.POST("/posts/:id/share", s.handler.Post.SharePost)

			// Comments
			protected.POST("/posts/:id/comments", s.handler.Comment.CreateComment)
			protected.PUT("/comments/:id", s.handler.Comment.UpdateComment)
			protected.DELETE("/comments/:id", s.handler.Comment.DeleteComment)
			protected.POST("/comments/:id/like", s.handler.Comment.LikeComment)
			protected.DELETE("/comments/:id/like", s.handler.Comment.UnlikeComment)

			// Social graph
			protected.POST("/users/:id/follow", s.handler.User.FollowUser)
			protected.DELETE("/users/:id/follow", s.handler.User.UnfollowUser)

			// Feed
			protected.GET("/feed", s.handler.Feed.GetFeed)
			protected.GET("/feed/suggested", s.handler.Feed.GetSuggestedUsers)

			// Communities
			protected.POST("/communities", s.handler.Community.CreateCommunity)
			protected.POST("/communities/:slug/join", s.handler.Community.JoinCommunity)
			protected.DELETE("/communities/:slug/join", s.handler.Community.LeaveCommunity)
			protected.PUT("/communities/:slug", s.handler.Community.UpdateCommunity)
			protected.DELETE("/communities/:slug", s.handler.Community.DeleteCommunity)

			// Events
			protected.POST("/events", s.handler.Event.CreateEvent)

			// Notifications
			protected.GET("/notifications", s.handler.Notification.GetNotifications)
			protected.POST("/notifications/read", s.handler.Notification.MarkAllRead)
			protected.PUT("/notifications/:id/read", s.handler.Notification.MarkRead)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", s.handler.User.GetAllUsers)
			admin.DELETE("/users/:id", s.handler.User.DeleteUser)

			admin.POST("/shop", s.handler.Shop.CreateItem)
			admin.PUT("/shop/:id", s.handler.Shop.UpdateItem)
			admin.DELETE("/shop/:id", s.handler.Shop.DeleteItem)

			admin.GET("/events/pending", s.handler.Event.GetPendingEvents)
			admin.PUT("/events/:id", s.handler.Event.UpdateEvent)
			admin.DELETE("/events/:id", s.handler.Event.DeleteEvent)
			admin.PUT("/events/:id/approve", s.handler.Event.ApproveEvent)
			admin.PUT("/events/:id/reject", s.handler.Event.RejectEvent)
		}
	}

	return r
}
