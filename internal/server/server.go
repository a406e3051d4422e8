package server

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"anoa.com/socialgram/internal/config"
	"anoa.com/socialgram/internal/middleware"
	"anoa.com/socialgram/pkg/cache"
	"anoa.com/socialgram/pkg/storage"

	feedHttp "anoa.com/socialgram/internal/modules/feed/delivery/http"
	feedService "anoa.com/socialgram/internal/modules/feed/service"

	graphHttp "anoa.com/socialgram/internal/modules/graph/delivery/http"
	graphRepo "anoa.com/socialgram/internal/modules/graph/repository"
	graphService "anoa.com/socialgram/internal/modules/graph/service"

	mediaHttp "anoa.com/socialgram/internal/modules/media/delivery/http"

	notifHttp "anoa.com/socialgram/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/socialgram/internal/modules/notification/repository"
	notifService "anoa.com/socialgram/internal/modules/notification/service"

	postHttp "anoa.com/socialgram/internal/modules/post/delivery/http"
	postRepo "anoa.com/socialgram/internal/modules/post/repository"
	postService "anoa.com/socialgram/internal/modules/post/service"

	userHttp "anoa.com/socialgram/internal/modules/user/delivery/http"
	userRepo "anoa.com/socialgram/internal/modules/user/repository"
	userService "anoa.com/socialgram/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine        *gin.Engine
	db            *gorm.DB
	profileCache  cache.Cache
	reconcileDone chan struct{}
	closeOnce     sync.Once
}

// edgeReconciler is the slice of the graph service the background repair
// loop needs.
type edgeReconciler interface {
	ReconcileEdges(ctx context.Context) (int, error)
}

// startReconcileLoop repairs one-sided follow edges on an interval until the
// returned channel is closed.
func startReconcileLoop(r edgeReconciler, interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				repaired, err := r.ReconcileEdges(context.Background())
				if err != nil {
					log.Printf("edge reconciliation failed: %v", err)
					continue
				}
				if repaired > 0 {
					log.Printf("edge reconciliation repaired %d one-sided edges", repaired)
				}
			}
		}
	}()

	return done
}

func NewServer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Server {
	users := userRepo.NewUserRepository(db)
	graphs := graphRepo.NewGraphRepository(db)
	posts := postRepo.NewPostRepository(db)
	notifications := notifRepo.NewNotificationRepository(db)

	// The profile cache is an explicit collaborator with its own lifecycle,
	// torn down in Close. Redis when configured, an in-process TTL map
	// otherwise.
	var profileCache cache.Cache
	if redisClient != nil {
		profileCache = cache.NewRedis(redisClient)
	} else {
		log.Println("REDIS_URL not set, using in-memory profile cache")
		profileCache = cache.NewMemory(2 * time.Minute)
	}

	mediaStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	notificationSvc := notifService.NewNotificationService(notifications)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc)

	authSvc := userService.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := userHttp.NewAuthHandler(authSvc)

	graphSvc := graphService.NewGraphService(graphs, users, notificationSvc, profileCache, cfg.ProfileCacheTTL)
	graphHandler := graphHttp.NewGraphHandler(graphSvc)

	postSvc := postService.NewPostService(posts, users, notificationSvc)
	postHandler := postHttp.NewPostHandler(postSvc)

	feedSvc := feedService.NewFeedService(users, posts)
	feedHandler := feedHttp.NewFeedHandler(feedSvc)

	mediaHandler := mediaHttp.NewMediaHandler(mediaStorage, cfg.CloudinaryFolder)

	// Follow edges span two records with no transaction; repair one-sided
	// edges on an interval until Close.
	reconcileDone := startReconcileLoop(graphSvc, cfg.ReconcileInterval)

	router := gin.New()
	setupCORS(router, cfg)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Social graph routes
		protected.PUT("/users/:id/follow", graphHandler.Follow)
		protected.PUT("/users/:id/unfollow", graphHandler.Unfollow)
		protected.GET("/users/:id/followers", graphHandler.ListFollowers)
		protected.GET("/users/:id/following", graphHandler.ListFollowing)
		protected.GET("/users/:id/profile", graphHandler.GetProfile)

		// Engagement routes
		protected.POST("/posts", postHandler.CreatePost)
		protected.GET("/posts/user/:id", postHandler.GetPostsByUser)
		protected.GET("/posts/:post_id", postHandler.GetPostByID)
		protected.PUT("/posts/:post_id/like", postHandler.ToggleLike)
		protected.POST("/posts/:post_id/comments", postHandler.AddComment)
		protected.POST("/posts/:post_id/share", postHandler.SharePost)
		protected.GET("/posts/:post_id/share-count", postHandler.ShareCount)

		// Feed route
		protected.GET("/feed", feedHandler.GetFeed)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)

		// Media upload
		protected.POST("/upload", mediaHandler.Upload)
	}

	return &Server{
		engine:        router,
		db:            db,
		profileCache:  profileCache,
		reconcileDone: reconcileDone,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) Close() error {
	s.closeOnce.Do(func() { close(s.reconcileDone) })
	return s.profileCache.Close()
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	var origins []string
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
