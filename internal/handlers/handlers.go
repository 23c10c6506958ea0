package handlers

import (
	"net/http"
	"time"

	"github.com/SaurabhKarki-25/Music-Platform/internal/auth"
	"github.com/SaurabhKarki-25/Music-Platform/internal/catalog"
	"github.com/SaurabhKarki-25/Music-Platform/internal/middleware"
	"github.com/SaurabhKarki-25/Music-Platform/internal/presence"
	"github.com/SaurabhKarki-25/Music-Platform/internal/recommendations"
	"github.com/SaurabhKarki-25/Music-Platform/internal/repository"
	"github.com/SaurabhKarki-25/Music-Platform/internal/storage"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	authService *auth.Service
	recs        *recommendations.Service
	templates   repository.TemplateRepository
	users       repository.UserRepository
	catalog     catalog.Store
	uploader    storage.Uploader
	presenceWS  *presence.Handler
	presenceMgr *presence.Manager
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	authService *auth.Service,
	recs *recommendations.Service,
	templates repository.TemplateRepository,
	users repository.UserRepository,
	songs catalog.Store,
) *Handlers {
	return &Handlers{
		authService: authService,
		recs:        recs,
		templates:   templates,
		users:       users,
		catalog:     songs,
	}
}

// SetUploader sets the S3 uploader for song uploads
func (h *Handlers) SetUploader(uploader storage.Uploader) {
	h.uploader = uploader
}

// SetPresence sets the mood room presence manager and WebSocket handler
func (h *Handlers) SetPresence(mgr *presence.Manager, ws *presence.Handler) {
	h.presenceMgr = mgr
	h.presenceWS = ws
}

// RegisterRoutes mounts every API route on the router
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	requireAuth := middleware.AuthMiddleware(h.authService)
	requireAdmin := middleware.AdminMiddleware()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "music-platform",
		})
	})

	api := r.Group("/api/v1")
	{
		// Authentication routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.GET("/me", requireAuth, h.Me)
		}

		// Mood routes
		moods := api.Group("/moods")
		{
			moods.GET("", h.ListMoods)

			// Template management
			moods.GET("/templates", h.ListTemplates)
			moods.POST("/templates", requireAuth, requireAdmin, h.CreateTemplate)
			moods.GET("/templates/:id", h.GetTemplate)
			moods.PUT("/templates/:id/active", requireAuth, requireAdmin, h.SetTemplateActive)

			// Mood-based discovery
			moods.GET("/journey", h.GetJourney)
			moods.GET("/recommendations", requireAuth, h.GetPersonalizedTemplates)
			moods.POST("/predict", requireAuth, h.PredictMood)
			moods.POST("/history", requireAuth, h.AppendMoodHistory)

			moods.GET("/:mood/songs", h.GetSongsByMood)
			if h.presenceMgr != nil {
				moods.GET("/:mood/listeners", h.GetMoodListeners)
			}
		}

		// Song routes
		songs := api.Group("/songs")
		{
			songs.GET("", h.ListSongs)
			songs.GET("/:id", h.GetSong)
			songs.POST("", requireAuth, h.UploadSong)
			songs.POST("/:id/play", h.PlaySong)
			songs.POST("/:id/like", requireAuth, h.LikeSong)
		}

		// WebSocket mood rooms
		if h.presenceWS != nil {
			api.GET("/ws/moods/:mood", requireAuth, h.presenceWS.HandleRoom)
		}
	}
}
