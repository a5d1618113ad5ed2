package router

import (
	"log"
	"regexp"
	"time"

	"chapelcast/config"
	"chapelcast/internal/handler"
	"chapelcast/internal/middleware"
	"chapelcast/internal/repository"
	"chapelcast/internal/service"
	"chapelcast/internal/ws"
	"chapelcast/pkg/cache"
	"chapelcast/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return hhmmPattern.MatchString(fl.Field().String())
		})
	}
}

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, redisCache *cache.Cache) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	frequencyRepo := repository.NewFrequencyRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	sermonRepo := repository.NewSermonRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	feedHub := ws.NewHub()

	// The cache is optional; a nil *cache.Cache must stay a nil interface.
	var statsCache service.StatsCache
	if redisCache != nil {
		statsCache = redisCache
	}

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	var pusher service.Pusher
	if fcmSvc != nil {
		pusher = fcmSvc
	}
	prefSvc := service.NewPreferenceService(settingsRepo, scheduleRepo, frequencyRepo, notificationRepo, statsCache,
		cfg.Notifications.StatsCacheTTL, cfg.Notifications.DefaultMaxPerDay, cfg.Notifications.DefaultMaxPerWeek)
	dispatchSvc := service.NewDispatchService(userRepo, settingsRepo, scheduleRepo, frequencyRepo, notificationRepo, feedHub, pusher, statsCache)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(userRepo)
	preferenceHandler := handler.NewPreferenceHandler(prefSvc)
	scheduleHandler := handler.NewScheduleHandler(prefSvc)
	frequencyHandler := handler.NewFrequencyHandler(prefSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	sermonHandler := handler.NewSermonHandler(sermonRepo, dispatchSvc, auditRepo)
	articleHandler := handler.NewArticleHandler(articleRepo, dispatchSvc, auditRepo)
	uploadHandler := handler.NewUploadHandler(cloud)
	healthHandler := handler.NewHealthHandler(db)

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/notifications", ws.UpgradeFeedWS(&cfg.JWT, feedHub))

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/google", googleOAuthHandler.Redirect)
		auth.GET("/google/callback", googleOAuthHandler.Callback)
		auth.POST("/logout", middleware.AuthRequired(&cfg.JWT), authHandler.Logout)
		auth.POST("/change-password", middleware.AuthRequired(&cfg.JWT), authHandler.ChangePassword)
	}

	// Public content
	api.GET("/sermons", sermonHandler.List)
	api.GET("/sermons/:id", sermonHandler.Get)
	api.GET("/articles", articleHandler.List)
	api.GET("/articles/:id", articleHandler.Get)

	me := api.Group("/me", middleware.AuthRequired(&cfg.JWT))
	{
		me.GET("/profile", meHandler.GetProfile)
		me.POST("/fcm-token", meHandler.RegisterFCMToken)

		notif := me.Group("/notifications")
		{
			notif.GET("", notificationHandler.List)
			notif.POST("/:id/read", notificationHandler.MarkRead)
			notif.POST("/read-all", notificationHandler.MarkAllRead)
			notif.POST("/:id/archive", notificationHandler.Archive)

			notif.GET("/preferences", preferenceHandler.GetGroups)
			notif.PUT("/preferences/:group_id", preferenceHandler.UpdateGroup)
			notif.PUT("/preferences/:group_id/:preference_id", preferenceHandler.UpdatePreference)
			notif.POST("/preferences/reset", preferenceHandler.Reset)

			notif.GET("/schedules", scheduleHandler.List)
			notif.POST("/schedules", scheduleHandler.Save)
			notif.DELETE("/schedules/:id", scheduleHandler.Delete)

			notif.GET("/frequency", frequencyHandler.Get)
			notif.PUT("/frequency", frequencyHandler.Update)

			notif.GET("/stats", preferenceHandler.GetStats)
			notif.GET("/bundle", preferenceHandler.GetBundle)
		}
	}

	admin := api.Group("/admin", middleware.AuthRequired(&cfg.JWT), middleware.AdminRequired())
	{
		admin.GET("/sermons", sermonHandler.ListAll)
		admin.POST("/sermons", sermonHandler.Create)
		admin.PUT("/sermons/:id", sermonHandler.Update)
		admin.POST("/sermons/:id/publish", sermonHandler.Publish)
		admin.DELETE("/sermons/:id", sermonHandler.Delete)

		admin.GET("/articles", articleHandler.ListAll)
		admin.POST("/articles", articleHandler.Create)
		admin.PUT("/articles/:id", articleHandler.Update)
		admin.POST("/articles/:id/publish", articleHandler.Publish)
		admin.DELETE("/articles/:id", articleHandler.Delete)

		admin.POST("/uploads/audio", uploadHandler.UploadSermonAudio)
		admin.POST("/uploads/artwork", uploadHandler.UploadArtwork)
	}

	return r
}
