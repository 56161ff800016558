package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"corpsite/internal/api/middleware"
	"corpsite/internal/upload"
)

// RegisterRoutes 注册 /api 下的全部资源路由。
// asynqClient 与 redisClient 可为 nil：通知与限流各自退化为不做。
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	uploads *upload.Saver,
	asynqClient *asynq.Client,
	redisClient *redis.Client,
	logger *slog.Logger,
	contactRatePerHour int,
) {
	newsHandler := NewNewsHandler(db, uploads)
	careersHandler := NewCareersHandler(db, uploads, asynqClient)
	teamHandler := NewTeamHandler(db, uploads)
	partnerHandler := NewPartnerHandler(db, uploads)
	contactHandler := NewContactHandler(db, asynqClient)

	var rateCounter middleware.RateCounter
	if redisClient != nil {
		rateCounter = redisClient
	}
	publicFormLimit := middleware.RateLimit(rateCounter, logger, "contact", contactRatePerHour, time.Hour)

	apiGroup := router.Group("/api")
	{
		newsGroup := apiGroup.Group("/news")
		{
			newsGroup.GET("", newsHandler.List)
			newsGroup.POST("", newsHandler.Create)
			newsGroup.POST("/upload-image", newsHandler.UploadImage)
			newsGroup.POST("/upload-images", newsHandler.UploadImages)
			newsGroup.GET("/:id", newsHandler.Get)
			newsGroup.PUT("/:id", newsHandler.Update)
			newsGroup.DELETE("/:id", newsHandler.Delete)
		}

		careersGroup := apiGroup.Group("/careers")
		{
			careersGroup.GET("/jobs", careersHandler.ListJobs)
			careersGroup.POST("/jobs", careersHandler.CreateJob)
			careersGroup.GET("/jobs/:id", careersHandler.GetJob)
			careersGroup.PUT("/jobs/:id", careersHandler.UpdateJob)
			careersGroup.DELETE("/jobs/:id", careersHandler.DeleteJob)
			careersGroup.GET("/applications", careersHandler.ListApplications)
			careersGroup.POST("/applications", careersHandler.CreateApplication)
		}

		teamGroup := apiGroup.Group("/team")
		{
			teamGroup.GET("", teamHandler.List)
			teamGroup.POST("", teamHandler.Create)
			teamGroup.POST("/upload-image", teamHandler.UploadImage)
			teamGroup.GET("/:id", teamHandler.Get)
			teamGroup.PUT("/:id", teamHandler.Update)
			teamGroup.DELETE("/:id", teamHandler.Delete)
		}

		partnersGroup := apiGroup.Group("/partners")
		{
			partnersGroup.GET("", partnerHandler.List)
			partnersGroup.POST("", partnerHandler.Create)
			partnersGroup.POST("/upload-logo", partnerHandler.UploadLogo)
			partnersGroup.GET("/:id", partnerHandler.Get)
			partnersGroup.PUT("/:id", partnerHandler.Update)
			partnersGroup.DELETE("/:id", partnerHandler.Delete)
		}

		contactGroup := apiGroup.Group("/contact-messages")
		{
			contactGroup.GET("", contactHandler.List)
			contactGroup.POST("", publicFormLimit, contactHandler.Create)
			contactGroup.GET("/:id", contactHandler.Get)
			contactGroup.PUT("/:id", contactHandler.Update)
			contactGroup.DELETE("/:id", contactHandler.Delete)
		}

		apiGroup.GET("/db-test", DBTest(db))
	}
}
