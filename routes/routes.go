package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"remindhub-backend/config"
	"remindhub-backend/controllers"
	"remindhub-backend/services"
	"remindhub-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(reminderService *services.ReminderService, generator services.MessageGenerator) *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	reminderController := &controllers.ReminderController{Service: reminderService}
	messageController := &controllers.MessageController{Generator: generator}

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "healthy",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		// External trigger, invoked by the platform scheduler every 15 minutes
		api.POST("/reminders/run", reminderController.Run)

		authed := api.Group("")
		authed.Use(utils.AuthMiddleware())
		{
			// Contact routes
			contacts := authed.Group("/contacts")
			{
				contacts.POST("", controllers.CreateContact)
				contacts.GET("", controllers.GetContacts)
				contacts.GET("/:id", controllers.GetContact)
				contacts.PUT("/:id", controllers.UpdateContact)
				contacts.DELETE("/:id", controllers.DeleteContact)
			}

			// Template routes
			templates := authed.Group("/templates")
			{
				templates.POST("", controllers.CreateTemplate)
				templates.GET("", controllers.GetTemplates)
				templates.PUT("/:id", controllers.UpdateTemplate)
				templates.DELETE("/:id", controllers.DeleteTemplate)
			}

			// Custom message routes
			customMessages := authed.Group("/custom-messages")
			{
				customMessages.POST("", controllers.UpsertCustomMessage)
				customMessages.GET("/:contactId", controllers.GetCustomMessages)
				customMessages.GET("/:contactId/:occasion/:channel", controllers.GetCustomMessage)
				customMessages.DELETE("/:id", controllers.DeleteCustomMessage)
			}

			// Settings routes
			settings := authed.Group("/settings")
			{
				settings.GET("", controllers.GetSettings)
				settings.PUT("", controllers.UpdateSettings)
			}

			authed.POST("/generate-message", messageController.GenerateMessage)
			authed.GET("/dashboard/stats", controllers.GetDashboardStats)

			// Admin read path over run logs
			admin := authed.Group("", utils.AdminMiddleware())
			{
				admin.GET("/reminders/logs", reminderController.GetLogs)
			}
		}
	}

	return r
}
