package main

import (
	"fmt"
	"log"
	"os"

	"remindhub-backend/config"
	"remindhub-backend/models"
	"remindhub-backend/routes"
	"remindhub-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Contact{},
		&models.CustomMessage{},
		&models.Template{},
		&models.UserSettings{},
		&models.ReminderLog{},
		&models.SentMarker{},
	)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	generator := services.NewOpenAIGenerator()
	reminderService := services.NewReminderService(config.DB, generator)

	scheduler := reminderService.StartScheduler()
	defer scheduler.Stop()

	r := routes.SetupRouter(reminderService, generator)
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
