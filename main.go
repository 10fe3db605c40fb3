package main

import (
	"log"
	"strings"

	"distance-learning-backend/app/repository"
	"distance-learning-backend/app/service"
	"distance-learning-backend/database"
	"distance-learning-backend/middleware"
	"distance-learning-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func main() {
	// =================================================================
	// LOAD ENV + CONFIG
	// =================================================================
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using environment defaults")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Could not find config.yaml, using environment variables only.")
	}

	// =================================================================
	// INIT DB
	// =================================================================
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Could not connect to the database: %v", err)
	}

	// =================================================================
	// SEED DATA (INITIAL ADMIN)
	// =================================================================
	database.RunSeeders(db)

	// =================================================================
	// REPOSITORIES
	// =================================================================
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	testRepo := repository.NewTestRepository(db)
	completedRepo := repository.NewCompletedTestRepository(db)

	// =================================================================
	// SERVICES
	// =================================================================
	authService := service.NewAuthService(userRepo)
	courseService := service.NewCourseService(courseRepo, testRepo, userRepo, completedRepo)
	statsService := service.NewStatsService(userRepo, groupRepo, courseRepo, testRepo, completedRepo)
	adminService := service.NewAdminService(userRepo, groupRepo, courseRepo, testRepo, completedRepo)

	// =================================================================
	// ROUTER
	// =================================================================
	r := gin.Default()
	auth := middleware.AuthMiddleware(authService)

	routes.NewAuthHandler(authService).SetupAuthRoutes(r, auth)
	routes.NewCourseHandler(courseService).SetupCourseRoutes(r, auth)
	routes.NewStatsHandler(statsService).SetupStatsRoutes(r, auth)
	routes.NewAdminHandler(adminService).SetupAdminRoutes(r, auth)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Distance Learning API RUNNING",
			"version": "1.0.0",
		})
	})

	// =================================================================
	// START SERVER
	// =================================================================
	port := viper.GetString("APP_PORT")
	if port == "" {
		port = viper.GetString("server.port")
	}
	if port == "" {
		port = "8080"
	}

	log.Println("Server running at http://localhost:" + port)

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Could not start server: %v", err)
	}
}
