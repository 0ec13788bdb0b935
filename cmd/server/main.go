package main

import (
	"log"
	"os"
	"strconv"

	"codefolio/config"
	"codefolio/controllers"
	"codefolio/db"
	"codefolio/internal/chat"
	"codefolio/middlewares"
	"codefolio/platforms"
	"codefolio/routes"
	"codefolio/services"
	"codefolio/utils"
	"codefolio/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Optional .env for local development
	godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "./config/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	utils.SetJWTSecret(cfg.JWT.Secret)
	utils.SetJWTExpiry(cfg.JWT.Expiry)
	services.InitStatsService(cfg)
	controllers.InitAuthController(cfg)
	middlewares.InitPrometheus()
	platforms.RegisterMetrics()

	// Connect to MongoDB using the URI from the configuration
	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	if os.Getenv("SEED_TEST_USERS") == "true" {
		utils.PopulateTestUsers()
	}

	// Redis powers live DM delivery and message rate limiting. Without it the
	// REST messaging endpoints still work; only live push is degraded.
	if err := chat.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("Redis unavailable, live message delivery disabled: %v", err)
	} else if consumer := chat.NewStreamConsumer(websocket.GetHub()); consumer != nil {
		if err := consumer.Start(); err != nil {
			log.Printf("Failed to start delivery consumer: %v", err)
		}
	}

	// Set up the Gin router and configure routes
	router := setupRouter(cfg)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// Set trusted proxies (adjust as needed)
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// Configure CORS for your frontend (e.g., localhost:5173 for Vite)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	router.Use(middlewares.MonitorMiddleware())
	router.GET("/metrics",
		middlewares.MetricsBasicAuth(cfg.Metrics.User, cfg.Metrics.Password),
		gin.WrapH(promhttp.Handler()))

	// Public routes for authentication
	router.POST("/signup", routes.SignUpRouteHandler)
	router.POST("/verifyEmail", routes.VerifyEmailRouteHandler)
	router.POST("/login", routes.LoginRouteHandler)
	router.POST("/forgotPassword", routes.ForgotPasswordRouteHandler)
	router.POST("/confirmForgotPassword", routes.VerifyForgotPasswordRouteHandler)
	router.POST("/verifyToken", routes.VerifyTokenRouteHandler)

	// Public stats lookup for viewing another user's profile
	router.GET("/stats/:platform/:username", routes.GetPublicStatsRouteHandler)

	// Protected routes (JWT auth)
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.POST("/logout", routes.LogoutRouteHandler)

		auth.GET("/user/fetchprofile", routes.GetProfileRouteHandler)
		auth.PUT("/user/updateprofile", routes.UpdateProfileRouteHandler)
		auth.PUT("/user/platforms", routes.UpdatePlatformRouteHandler)
		auth.DELETE("/user/platforms/:platform", routes.UnlinkPlatformRouteHandler)
		auth.GET("/user/stats", routes.GetMyStatsRouteHandler)
		auth.GET("/user/export", routes.ExportProfileRouteHandler)

		auth.GET("/verify/:platform/:username", routes.VerifyHandleRouteHandler)

		auth.POST("/messages", routes.SendMessageRouteHandler)
		auth.GET("/messages/:withUser", routes.GetConversationRouteHandler)

		// WebSocket live message delivery
		auth.GET("/ws/dm", websocket.DMHandler)
	}

	return router
}
