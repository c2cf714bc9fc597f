package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/vivanet/vivanet_backend/config"
	"github.com/vivanet/vivanet_backend/controllers"
	"github.com/vivanet/vivanet_backend/middleware"
	"github.com/vivanet/vivanet_backend/models"
	"github.com/vivanet/vivanet_backend/repositories"
	"github.com/vivanet/vivanet_backend/routes"
	"github.com/vivanet/vivanet_backend/services"
	"github.com/vivanet/vivanet_backend/utils"
	"github.com/vivanet/vivanet_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// periodNotifier fans profit period lifecycle events out to the admin
// websocket hub and, on finalization, to the finance email.
type periodNotifier struct {
	hub *websocket.Hub
}

func (n *periodNotifier) PeriodCalculated(period *models.ProfitPeriod) {
	n.hub.PeriodCalculated(period)
}

func (n *periodNotifier) PeriodFinalized(period *models.ProfitPeriod) {
	n.hub.PeriodFinalized(period)
	utils.NotifyProfitPeriodFinalized(period)
}

func (n *periodNotifier) PeriodPaid(period *models.ProfitPeriod) {
	n.hub.PeriodPaid(period)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis
	redisClient := config.ConnectRedis()

	// Connect to database
	client := config.ConnectDB()

	// Commission policy
	commissionConfig := config.LoadCommissionConfig()
	rankTable := config.DefaultRankCommissionTable()

	// Create WebSocket hub for admin events
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowedDomains: []string{"*"},
	}))

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Vivanet Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	e.Use(httpsRedirect())

	// Initialize repositories
	memberRepo := repositories.NewMemberRepository(client)
	orderRepo := repositories.NewOrderRepository(client)
	periodRepo := repositories.NewProfitPeriodRepository(client)

	// Initialize the commission engine and its services
	engine := services.NewCommissionEngine(commissionConfig, rankTable)
	aggregator := services.NewPointsAggregator(memberRepo)
	resolver := services.NewCustomerCommissionResolver(orderRepo)
	profitService := services.NewExpectedProfitService(aggregator, engine, resolver, redisClient)
	periodService := services.NewProfitPeriodService(memberRepo, periodRepo, engine,
		commissionConfig.PeriodWorkers, &periodNotifier{hub: wsHub})

	// Initialize controllers
	authController := controllers.NewAuthController(client)
	memberController := controllers.NewMemberController(client)
	commissionController := controllers.NewCommissionController(profitService)
	periodController := controllers.NewProfitPeriodController(periodService)

	// Register routes
	routes.RegisterMemberRoutes(e, authController, commissionController)
	routes.RegisterAdminRoutes(e, memberController, periodController, wsHub)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

func httpsRedirect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("X-Forwarded-Proto") == "http" {
				return c.Redirect(301, "https://"+c.Request().Host+c.Request().RequestURI)
			}
			return next(c)
		}
	}
}
