package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/vivanet/vivanet_backend/controllers"
	"github.com/vivanet/vivanet_backend/middleware"
)

// RegisterMemberRoutes sets up the member-facing commission routes
func RegisterMemberRoutes(e *echo.Echo, authController *controllers.AuthController, commissionController *controllers.CommissionController) {
	e.POST("/api/auth/login", authController.Login)

	// Protected routes group
	r := e.Group("/api")
	r.Use(middleware.JWTMiddleware())

	r.GET("/members/expected-profit", commissionController.GetExpectedProfit)
	r.POST("/members/settle-customer-commission", commissionController.SettleCustomerCommission)
}
