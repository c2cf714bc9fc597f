package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/controllers"
	"github.com/vivanet/vivanet_backend/middleware"
	"github.com/vivanet/vivanet_backend/models"
	"github.com/vivanet/vivanet_backend/websocket"
)

// RegisterAdminRoutes sets up the admin profit-period routes and the admin
// event websocket
func RegisterAdminRoutes(e *echo.Echo, memberController *controllers.MemberController, periodController *controllers.ProfitPeriodController, hub *websocket.Hub) {
	r := e.Group("/api/admin")
	r.Use(middleware.JWTMiddleware())
	r.Use(middleware.RequireAdmin())

	r.POST("/members", memberController.EnrollMember)

	r.POST("/profit-periods", periodController.CalculateProfitPeriod)
	r.GET("/profit-periods", periodController.GetProfitPeriods)
	r.GET("/profit-periods/:id", periodController.GetProfitPeriod)
	r.PUT("/profit-periods/:id/finalize", periodController.FinalizeProfitPeriod)
	r.PUT("/profit-periods/:id/pay", periodController.MarkProfitPeriodPaid)
	r.DELETE("/profit-periods/:id", periodController.DeleteProfitPeriod)

	ws := e.Group("/ws")
	ws.Use(middleware.JWTMiddleware())
	ws.Use(middleware.RequireAdmin())
	ws.GET("/admin", func(c echo.Context) error {
		userID, err := middleware.ExtractUserID(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID in token",
			})
		}
		objID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid user ID format",
			})
		}
		return websocket.HandleWebSocket(c, hub, objID)
	})
}
