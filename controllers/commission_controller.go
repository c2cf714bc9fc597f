package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/middleware"
	"github.com/vivanet/vivanet_backend/models"
	"github.com/vivanet/vivanet_backend/services"
)

// CommissionController exposes the on-demand commission views to members.
type CommissionController struct {
	profit *services.ExpectedProfitService
}

func NewCommissionController(profit *services.ExpectedProfitService) *CommissionController {
	return &CommissionController{profit: profit}
}

// memberIDFromToken resolves the authenticated account id from the JWT claims
func memberIDFromToken(c echo.Context) (primitive.ObjectID, error) {
	userID, err := middleware.ExtractUserID(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(userID)
}

// GetExpectedProfit returns the member's current expected profit across the
// performance, leadership and customer-purchase commission streams
func (cc *CommissionController) GetExpectedProfit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	memberID, err := memberIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID in token",
		})
	}

	profit, err := cc.profit.ExpectedProfit(ctx, memberID)
	if err != nil {
		if errors.Is(err, services.ErrNotAMember) {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Only member accounts have expected profit",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to calculate expected profit",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Expected profit calculated successfully",
		Data:    profit,
	})
}

// SettleCustomerCommission claims the member's unprocessed customer orders
// and returns the markup commission earned in this pass. Calling it again
// with no new orders returns zero.
func (cc *CommissionController) SettleCustomerCommission(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	memberID, err := memberIDFromToken(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID in token",
		})
	}

	result, err := cc.profit.SettleCustomerCommission(ctx, memberID)
	if err != nil {
		if errors.Is(err, services.ErrNotAMember) {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Only member accounts earn customer commission",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to settle customer commission",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Customer commission settled successfully",
		Data:    result,
	})
}
