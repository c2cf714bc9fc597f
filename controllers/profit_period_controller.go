package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vivanet/vivanet_backend/models"
	"github.com/vivanet/vivanet_backend/services"
)

// ProfitPeriodController exposes the admin profit-period lifecycle:
// calculate a draft, inspect it, finalize it, mark it paid, or delete it
// while it is still unpaid.
type ProfitPeriodController struct {
	periods *services.ProfitPeriodService
}

func NewProfitPeriodController(periods *services.ProfitPeriodService) *ProfitPeriodController {
	return &ProfitPeriodController{periods: periods}
}

// CalculateProfitPeriod closes a date range into a new draft period
func (pc *ProfitPeriodController) CalculateProfitPeriod(c echo.Context) error {
	// Period calculation walks every member; give it room to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var req models.ProfitPeriodRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Name, number, start date and end date are required",
			Data:    err.Error(),
		})
	}

	period, err := pc.periods.CalculatePeriod(ctx, req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPeriodRange) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "End date must be after start date",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to calculate profit period",
			Data:    err.Error(),
		})
	}

	message := "Profit period calculated successfully"
	if len(period.CalculationErrors) > 0 {
		message = "Profit period calculated with some member errors"
	}
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: message,
		Data:    period,
	})
}

// GetProfitPeriods lists all periods without their member rows
func (pc *ProfitPeriodController) GetProfitPeriods(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	periods, err := pc.periods.ListPeriods(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to list profit periods",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profit periods retrieved successfully",
		Data:    periods,
	})
}

// GetProfitPeriod returns one period with its full member breakdown
func (pc *ProfitPeriodController) GetProfitPeriod(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid profit period ID",
		})
	}

	period, err := pc.periods.GetPeriod(ctx, id)
	if err != nil {
		return pc.periodError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profit period retrieved successfully",
		Data:    period,
	})
}

// FinalizeProfitPeriod locks a draft period
func (pc *ProfitPeriodController) FinalizeProfitPeriod(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid profit period ID",
		})
	}

	period, err := pc.periods.Finalize(ctx, id)
	if err != nil {
		return pc.periodError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profit period finalized successfully",
		Data:    period,
	})
}

// MarkProfitPeriodPaid transitions a finalized period to paid
func (pc *ProfitPeriodController) MarkProfitPeriodPaid(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid profit period ID",
		})
	}

	period, err := pc.periods.MarkPaid(ctx, id)
	if err != nil {
		return pc.periodError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profit period marked as paid",
		Data:    period,
	})
}

// DeleteProfitPeriod removes an unpaid period
func (pc *ProfitPeriodController) DeleteProfitPeriod(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid profit period ID",
		})
	}

	if err := pc.periods.Delete(ctx, id); err != nil {
		return pc.periodError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profit period deleted successfully",
	})
}

// periodError maps service errors onto the response envelope
func (pc *ProfitPeriodController) periodError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrPeriodNotFound):
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Profit period not found",
		})
	case errors.Is(err, services.ErrFinalizedPeriodMutation):
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Profit period status does not allow this operation",
		})
	default:
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Profit period operation failed",
		})
	}
}
