package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/vivanet/vivanet_backend/models"
	"github.com/vivanet/vivanet_backend/repositories"
	"github.com/vivanet/vivanet_backend/utils"
)

// referralCodeAttempts bounds retries when a generated code collides with the
// unique referralCode index.
const referralCodeAttempts = 5

// MemberController handles admin member enrollment. Referral-tree point
// recomputation stays with the tree process; enrollment only records the
// sponsor link.
type MemberController struct {
	members *repositories.MemberRepository
}

func NewMemberController(db *mongo.Client) *MemberController {
	return &MemberController{
		members: repositories.NewMemberRepository(db),
	}
}

// EnrollMember creates a new member account with a generated referral code,
// optionally placed under a sponsor identified by that sponsor's code
func (mc *MemberController) EnrollMember(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.EnrollMemberRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email, password and full name are required",
			Data:    err.Error(),
		})
	}

	existing, err := mc.members.FindByEmail(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if existing != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "An account with this email already exists",
		})
	}

	var sponsor *models.Member
	if req.SponsorCode != "" {
		sponsor, err = mc.members.FindByReferralCode(ctx, req.SponsorCode)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Database error",
			})
		}
		if sponsor == nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Sponsor referral code not found",
			})
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to process password",
		})
	}

	now := time.Now()
	member := &models.Member{
		Email:     req.Email,
		Password:  string(hashedPassword),
		FullName:  req.FullName,
		Role:      models.RoleMember,
		IsActive:  true,
		Rank:      1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if sponsor != nil {
		member.ReferredBy = &sponsor.ID
	}

	inserted := false
	for attempt := 0; attempt < referralCodeAttempts && !inserted; attempt++ {
		code, err := utils.GenerateMemberReferralCode()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to generate referral code",
			})
		}
		member.ReferralCode = code

		err = mc.members.Insert(ctx, member)
		if err == nil {
			inserted = true
		} else if !mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to create member",
			})
		}
		// Duplicate key here is a referral code collision (email was checked
		// above); regenerate and try again.
	}
	if !inserted {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to allocate a unique referral code",
		})
	}

	if sponsor != nil {
		if err := mc.members.AddReferral(ctx, sponsor.ID, member.ID); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Member created but sponsor link failed",
				Data:    member.ID.Hex(),
			})
		}
	}

	member.Password = ""
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Member enrolled successfully",
		Data:    member,
	})
}
