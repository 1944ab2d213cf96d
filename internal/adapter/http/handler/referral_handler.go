package handler

import (
	"dice-token-backend/internal/adapter/http/dto"
	"dice-token-backend/internal/core/ports"
	"dice-token-backend/pkg/apperror"
	"dice-token-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// ReferralHandler handles referral endpoints.
type ReferralHandler struct {
	referralSvc ports.ReferralService
}

// NewReferralHandler creates a new ReferralHandler.
func NewReferralHandler(referralSvc ports.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralSvc: referralSvc}
}

// Get handles GET /api/v1/referrals/:identity. The lookup is lazy: the first
// call creates the profile.
func (h *ReferralHandler) Get(c *gin.Context) {
	identity := c.Param("identity")
	if identity == "" {
		response.Error(c, apperror.Validation("identity is required"))
		return
	}

	info, err := h.referralSvc.GetOrCreateProfile(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ReferralResponse{
		Identity:      info.Profile.Identity,
		Code:          info.Profile.Code,
		Link:          info.Link,
		ReferredCount: info.Profile.ReferredCount,
		RewardBalance: info.Profile.RewardBalance,
	})
}

// Redeem handles POST /api/v1/referrals/redeem.
func (h *ReferralHandler) Redeem(c *gin.Context) {
	var req dto.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.referralSvc.Redeem(c.Request.Context(), req.Code, req.Identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RedeemResponse{
		Referrer: result.Referrer,
		Referred: result.Referred,
	})
}
