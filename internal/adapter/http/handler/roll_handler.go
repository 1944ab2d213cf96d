package handler

import (
	"strconv"
	"time"

	"dice-token-backend/internal/adapter/http/dto"
	"dice-token-backend/internal/core/ports"
	"dice-token-backend/pkg/apperror"
	"dice-token-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// RollHandler handles dice roll endpoints.
type RollHandler struct {
	rollSvc ports.RollService
}

// NewRollHandler creates a new RollHandler.
func NewRollHandler(rollSvc ports.RollService) *RollHandler {
	return &RollHandler{rollSvc: rollSvc}
}

// Roll handles POST /api/v1/rolls.
func (h *RollHandler) Roll(c *gin.Context) {
	var req dto.RollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.rollSvc.Roll(c.Request.Context(), ports.RollRequest{
		UserID: req.UserID,
		IsPaid: req.IsPaid,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RollResponse{
		Value:       result.Value,
		TokenAmount: result.TokenAmount,
		Balance:     result.Balance,
	})
}

// History handles GET /api/v1/rolls?user_id=&limit=.
func (h *RollHandler) History(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Error(c, apperror.Validation("user_id is required"))
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.Error(c, apperror.Validation("limit must be a positive integer"))
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := h.rollSvc.History(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.RollRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.RollRecordResponse{
			ID:          rec.ID.String(),
			Value:       rec.Value,
			TokenAmount: rec.TokenAmount,
			Paid:        rec.Paid,
			CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
		})
	}

	response.OK(c, dto.RollHistoryResponse{Items: items})
}
