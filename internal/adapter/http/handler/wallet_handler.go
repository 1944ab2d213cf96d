package handler

import (
	"time"

	"dice-token-backend/internal/adapter/http/dto"
	"dice-token-backend/internal/core/ports"
	"dice-token-backend/pkg/apperror"
	"dice-token-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet-related endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	w, err := h.walletSvc.CreateWallet(c.Request.Context(), req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.WalletCreatedResponse{
		Address:   w.Address,
		Seed:      w.Seed,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
	})
}

// List handles GET /api/v1/wallets?user_id=.
func (h *WalletHandler) List(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Error(c, apperror.Validation("user_id is required"))
		return
	}

	addrs, err := h.walletSvc.ListWallets(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WalletListResponse{Addresses: addrs})
}

// Select handles POST /api/v1/wallets/select.
func (h *WalletHandler) Select(c *gin.Context) {
	var req dto.SelectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	w, err := h.walletSvc.SelectWallet(c.Request.Context(), req.UserID, req.Address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WalletResponse{Address: w.Address, Balance: w.Balance})
}

// Active handles GET /api/v1/wallets/active?user_id=.
// A user with no usable selection gets an empty address, not an error: the
// bot renders that as "no wallet yet".
func (h *WalletHandler) Active(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Error(c, apperror.Validation("user_id is required"))
		return
	}

	w, err := h.walletSvc.GetActiveWallet(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if w == nil {
		response.OK(c, dto.ActiveWalletResponse{Address: ""})
		return
	}

	response.OK(c, dto.ActiveWalletResponse{Address: w.Address, Balance: w.Balance})
}
