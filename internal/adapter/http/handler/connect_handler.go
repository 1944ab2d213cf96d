package handler

import (
	"dice-token-backend/internal/adapter/http/dto"
	"dice-token-backend/internal/core/ports"
	"dice-token-backend/pkg/apperror"
	"dice-token-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// ConnectHandler handles external wallet pairing.
type ConnectHandler struct {
	connector ports.WalletConnector
}

// NewConnectHandler creates a new ConnectHandler.
func NewConnectHandler(connector ports.WalletConnector) *ConnectHandler {
	return &ConnectHandler{connector: connector}
}

// Connect handles POST /api/v1/connect.
func (h *ConnectHandler) Connect(c *gin.Context) {
	var req dto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	link, err := h.connector.Connect(c.Request.Context(), req.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ConnectResponse{PairingLink: link})
}
