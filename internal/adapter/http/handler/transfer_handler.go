package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferHandler handles wallet-to-wallet transfers.
type TransferHandler struct {
	transferSvc ports.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc ports.TransferService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc}
}

// Transfer handles POST /transfers.
func (h *TransferHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if !dto.ValidMoney(req.Value) {
		response.Error(c, apperror.Validation("value must have at most 2 decimal places"))
		return
	}

	// Both ids passed the uuid binding tag.
	transfer, err := h.transferSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		SenderID:   uuid.MustParse(req.Sender),
		ReceiverID: uuid.MustParse(req.Receiver),
		Amount:     req.Value,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewTransferResponse(transfer))
}
