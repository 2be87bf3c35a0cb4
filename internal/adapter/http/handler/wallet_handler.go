package handler

import (
	"encoding/json"
	"strconv"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// WalletHandler handles wallet lifecycle, deposit and statement endpoints.
type WalletHandler struct {
	walletSvc    ports.WalletService
	depositSvc   ports.DepositService
	statementSvc ports.StatementService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService, depositSvc ports.DepositService, statementSvc ports.StatementService) *WalletHandler {
	return &WalletHandler{
		walletSvc:    walletSvc,
		depositSvc:   depositSvc,
		statementSvc: statementSvc,
	}
}

// Create handles POST /wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := bindTrimmed(c, &req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.walletSvc.CreateWallet(c.Request.Context(), ports.CreateWalletRequest{
		Name:       req.Name,
		NationalID: req.CPF,
		Email:      req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "/wallets/"+wallet.ID.String(), dto.NewWalletResponse(wallet))
}

// Delete handles DELETE /wallets/:walletId.
func (h *WalletHandler) Delete(c *gin.Context) {
	walletID, ok := walletIDParam(c)
	if !ok {
		return
	}

	deleted, err := h.walletSvc.DeleteWallet(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !deleted {
		response.Error(c, apperror.ErrWalletNotFound("wallet does not exist"))
		return
	}

	response.NoContent(c)
}

// Deposit handles POST /wallets/:walletId/deposits.
func (h *WalletHandler) Deposit(c *gin.Context) {
	walletID, ok := walletIDParam(c)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if !dto.ValidMoney(req.Value) {
		response.Error(c, apperror.Validation("value must have at most 2 decimal places"))
		return
	}

	deposit, err := h.depositSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		WalletID:  walletID,
		Amount:    req.Value,
		IPAddress: c.GetString(middleware.CtxClientIP),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewDepositResponse(deposit))
}

// Statement handles GET /wallets/:walletId/statements?page=&pageSize=.
// A missing pageSize is left at zero so the service applies its default.
func (h *WalletHandler) Statement(c *gin.Context) {
	walletID, ok := walletIDParam(c)
	if !ok {
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		response.Error(c, apperror.Validation("page must be an integer"))
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "0"))
	if err != nil {
		response.Error(c, apperror.Validation("pageSize must be an integer"))
		return
	}

	st, err := h.statementSvc.GetStatement(c.Request.Context(), walletID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewStatementResponse(st))
}

// bindTrimmed decodes the JSON body, trims its strings, then validates, so the
// binding limits apply to the exact values that get stored.
func bindTrimmed(c *gin.Context, req interface{}) error {
	if err := json.NewDecoder(c.Request.Body).Decode(req); err != nil {
		return err
	}
	dto.SanitizeStruct(req)
	return binding.Validator.ValidateStruct(req)
}

func walletIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("walletId"))
	if err != nil {
		response.Error(c, apperror.Validation("walletId must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
