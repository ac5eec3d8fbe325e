package handler

import (
	"time"

	creditapp "github.com/gigverse/backend/internal/application/credit"
	"github.com/gigverse/backend/internal/domain/credit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreditHandler handles credit ledger HTTP requests
type CreditHandler struct {
	BaseHandler
	ledger *creditapp.LedgerService
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(ledger *creditapp.LedgerService) *CreditHandler {
	return &CreditHandler{ledger: ledger}
}

// AccountResponse represents a credit account in responses
type AccountResponse struct {
	UserID            string `json:"user_id"`
	Balance           int64  `json:"balance"`
	MonthlyAllowance  int64  `json:"monthly_allowance"`
	ConsumedThisMonth int64  `json:"consumed_this_month"`
}

func toAccountResponse(a *credit.Account) AccountResponse {
	return AccountResponse{
		UserID:            a.UserID.String(),
		Balance:           a.Balance,
		MonthlyAllowance:  a.MonthlyAllowance,
		ConsumedThisMonth: a.ConsumedThisMonth,
	}
}

// GetBalance handles GET /credits/account
func (h *CreditHandler) GetBalance(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	account, err := h.ledger.BalanceOf(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAccountResponse(account))
}

// DeductRequest represents a credit deduction request
type DeductRequest struct {
	Amount   int64                  `json:"amount" binding:"required,gt=0"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Deduct handles POST /credits/deduct
func (h *CreditHandler) Deduct(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req DeductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.ledger.Deduct(c.Request.Context(), userID, req.Amount, req.Metadata); err != nil {
		h.HandleError(c, err)
		return
	}

	account, err := h.ledger.BalanceOf(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAccountResponse(account))
}

// RefundRequest represents a credit refund request
type RefundRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Reason      string `json:"reason" binding:"required,max=500"`
	OperationID string `json:"operation_id" binding:"required,max=128"`
}

// Refund handles POST /credits/refunds. Replays with the same operation
// ID are acknowledged without crediting twice.
func (h *CreditHandler) Refund(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.ledger.Refund(c.Request.Context(), userID, req.Amount, req.Reason, req.OperationID); err != nil {
		h.HandleError(c, err)
		return
	}

	account, err := h.ledger.BalanceOf(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAccountResponse(account))
}

// TransactionResponse represents a ledger transaction in responses
type TransactionResponse struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Amount      int64                  `json:"amount"`
	Status      string                 `json:"status"`
	Reason      string                 `json:"reason,omitempty"`
	OperationID *string                `json:"operation_id,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// HistoryRequest represents transaction history query parameters
type HistoryRequest struct {
	Type     string `form:"type" binding:"omitempty,oneof=deduction refund referral_bonus"`
	Since    string `form:"since"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

// History handles GET /credits/transactions
func (h *CreditHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := credit.TransactionFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Type != "" {
		txType := credit.TransactionType(req.Type)
		filter.Type = &txType
	}
	if req.Since != "" {
		since, err := time.Parse(time.RFC3339, req.Since)
		if err != nil {
			h.BadRequest(c, "Invalid since timestamp, expected RFC3339")
			return
		}
		filter.Since = &since
	}

	transactions, total, err := h.ledger.History(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		resp = append(resp, TransactionResponse{
			ID:          tx.ID.String(),
			Type:        string(tx.Type),
			Amount:      tx.Amount,
			Status:      string(tx.Status),
			Reason:      tx.Reason,
			OperationID: tx.OperationID,
			Metadata:    tx.Metadata,
			CreatedAt:   tx.CreatedAt,
		})
	}
	h.SuccessWithMeta(c, resp, total, req.Page, req.PageSize)
}

// ReferralBonusRequest represents a referral bonus grant
type ReferralBonusRequest struct {
	UserID   string                 `json:"user_id" binding:"required,uuid"`
	Amount   int64                  `json:"amount" binding:"required,gt=0"`
	Metadata map[string]interface{} `json:"metadata"`
}

// GrantReferralBonus handles POST /credits/referral-bonus
func (h *CreditHandler) GrantReferralBonus(c *gin.Context) {
	var req ReferralBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	if err := h.ledger.GrantReferralBonus(c.Request.Context(), userID, req.Amount, req.Metadata); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
