package handler

import (
	"time"

	marketplaceapp "github.com/gigverse/backend/internal/application/marketplace"
	"github.com/gigverse/backend/internal/domain/marketplace"
	"github.com/gigverse/backend/internal/domain/shared/valueobject"
	"github.com/gigverse/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// MarketplaceHandler handles listing and order HTTP requests
type MarketplaceHandler struct {
	BaseHandler
	listingService *marketplaceapp.ListingService
	orderService   *marketplaceapp.OrderService
}

// NewMarketplaceHandler creates a new MarketplaceHandler
func NewMarketplaceHandler(
	listingService *marketplaceapp.ListingService,
	orderService *marketplaceapp.OrderService,
) *MarketplaceHandler {
	return &MarketplaceHandler{
		listingService: listingService,
		orderService:   orderService,
	}
}

// CreateListingRequest represents a listing creation request
type CreateListingRequest struct {
	Kind      string  `json:"kind" binding:"required,oneof=rental sale"`
	Title     string  `json:"title" binding:"required,max=200"`
	DailyRate float64 `json:"daily_rate" binding:"omitempty,gt=0"`
	SalePrice float64 `json:"sale_price" binding:"omitempty,gt=0"`
	Currency  string  `json:"currency" binding:"omitempty,len=3"`
}

// ListingResponse represents a listing in responses
type ListingResponse struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"owner_id"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	DailyRate float64 `json:"daily_rate,omitempty"`
	SalePrice float64 `json:"sale_price,omitempty"`
	Currency  string  `json:"currency"`
	Status    string  `json:"status"`
}

func toListingResponse(l *marketplace.Listing) ListingResponse {
	resp := ListingResponse{
		ID:       l.ID.String(),
		OwnerID:  l.OwnerID.String(),
		Kind:     l.Kind.String(),
		Title:    l.Title,
		Currency: string(l.Currency),
		Status:   l.Status.String(),
	}
	if l.Kind == marketplace.ListingKindRental {
		resp.DailyRate, _ = l.DailyRate.Float64()
	} else {
		resp.SalePrice, _ = l.SalePrice.Float64()
	}
	return resp
}

// CreateListing handles POST /marketplace/listings
func (h *MarketplaceHandler) CreateListing(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	var listing *marketplace.Listing
	switch req.Kind {
	case "rental":
		rate, err := valueobject.NewMoney(decimal.NewFromFloat(req.DailyRate), currency)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		listing, err = h.listingService.CreateRentalListing(c.Request.Context(), ownerID, req.Title, rate)
		if err != nil {
			h.HandleError(c, err)
			return
		}
	case "sale":
		price, err := valueobject.NewMoney(decimal.NewFromFloat(req.SalePrice), currency)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		listing, err = h.listingService.CreateSaleListing(c.Request.Context(), ownerID, req.Title, price)
		if err != nil {
			h.HandleError(c, err)
			return
		}
	}

	h.Created(c, toListingResponse(listing))
}

// GetListing handles GET /marketplace/listings/:id
func (h *MarketplaceHandler) GetListing(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	listing, err := h.listingService.GetListing(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toListingResponse(listing))
}

// BlockDatesRequest represents an availability block request
type BlockDatesRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=200"`
}

// AvailabilityBlockResponse represents an availability block in responses
type AvailabilityBlockResponse struct {
	ID        string `json:"id"`
	ListingID string `json:"listing_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

func toBlockResponse(b *marketplace.AvailabilityBlock) AvailabilityBlockResponse {
	return AvailabilityBlockResponse{
		ID:        b.ID.String(),
		ListingID: b.ListingID.String(),
		StartDate: b.StartDate.Format(dateLayout),
		EndDate:   b.EndDate.Format(dateLayout),
		Reason:    b.Reason,
	}
}

// BlockDates handles POST /marketplace/listings/:id/blocks
func (h *MarketplaceHandler) BlockDates(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	var req BlockDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	block, err := h.listingService.BlockDates(c.Request.Context(), ownerID, listingID, start, end, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toBlockResponse(block))
}

// ListBlocks handles GET /marketplace/listings/:id/blocks
func (h *MarketplaceHandler) ListBlocks(c *gin.Context) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	blocks, err := h.listingService.ListBlocks(c.Request.Context(), listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]AvailabilityBlockResponse, 0, len(blocks))
	for _, b := range blocks {
		resp = append(resp, toBlockResponse(b))
	}
	h.Success(c, resp)
}

// CreateRentalOrderRequest represents a rental order request
type CreateRentalOrderRequest struct {
	ListingID string `json:"listing_id" binding:"required,uuid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// CreateSaleOrderRequest represents a sale order request
type CreateSaleOrderRequest struct {
	ListingID string `json:"listing_id" binding:"required,uuid"`
}

// OrderResponse represents an order in responses
type OrderResponse struct {
	ID              string  `json:"id"`
	Kind            string  `json:"kind"`
	ListingID       string  `json:"listing_id"`
	OwnerID         string  `json:"owner_id"`
	CounterpartyID  string  `json:"counterparty_id"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
	StartDate       string  `json:"start_date,omitempty"`
	EndDate         string  `json:"end_date,omitempty"`
	PaymentIntentID string  `json:"payment_intent_id,omitempty"`
	ClientSecret    string  `json:"client_secret,omitempty"`
}

func toOrderResponse(o *marketplace.Order, clientSecret string) OrderResponse {
	amount, _ := o.Amount.Float64()
	resp := OrderResponse{
		ID:              o.ID.String(),
		Kind:            o.Kind.String(),
		ListingID:       o.ListingID.String(),
		OwnerID:         o.OwnerID.String(),
		CounterpartyID:  o.CounterpartyID.String(),
		Amount:          amount,
		Currency:        string(o.Currency),
		Status:          o.Status.String(),
		PaymentIntentID: o.PaymentIntentID,
		ClientSecret:    clientSecret,
	}
	if o.StartDate != nil {
		resp.StartDate = o.StartDate.Format(dateLayout)
	}
	if o.EndDate != nil {
		resp.EndDate = o.EndDate.Format(dateLayout)
	}
	return resp
}

// CreateRentalOrder handles POST /marketplace/orders/rental
func (h *MarketplaceHandler) CreateRentalOrder(c *gin.Context) {
	renterID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateRentalOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.CreateRentalOrder(c.Request.Context(), listingID, renterID, start, end)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	switch result.Status {
	case marketplaceapp.CreateOrderStatusListingNotActive:
		h.ErrorWithCode(c, dto.ErrCodeInvalidState, "Listing is not active")
	case marketplaceapp.CreateOrderStatusListingUnavailable:
		h.ErrorWithCode(c, dto.ErrCodeListingUnavailable, "Listing is not available for the requested dates")
	default:
		h.Created(c, toOrderResponse(result.Order, result.ClientSecret))
	}
}

// CreateSaleOrder handles POST /marketplace/orders/sale
func (h *MarketplaceHandler) CreateSaleOrder(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateSaleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}
	result, err := h.orderService.CreateSaleOrder(c.Request.Context(), listingID, buyerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	switch result.Status {
	case marketplaceapp.CreateOrderStatusListingNotActive:
		h.ErrorWithCode(c, dto.ErrCodeInvalidState, "Listing is not active")
	case marketplaceapp.CreateOrderStatusListingUnavailable:
		h.ErrorWithCode(c, dto.ErrCodeListingUnavailable, "Listing already has an open order")
	default:
		h.Created(c, toOrderResponse(result.Order, result.ClientSecret))
	}
}

// GetOrder handles GET /marketplace/orders/:id
func (h *MarketplaceHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOrderResponse(order, ""))
}

// StartOrder handles POST /marketplace/orders/:id/start
func (h *MarketplaceHandler) StartOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.StartOrder(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CompleteOrder handles POST /marketplace/orders/:id/complete
func (h *MarketplaceHandler) CompleteOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.CompleteOrder(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CancelOrderRequest represents a cancel request
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// CancelOrder handles POST /marketplace/orders/:id/cancel
func (h *MarketplaceHandler) CancelOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), id, req.Reason); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// parseDateRange parses start/end dates in YYYY-MM-DD format
func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
