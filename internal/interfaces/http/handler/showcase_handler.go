package handler

import (
	"time"

	showcaseapp "github.com/gigverse/backend/internal/application/showcase"
	"github.com/gigverse/backend/internal/domain/showcase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ShowcaseHandler handles portfolio showcase HTTP requests
type ShowcaseHandler struct {
	BaseHandler
	showcaseService *showcaseapp.ShowcaseService
}

// NewShowcaseHandler creates a new ShowcaseHandler
func NewShowcaseHandler(showcaseService *showcaseapp.ShowcaseService) *ShowcaseHandler {
	return &ShowcaseHandler{showcaseService: showcaseService}
}

// CreateShowcaseRequest represents a showcase creation request
type CreateShowcaseRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=5000"`
}

// ShowcaseResponse represents a showcase in responses
type ShowcaseResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

func toShowcaseResponse(s *showcase.Showcase) ShowcaseResponse {
	return ShowcaseResponse{
		ID:          s.ID.String(),
		OwnerID:     s.OwnerID.String(),
		Title:       s.Title,
		Description: s.Description,
		PublishedAt: s.PublishedAt,
	}
}

// Create handles POST /showcases
func (h *ShowcaseHandler) Create(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateShowcaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.showcaseService.CreateShowcase(c.Request.Context(), ownerID, req.Title, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Status == showcaseapp.CreateShowcaseStatusSubscriptionLimit {
		h.QuotaExceeded(c, result.Limit)
		return
	}

	h.Created(c, toShowcaseResponse(result.Showcase))
}

// Get handles GET /showcases/:id
func (h *ShowcaseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid showcase ID")
		return
	}

	s, err := h.showcaseService.GetShowcase(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toShowcaseResponse(s))
}
