package handler

import (
	gigapp "github.com/gigverse/backend/internal/application/gig"
	"github.com/gigverse/backend/internal/domain/gig"
	"github.com/gigverse/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GigHandler handles gig posting and application HTTP requests
type GigHandler struct {
	BaseHandler
	gigService *gigapp.GigService
}

// NewGigHandler creates a new GigHandler
func NewGigHandler(gigService *gigapp.GigService) *GigHandler {
	return &GigHandler{gigService: gigService}
}

// CreateGigRequest represents a gig creation request
type CreateGigRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=5000"`
}

// GigResponse represents a gig in responses
type GigResponse struct {
	ID             string `json:"id"`
	OwnerID        string `json:"owner_id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Status         string `json:"status"`
	ApplicantCount int    `json:"applicant_count"`
	Boosted        bool   `json:"boosted"`
}

func toGigResponse(g *gig.Gig) GigResponse {
	return GigResponse{
		ID:             g.ID.String(),
		OwnerID:        g.OwnerID.String(),
		Title:          g.Title,
		Description:    g.Description,
		Status:         g.Status.String(),
		ApplicantCount: g.ApplicantCount,
		Boosted:        g.Boosted,
	}
}

// Create handles POST /gigs
func (h *GigHandler) Create(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.gigService.CreateGig(c.Request.Context(), ownerID, req.Title, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Status == gigapp.CreateGigStatusSubscriptionLimit {
		h.QuotaExceeded(c, result.Limit)
		return
	}

	h.Created(c, toGigResponse(result.Gig))
}

// Get handles GET /gigs/:id
func (h *GigHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid gig ID")
		return
	}

	g, err := h.gigService.GetGig(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toGigResponse(g))
}

// ApplyRequest represents a gig application request
type ApplyRequest struct {
	Message string `json:"message" binding:"max=2000"`
}

// ApplicationResponse represents an application in responses
type ApplicationResponse struct {
	ID          string `json:"id"`
	GigID       string `json:"gig_id"`
	ApplicantID string `json:"applicant_id"`
	Message     string `json:"message,omitempty"`
	Status      string `json:"status"`
}

func toApplicationResponse(a *gig.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID.String(),
		GigID:       a.GigID.String(),
		ApplicantID: a.ApplicantID.String(),
		Message:     a.Message,
		Status:      a.Status.String(),
	}
}

// Apply handles POST /gigs/:id/applications
func (h *GigHandler) Apply(c *gin.Context) {
	applicantID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	gigID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid gig ID")
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.gigService.ApplyToGig(c.Request.Context(), gigID, applicantID, req.Message)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	switch result.Status {
	case gigapp.ApplyStatusAlreadyApplied:
		h.Conflict(c, "You have already applied to this gig")
	case gigapp.ApplyStatusGigNotAccepting:
		h.ErrorWithCode(c, dto.ErrCodeInvalidState, "Gig is not accepting applications")
	case gigapp.ApplyStatusSubscriptionLimit:
		h.QuotaExceeded(c, result.Limit)
	default:
		h.Created(c, toApplicationResponse(result.Application))
	}
}

// Boost handles POST /gigs/:id/boost
func (h *GigHandler) Boost(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	gigID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid gig ID")
		return
	}

	if err := h.gigService.BoostGig(c.Request.Context(), ownerID, gigID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Close handles POST /gigs/:id/close
func (h *GigHandler) Close(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	gigID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid gig ID")
		return
	}

	if err := h.gigService.CloseGig(c.Request.Context(), ownerID, gigID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ShortlistRequest represents a bulk shortlist request
type ShortlistRequest struct {
	ApplicationIDs []string `json:"application_ids" binding:"required,min=1,dive,uuid"`
}

// Shortlist handles POST /gigs/:id/shortlist
func (h *GigHandler) Shortlist(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ShortlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ids := make([]uuid.UUID, 0, len(req.ApplicationIDs))
	for _, raw := range req.ApplicationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid application ID")
			return
		}
		ids = append(ids, id)
	}

	if err := h.gigService.Shortlist(c.Request.Context(), ownerID, ids); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// EnhancementRequest represents an AI enhancement consumption request
type EnhancementRequest struct {
	Credits      int64  `json:"credits" binding:"required,gt=0"`
	GenerationID string `json:"generation_id" binding:"required,max=128"`
}

// ConsumeEnhancement handles POST /gigs/enhancements
func (h *GigHandler) ConsumeEnhancement(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req EnhancementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.gigService.ConsumeEnhancement(c.Request.Context(), userID, req.Credits, req.GenerationID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
