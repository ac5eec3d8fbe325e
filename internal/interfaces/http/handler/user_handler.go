package handler

import (
	identityapp "github.com/gigverse/backend/internal/application/identity"
	"github.com/gigverse/backend/internal/domain/identity"
	"github.com/gigverse/backend/internal/domain/subscription"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles user registration and tier management
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required,max=100"`
	ReferredBy  string `json:"referred_by" binding:"omitempty,uuid"`
}

// UserResponse represents a user in responses
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Tier        string `json:"tier"`
	ReferredBy  string `json:"referred_by,omitempty"`
}

func toUserResponse(u *identity.User) UserResponse {
	resp := UserResponse{
		ID:          u.ID.String(),
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Tier:        u.Tier.String(),
	}
	if u.ReferredBy != nil {
		resp.ReferredBy = u.ReferredBy.String()
	}
	return resp
}

// Register handles POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var referredBy *uuid.UUID
	if req.ReferredBy != "" {
		id, err := uuid.Parse(req.ReferredBy)
		if err != nil {
			h.BadRequest(c, "Invalid referrer ID")
			return
		}
		referredBy = &id
	}

	user, err := h.userService.Register(c.Request.Context(), req.Email, req.DisplayName, referredBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toUserResponse(user))
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toUserResponse(user))
}

// ChangeTierRequest represents a tier change request
type ChangeTierRequest struct {
	Tier string `json:"tier" binding:"required,oneof=FREE PLUS PRO CREATOR"`
}

// ChangeTier handles PUT /users/:id/tier
func (h *UserHandler) ChangeTier(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req ChangeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.ChangeTier(c.Request.Context(), id, subscription.Tier(req.Tier)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
