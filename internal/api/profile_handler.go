package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Abdeval/gym-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler holds the profile service dependency.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- DTOs ---

type ProfileResponse struct {
	UserResponse
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type AvatarUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmAvatarRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// --- Handler Methods ---

// GetProfile godoc
// @Summary Get the authenticated user's profile
// @Description Returns the user's details plus a temporary avatar download URL when an avatar is stored.
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse "Profile details"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "User not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	user, avatarURL, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve profile.")
		}
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		UserResponse: MapUserToResponse(user),
		AvatarURL:    avatarURL,
	})
}

// RequestAvatarUploadURL godoc
// @Summary Request a presigned avatar upload URL
// @Description Generates a temporary PUT URL for uploading an avatar image directly to object storage.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body AvatarUploadURLRequest true "Image content type"
// @Success 200 {object} service.AvatarUploadResponse "Upload URL and object key"
// @Failure 400 {object} gin.H "Invalid content type"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profile/avatar/upload-url [post]
func (h *ProfileHandler) RequestAvatarUploadURL(c *gin.Context) {
	var req AvatarUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	resp, err := h.profileService.RequestAvatarUploadURL(c.Request.Context(), userID, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAvatarType):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL.")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmAvatarUpload godoc
// @Summary Confirm an avatar upload
// @Description Persists the uploaded object key on the user after the client has PUT the file to the presigned URL.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param confirm body ConfirmAvatarRequest true "Uploaded object key"
// @Success 200 {object} gin.H "Avatar updated"
// @Failure 400 {object} gin.H "Invalid object key"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /profile/avatar/confirm [post]
func (h *ProfileHandler) ConfirmAvatarUpload(c *gin.Context) {
	var req ConfirmAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, ok := userIDFromToken(c)
	if !ok {
		return
	}

	if err := h.profileService.ConfirmAvatarUpload(c.Request.Context(), userID, req.ObjectKey); err != nil {
		switch {
		case errors.Is(err, service.ErrAvatarKeyMismatch):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update avatar.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Avatar updated"})
}

// userIDFromToken extracts and parses the authenticated user's ID, writing
// the error response itself when that fails.
func userIDFromToken(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}
