package handler

import (
	"errors"
	"net/http"

	"chapelcast/internal/middleware"
	"chapelcast/internal/service"

	"github.com/gin-gonic/gin"
)

type PreferenceHandler struct {
	svc *service.PreferenceService
}

func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{svc: svc}
}

// GetGroups returns the four derived preference groups. Fetch failures fall
// back to defaults inside the service, so this never errors.
func (h *PreferenceHandler) GetGroups(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": h.svc.GetPreferenceGroups(userID)})
}

type updatePreferenceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// UpdatePreference toggles a single sub-preference. Because sub-preferences
// mirror their group, all siblings flip with it.
func (h *PreferenceHandler) UpdatePreference(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req updatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.UpdatePreference(userID, c.Param("group_id"), c.Param("preference_id"), *req.Enabled)
	if err != nil {
		if errors.Is(err, service.ErrUnknownGroup) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": h.svc.GetPreferenceGroups(userID)})
}

// UpdateGroup toggles a whole group in one write.
func (h *PreferenceHandler) UpdateGroup(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req updatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateGroup(userID, c.Param("group_id"), *req.Enabled); err != nil {
		if errors.Is(err, service.ErrUnknownGroup) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": h.svc.GetPreferenceGroups(userID)})
}

// Reset overwrites the settings with the defaults.
func (h *PreferenceHandler) Reset(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.svc.ResetPreferences(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": h.svc.GetPreferenceGroups(userID)})
}

func (h *PreferenceHandler) GetStats(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	stats, err := h.svc.GetStats(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetBundle loads groups, schedules, frequency and stats in one response.
// The load is all-or-nothing; a single failing read fails the request.
func (h *PreferenceHandler) GetBundle(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	bundle, err := h.svc.GetBundle(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "preferences load failed"})
		return
	}
	c.JSON(http.StatusOK, bundle)
}
