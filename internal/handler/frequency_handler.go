package handler

import (
	"net/http"

	"chapelcast/internal/middleware"
	"chapelcast/internal/service"

	"github.com/gin-gonic/gin"
)

type FrequencyHandler struct {
	svc *service.PreferenceService
}

func NewFrequencyHandler(svc *service.PreferenceService) *FrequencyHandler {
	return &FrequencyHandler{svc: svc}
}

func (h *FrequencyHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	f, err := h.svc.GetFrequency(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "frequency load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"frequency": f})
}

type updateFrequencyRequest struct {
	MaxPerDay  *int  `json:"max_per_day" binding:"omitempty,min=0,max=100"`
	MaxPerWeek *int  `json:"max_per_week" binding:"omitempty,min=0,max=500"`
	Enabled    *bool `json:"enabled"`
}

// Update merges a partial edit into the singleton row, creating it with
// defaults on first write.
func (h *FrequencyHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req updateFrequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := h.svc.UpdateFrequency(userID, service.FrequencyUpdate{
		MaxPerDay:  req.MaxPerDay,
		MaxPerWeek: req.MaxPerWeek,
		Enabled:    req.Enabled,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"frequency": f})
}
