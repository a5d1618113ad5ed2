package handler

import (
	"errors"
	"net/http"
	"strconv"

	"chapelcast/internal/middleware"
	"chapelcast/internal/models"
	"chapelcast/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ScheduleHandler struct {
	svc *service.PreferenceService
}

func NewScheduleHandler(svc *service.PreferenceService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func (h *ScheduleHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	list, err := h.svc.ListSchedules(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": list})
}

type saveScheduleRequest struct {
	ID              uint   `json:"id"` // 0 creates, non-zero updates
	Name            string `json:"name" binding:"required,max=64"`
	Description     string `json:"description" binding:"max=255"`
	QuietHoursStart string `json:"quiet_hours_start" binding:"required,hhmm"`
	QuietHoursEnd   string `json:"quiet_hours_end" binding:"required,hhmm"`
	Timezone        string `json:"timezone"`
	Enabled         *bool  `json:"enabled"`
}

// Save upserts a quiet-hours schedule. Overlapping windows are allowed.
func (h *ScheduleHandler) Save(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req saveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	sched := &models.NotificationSchedule{
		ID:              req.ID,
		UserID:          userID,
		Name:            req.Name,
		Description:     req.Description,
		QuietHoursStart: req.QuietHoursStart,
		QuietHoursEnd:   req.QuietHoursEnd,
		Timezone:        req.Timezone,
		Enabled:         enabled,
	}
	if err := h.svc.SaveSchedule(sched); err != nil {
		if errors.Is(err, service.ErrInvalidQuietHours) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": sched})
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}
	if err := h.svc.DeleteSchedule(uint(id), userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
