package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"chapelcast/internal/domain"
	"chapelcast/internal/middleware"
	"chapelcast/internal/models"
	"chapelcast/internal/repository"
	"chapelcast/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SermonHandler struct {
	repo      *repository.SermonRepository
	dispatch  *service.DispatchService
	auditRepo *repository.AuditLogRepository
}

func NewSermonHandler(repo *repository.SermonRepository, dispatch *service.DispatchService, auditRepo *repository.AuditLogRepository) *SermonHandler {
	return &SermonHandler{repo: repo, dispatch: dispatch, auditRepo: auditRepo}
}

func (h *SermonHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListPublished(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sermons": list})
}

func (h *SermonHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sermon id"})
		return
	}
	s, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sermon not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sermon": s})
}

// ListAll includes drafts; admin only.
func (h *SermonHandler) ListAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListAll(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sermons": list})
}

type sermonRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Speaker     string `json:"speaker" binding:"max=128"`
	Series      string `json:"series" binding:"max=128"`
	Description string `json:"description"`
	AudioURL    string `json:"audio_url" binding:"omitempty,url"`
	ArtworkURL  string `json:"artwork_url" binding:"omitempty,url"`
	DurationSec int    `json:"duration_sec" binding:"min=0"`
}

func (h *SermonHandler) Create(c *gin.Context) {
	var req sermonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := &models.Sermon{
		Title:       req.Title,
		Speaker:     req.Speaker,
		Series:      req.Series,
		Description: req.Description,
		AudioURL:    req.AudioURL,
		ArtworkURL:  req.ArtworkURL,
		DurationSec: req.DurationSec,
		Status:      domain.ContentStatusDraft,
	}
	if err := h.repo.Create(s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	h.audit(c, "sermon_create", s.ID)
	c.JSON(http.StatusCreated, gin.H{"sermon": s})
}

func (h *SermonHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sermon id"})
		return
	}
	s, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sermon not found"})
		return
	}
	var req sermonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.Title = req.Title
	s.Speaker = req.Speaker
	s.Series = req.Series
	s.Description = req.Description
	s.AudioURL = req.AudioURL
	s.ArtworkURL = req.ArtworkURL
	s.DurationSec = req.DurationSec
	if err := h.repo.Update(s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit(c, "sermon_update", s.ID)
	c.JSON(http.StatusOK, gin.H{"sermon": s})
}

// Publish marks the sermon published and fans out a NEW_SERMON notification
// to every user; each delivery passes the preference, quiet-hours and
// frequency gates.
func (h *SermonHandler) Publish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sermon id"})
		return
	}
	s, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sermon not found"})
		return
	}
	if s.Status == domain.ContentStatusPublished {
		c.JSON(http.StatusConflict, gin.H{"error": "sermon already published"})
		return
	}
	now := time.Now()
	s.Status = domain.ContentStatusPublished
	s.PublishedAt = &now
	if err := h.repo.Update(s); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "publish failed"})
		return
	}
	h.audit(c, "sermon_publish", s.ID)

	delivered := 0
	if h.dispatch != nil {
		delivered, _ = h.dispatch.Broadcast(c.Request.Context(),
			domain.NotificationNewSermon,
			"New sermon",
			fmt.Sprintf("%s by %s is now available", s.Title, s.Speaker),
			map[string]interface{}{"sermon_id": s.ID})
	}
	c.JSON(http.StatusOK, gin.H{"sermon": s, "notified": delivered})
}

func (h *SermonHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sermon id"})
		return
	}
	if err := h.repo.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sermon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.audit(c, "sermon_delete", uint(id))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SermonHandler) audit(c *gin.Context, action string, sermonID uint) {
	if h.auditRepo == nil {
		return
	}
	userID := middleware.GetUserID(c)
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "sermon",
		ResourceID: strconv.FormatUint(uint64(sermonID), 10),
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
}
