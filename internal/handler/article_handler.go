package handler

import (
	"errors"
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

type ArticleHandler struct {
	repo      *repository.ArticleRepository
	dispatch  *service.DispatchService
	auditRepo *repository.AuditLogRepository
}

func NewArticleHandler(repo *repository.ArticleRepository, dispatch *service.DispatchService, auditRepo *repository.AuditLogRepository) *ArticleHandler {
	return &ArticleHandler{repo: repo, dispatch: dispatch, auditRepo: auditRepo}
}

func (h *ArticleHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListPublished(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": list})
}

func (h *ArticleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	a, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": a})
}

func (h *ArticleHandler) ListAll(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.repo.ListAll(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": list})
}

type articleRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Author   string `json:"author" binding:"max=128"`
	Summary  string `json:"summary" binding:"max=512"`
	Body     string `json:"body" binding:"required"`
	CoverURL string `json:"cover_url" binding:"omitempty,url"`
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a := &models.Article{
		Title:    req.Title,
		Author:   req.Author,
		Summary:  req.Summary,
		Body:     req.Body,
		CoverURL: req.CoverURL,
		Status:   domain.ContentStatusDraft,
	}
	if err := h.repo.Create(a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	h.audit(c, "article_create", a.ID)
	c.JSON(http.StatusCreated, gin.H{"article": a})
}

func (h *ArticleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	a, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.Title = req.Title
	a.Author = req.Author
	a.Summary = req.Summary
	a.Body = req.Body
	a.CoverURL = req.CoverURL
	if err := h.repo.Update(a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.audit(c, "article_update", a.ID)
	c.JSON(http.StatusOK, gin.H{"article": a})
}

// Publish marks the article published and fans out a NEW_ARTICLE
// notification through the dispatch gates.
func (h *ArticleHandler) Publish(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	a, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}
	if a.Status == domain.ContentStatusPublished {
		c.JSON(http.StatusConflict, gin.H{"error": "article already published"})
		return
	}
	now := time.Now()
	a.Status = domain.ContentStatusPublished
	a.PublishedAt = &now
	if err := h.repo.Update(a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "publish failed"})
		return
	}
	h.audit(c, "article_publish", a.ID)

	delivered := 0
	if h.dispatch != nil {
		delivered, _ = h.dispatch.Broadcast(c.Request.Context(),
			domain.NotificationNewArticle,
			"New article",
			a.Title,
			map[string]interface{}{"article_id": a.ID})
	}
	c.JSON(http.StatusOK, gin.H{"article": a, "notified": delivered})
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid article id"})
		return
	}
	if err := h.repo.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	h.audit(c, "article_delete", uint(id))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ArticleHandler) audit(c *gin.Context, action string, articleID uint) {
	if h.auditRepo == nil {
		return
	}
	userID := middleware.GetUserID(c)
	_ = h.auditRepo.Create(&models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "article",
		ResourceID: strconv.FormatUint(uint64(articleID), 10),
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	})
}
