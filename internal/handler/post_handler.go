package handler

import (
	"errors"
	"net/http"
	"time"

	"taskboard/internal/middleware"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PostHandler struct {
	postRepo repository.PostRepositoryInterface
	logger   *zap.Logger
}

func NewPostHandler(postRepo repository.PostRepositoryInterface, logger *zap.Logger) *PostHandler {
	return &PostHandler{postRepo: postRepo, logger: logger}
}

type PostRequest struct {
	Caption  string `json:"caption"`
	ImageURL string `json:"image_url" binding:"required,url"`
}

type PostResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Author    string `json:"author"`
	Caption   string `json:"caption"`
	ImageURL  string `json:"image_url"`
	CreatedAt string `json:"created_at"`
}

func toPostResponse(p *model.Post) PostResponse {
	return PostResponse{
		ID:        p.ID.String(),
		UserID:    p.UserID.String(),
		Author:    p.User.Name,
		Caption:   p.Caption,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

// List godoc
// @Summary   Photo feed, newest first
// @Tags      Posts
// @Produce   json
// @Security  BearerAuth
// @Success   200 {array} PostResponse
// @Router    /api/posts [get]
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.postRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve posts"})
		return
	}

	response := make([]PostResponse, 0, len(posts))
	for i := range posts {
		response = append(response, toPostResponse(&posts[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary   Publish a post for an already uploaded image
// @Tags      Posts
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     request body PostRequest true "Post"
// @Success   201 {object} PostResponse
// @Failure   400 {object} map[string]string
// @Router    /api/posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide an image URL"})
		return
	}

	post := &model.Post{
		ID:        uuid.New(),
		UserID:    userID,
		Caption:   req.Caption,
		ImageURL:  req.ImageURL,
		CreatedAt: time.Now(),
	}
	if err := h.postRepo.Create(c.Request.Context(), post); err != nil {
		h.logger.Error("create post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, toPostResponse(post))
}

// Delete godoc
// @Summary   Delete own post
// @Tags      Posts
// @Produce   json
// @Security  BearerAuth
// @Param     id path string true "Post ID"
// @Success   200 {object} map[string]string
// @Failure   400,403,404 {object} map[string]string
// @Router    /api/posts/{id} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID format"})
		return
	}

	post, err := h.postRepo.GetByID(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		} else {
			h.logger.Error("get post", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve post"})
		}
		return
	}

	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own posts"})
		return
	}

	if err := h.postRepo.Delete(c.Request.Context(), postID); err != nil && !errors.Is(err, repository.ErrPostNotFound) {
		h.logger.Error("delete post", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post removed"})
}
