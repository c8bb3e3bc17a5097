package posts

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type createdByDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type postDTO struct {
	ID        uint         `json:"id"`
	Title     string       `json:"title"`
	Body      string       `json:"body"`
	CreatedBy createdByDTO `json:"createdBy"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func toDTO(p *Post) postDTO {
	return postDTO{
		ID:    p.ID,
		Title: p.Title,
		Body:  p.Body,
		CreatedBy: createdByDTO{
			ID:   p.CreatedBy.ID,
			Name: p.CreatedBy.Name,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// List returns a page of posts in insertion order with the owner's name
// populated, plus total item and page counts.
func (h *Handler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	var totalItems int64
	if err := h.DB.Model(&Post{}).Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
		return
	}

	var posts []Post
	offset := (page - 1) * limit
	if err := h.DB.Preload("CreatedBy").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
		return
	}

	data := make([]postDTO, 0, len(posts))
	for i := range posts {
		data = append(data, toDTO(&posts[i]))
	}

	totalPages := (totalItems + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"page":       page,
		"limit":      limit,
		"totalItems": totalItems,
		"totalPages": totalPages,
		"data":       data,
	})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, "Error: invalid id")
		return
	}

	var post Post
	if err := h.DB.Preload("CreatedBy").First(&post, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, "Post not found")
			return
		}
		c.JSON(http.StatusBadRequest, "Error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, toDTO(&post))
}

type postBodyDTO struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Add creates a post owned by the authenticated caller. The owner comes from
// the verified token, never from the request body.
func (h *Handler) Add(c *gin.Context) {
	var dto postBodyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, "error:"+err.Error())
		return
	}
	if dto.Title == "" || dto.Body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Title and body are required"})
		return
	}

	post := Post{
		Title:       dto.Title,
		Body:        dto.Body,
		CreatedByID: c.GetUint("user_id"),
	}
	if err := h.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusBadRequest, "error:"+err.Error())
		return
	}
	c.JSON(http.StatusOK, "Post added!")
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, "Error: invalid id")
		return
	}

	var post Post
	if err := h.DB.First(&post, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, "Post not found")
			return
		}
		c.JSON(http.StatusBadRequest, "Error: "+err.Error())
		return
	}

	if post.CreatedByID != c.GetUint("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"msg": "Unauthorized"})
		return
	}

	var dto postBodyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, "Error: "+err.Error())
		return
	}

	post.Title = dto.Title
	post.Body = dto.Body
	if err := h.DB.Save(&post).Error; err != nil {
		c.JSON(http.StatusBadRequest, "Error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, "Post updated")
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, "Error: invalid id")
		return
	}

	var post Post
	if err := h.DB.First(&post, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, "Post not found")
			return
		}
		c.JSON(http.StatusBadRequest, "Error: "+err.Error())
		return
	}

	if post.CreatedByID != c.GetUint("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"msg": "Unauthorized"})
		return
	}

	if err := h.DB.Delete(&post).Error; err != nil {
		c.JSON(http.StatusBadRequest, "Error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, "Post Deleted")
}

type bulkDeleteDTO struct {
	PostIDs []uint `json:"postIds"`
}

// BulkDelete removes every matching post. Missing ids are a silent no-op and
// there is no per-item ownership check, matching the single-page client this
// endpoint was built for.
func (h *Handler) BulkDelete(c *gin.Context) {
	var dto bulkDeleteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, "Error: "+err.Error())
		return
	}

	if len(dto.PostIDs) > 0 {
		if err := h.DB.Delete(&Post{}, dto.PostIDs).Error; err != nil {
			c.JSON(http.StatusBadRequest, "Error: "+err.Error())
			return
		}
	}
	c.JSON(http.StatusOK, "Selected posts deleted")
}
