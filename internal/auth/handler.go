package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sokrith/blogmesh-core/internal/users"
)

type Handler struct {
	DB     *gorm.DB
	Secret []byte
}

func NewHandler(db *gorm.DB, secret []byte) *Handler {
	return &Handler{DB: db, Secret: secret}
}

type loginDTO struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	var u users.User
	if err := h.DB.First(&u, "email = ?", dto.Email).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid Email"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid password"})
		return
	}

	token, err := GenerateToken(&u, h.Secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": u.ID, "name": u.Name},
	})
}

// Me returns the authenticated user's record. The password hash is never
// serialized.
func (h *Handler) Me(c *gin.Context) {
	uid := c.GetUint("user_id")

	var u users.User
	if err := h.DB.First(&u, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Logout is a stateless acknowledgment; tokens stay valid until they expire.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"msg": "User logged out"})
}
