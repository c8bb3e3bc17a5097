package users

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type Handler struct {
	DB        *gorm.DB
	UploadDir string
}

func NewHandler(db *gorm.DB, uploadDir string) *Handler {
	return &Handler{DB: db, UploadDir: uploadDir}
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	return string(b), err
}

// conflictMessage maps a duplicate-key error to the field-specific message.
// Postgres reports the violated constraint; other drivers only tell us a
// unique index was hit, so they fall back to the email message.
func conflictMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.Contains(pgErr.ConstraintName, "number"):
			return "Phone number already exists"
		case strings.Contains(pgErr.ConstraintName, "name"):
			return "Name already exists"
		}
	}
	return "User already exists"
}

// saveUpload stores an uploaded avatar as <unix-millis>-<name><ext> under the
// uploads directory. The original base name is slugified so it is safe to
// join into a path.
func (h *Handler) saveUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	base := filepath.Base(file.Filename)
	ext := filepath.Ext(base)
	name := slug.Make(strings.TrimSuffix(base, ext))
	filename := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), name, ext)
	if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, filename)); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return filename, nil
}

// List returns every user. The route is intentionally left unauthenticated,
// matching the service contract.
func (h *Handler) List(c *gin.Context) {
	var users []User
	if err := h.DB.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, "Error: invalid id")
		return
	}

	var user User
	if err := h.DB.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, "user not found")
			return
		}
		c.JSON(http.StatusBadRequest, "Error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) Register(c *gin.Context) {
	email := c.PostForm("email")
	name := c.PostForm("name")
	lname := c.PostForm("lname")
	number := c.PostForm("number")
	password := c.PostForm("password")

	if !ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid email"})
		return
	}
	if !ValidateName(name) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid name"})
		return
	}
	if !ValidateName(lname) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid lname"})
		return
	}
	if !ValidatePassword(password) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid password"})
		return
	}
	if !ValidateNumber(number) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid phone number"})
		return
	}

	var image string
	if file, err := c.FormFile("image"); err == nil {
		image, err = h.saveUpload(c, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
			return
		}
	}

	hashed, err := HashPassword(password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
		return
	}

	user := User{
		Email:    email,
		Name:     name,
		Lname:    lname,
		Number:   number,
		Gname:    c.PostForm("gname"),
		Password: hashed,
		Image:    image,
	}

	// Single atomic insert; the unique indexes on email, name and number do
	// the duplicate checking.
	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": conflictMessage(err)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "User registered successfully"})
}

func (h *Handler) Edit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	var user User
	if err := h.DB.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
		return
	}

	email := c.PostForm("email")
	name := c.PostForm("name")
	lname := c.PostForm("lname")
	number := c.PostForm("number")
	password := c.PostForm("password")

	if email != "" && !ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid email"})
		return
	}
	if name != "" && !ValidateName(name) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid name"})
		return
	}
	if lname != "" && !ValidateName(lname) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid lname"})
		return
	}
	if password != "" && !ValidatePassword(password) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid password"})
		return
	}
	if number != "" && !ValidateNumber(number) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid phone number"})
		return
	}

	// Collision checks must exclude the user being edited, so a plain insert
	// cannot replace them here. The unique indexes still backstop the race.
	if email != "" {
		var other User
		if err := h.DB.First(&other, "email = ?", email).Error; err == nil && other.ID != user.ID {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Email already exists"})
			return
		}
	}
	if number != "" {
		var other User
		if err := h.DB.First(&other, "number = ?", number).Error; err == nil && other.ID != user.ID {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Phone number already exists"})
			return
		}
	}

	if file, err := c.FormFile("image"); err == nil {
		image, err := h.saveUpload(c, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
			return
		}
		// the previous file is left on disk
		user.Image = image
	}

	if email != "" {
		user.Email = email
	}
	if name != "" {
		user.Name = name
	}
	if lname != "" {
		user.Lname = lname
	}
	if number != "" {
		user.Number = number
	}
	if password != "" {
		hashed, err := HashPassword(password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
			return
		}
		user.Password = hashed
	}

	if err := h.DB.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": conflictMessage(err)})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "User updated successfully"})
}

// Avatar streams the stored image for a user, or 404 when the user has no
// image or the file is gone from disk.
func (h *Handler) Avatar(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, "Error: invalid id")
		return
	}

	var user User
	if err := h.DB.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.String(http.StatusNotFound, "Image not found")
			return
		}
		c.JSON(http.StatusBadRequest, "Error: "+err.Error())
		return
	}
	if user.Image == "" {
		c.String(http.StatusNotFound, "Image not found")
		return
	}

	path := filepath.Join(h.UploadDir, user.Image)
	if _, err := os.Stat(path); err != nil {
		c.String(http.StatusNotFound, "Image not found")
		return
	}
	c.File(path)
}
