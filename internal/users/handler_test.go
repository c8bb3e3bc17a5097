package users_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sokrith/blogmesh-core/internal/auth"
	"github.com/sokrith/blogmesh-core/internal/config"
	"github.com/sokrith/blogmesh-core/internal/posts"
	"github.com/sokrith/blogmesh-core/internal/server"
	"github.com/sokrith/blogmesh-core/internal/users"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&users.User{}, &posts.Post{}))

	cfg := &config.Config{
		JWTSecret: []byte("test-secret"),
		UploadDir: t.TempDir(),
	}
	return server.NewRouter(db, cfg), db, cfg
}

type field struct{ key, value string }

func multipartBody(t *testing.T, fields []field, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, f := range fields {
		require.NoError(t, w.WriteField(f.key, f.value))
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("image", fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func registerForm(email, name, number string) []field {
	return []field{
		{"email", email},
		{"name", name},
		{"lname", "Doe"},
		{"number", number},
		{"password", "Str0ng+pass"},
	}
}

func doRegister(t *testing.T, r *gin.Engine, fields []field) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, "", nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/register", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	return w
}

func doLogin(t *testing.T, r *gin.Engine, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(gin.H{"email": email, "password": password})
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r, _, cfg := newTestServer(t)

	w := doRegister(t, r, registerForm("alice@example.com", "Alice", "0123456789"))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"msg":"User registered successfully"}`, w.Body.String())

	w = doLogin(t, r, "alice@example.com", "Str0ng+pass")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "Alice", resp.User.Name)

	claims, err := auth.ParseToken(resp.Token, cfg.JWTSecret)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doRegister(t, r, registerForm("dup@example.com", "Alice", "0123456789"))
	require.Equal(t, http.StatusOK, w.Code)

	// same email, everything else unique
	w = doRegister(t, r, registerForm("dup@example.com", "Bobby", "9876543210"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "already exists")
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	r, _, _ := newTestServer(t)

	fields := registerForm("weak@example.com", "Alice", "0123456789")
	fields[4] = field{"password", "Abcdef!"} // no digit
	w := doRegister(t, r, fields)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"msg":"Invalid password"}`, w.Body.String())
}

func TestRegisterRejectsBadPhoneNumber(t *testing.T) {
	r, _, _ := newTestServer(t)

	fields := registerForm("phone@example.com", "Alice", "12345")
	w := doRegister(t, r, fields)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"msg":"Invalid phone number"}`, w.Body.String())
}

func TestLoginWrongPassword(t *testing.T) {
	r, _, _ := newTestServer(t)

	doRegister(t, r, registerForm("carol@example.com", "Carol", "0123456789"))

	w := doLogin(t, r, "carol@example.com", "Wr0ng+pass")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"msg":"Invalid password"}`, w.Body.String())

	w = doLogin(t, r, "nobody@example.com", "Str0ng+pass")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"msg":"Invalid Email"}`, w.Body.String())
}

func TestMeOmitsPassword(t *testing.T) {
	r, db, cfg := newTestServer(t)

	doRegister(t, r, registerForm("dave@example.com", "Dave", "0123456789"))

	var u users.User
	require.NoError(t, db.First(&u, "email = ?", "dave@example.com").Error)
	tok, err := auth.GenerateToken(&u, cfg.JWTSecret)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set(auth.TokenHeader, tok)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "dave@example.com")
	require.NotContains(t, w.Body.String(), "password")
	require.NotContains(t, w.Body.String(), u.Password)
}

func TestListUsersIsPublic(t *testing.T) {
	r, _, _ := newTestServer(t)

	doRegister(t, r, registerForm("eve@example.com", "Evelyn", "0123456789"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "eve@example.com")
}

func TestEditRejectsEmailCollision(t *testing.T) {
	r, db, cfg := newTestServer(t)

	doRegister(t, r, registerForm("first@example.com", "First", "0123456789"))
	doRegister(t, r, registerForm("second@example.com", "Second", "9876543210"))

	var second users.User
	require.NoError(t, db.First(&second, "email = ?", "second@example.com").Error)
	tok, err := auth.GenerateToken(&second, cfg.JWTSecret)
	require.NoError(t, err)

	body, contentType := multipartBody(t, []field{{"email", "first@example.com"}}, "", nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/users/edit/%d", second.ID), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(auth.TokenHeader, tok)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.JSONEq(t, `{"msg":"Email already exists"}`, w.Body.String())
}

func TestEditUpdatesFields(t *testing.T) {
	r, db, cfg := newTestServer(t)

	doRegister(t, r, registerForm("frank@example.com", "Frank", "0123456789"))

	var u users.User
	require.NoError(t, db.First(&u, "email = ?", "frank@example.com").Error)
	tok, err := auth.GenerateToken(&u, cfg.JWTSecret)
	require.NoError(t, err)

	body, contentType := multipartBody(t, []field{{"lname", "Castle"}}, "", nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/users/edit/%d", u.ID), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(auth.TokenHeader, tok)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var updated users.User
	require.NoError(t, db.First(&updated, u.ID).Error)
	require.Equal(t, "Castle", updated.Lname)
	require.Equal(t, "frank@example.com", updated.Email)
}

func TestAvatarUploadAndFetch(t *testing.T) {
	r, db, _ := newTestServer(t)

	img := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	fields := registerForm("grace@example.com", "Grace", "0123456789")
	body, contentType := multipartBody(t, fields, "My Avatar.png", img)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/register", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var u users.User
	require.NoError(t, db.First(&u, "email = ?", "grace@example.com").Error)
	require.NotEmpty(t, u.Image)
	require.True(t, strings.HasSuffix(u.Image, ".png"), "kept the extension: %s", u.Image)
	require.NotContains(t, u.Image, " ")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/uploads/%d", u.ID), nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, img, w.Body.Bytes())
}

func TestAvatarMissing(t *testing.T) {
	r, db, _ := newTestServer(t)

	doRegister(t, r, registerForm("henry@example.com", "Henry", "0123456789"))

	var u users.User
	require.NoError(t, db.First(&u, "email = ?", "henry@example.com").Error)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/uploads/%d", u.ID), nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Image not found", w.Body.String())
}
