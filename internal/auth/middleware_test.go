package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/sokrith/blogmesh-core/internal/users"
)

func newGuardedRouter(secret []byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetUint("user_id"), "name": c.GetString("user_name")})
	})
	return r
}

func TestRequireAuth_NoToken(t *testing.T) {
	r := newGuardedRouter([]byte("secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"msg":"no token"}`, w.Body.String())
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	r := newGuardedRouter([]byte("secret"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(TokenHeader, "garbage")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"msg":"invalid token"}`, w.Body.String())
}

func TestRequireAuth_ValidToken(t *testing.T) {
	secret := []byte("secret")
	r := newGuardedRouter(secret)

	tok, err := GenerateToken(&users.User{ID: 7, Name: "carol"}, secret)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(TokenHeader, tok)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"id":7,"name":"carol"}`, w.Body.String())
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	r := newGuardedRouter([]byte("server-secret"))

	tok, err := GenerateToken(&users.User{ID: 7, Name: "carol"}, []byte("other-secret"))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(TokenHeader, tok)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
