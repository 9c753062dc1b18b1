package main

import (
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTokenRoundTrip(t *testing.T) {
	cfg.JWTSecret = "test-secret"
	user := User{ID: primitive.NewObjectID(), IsAdmin: true}

	tokenStr, err := generateToken(user)
	require.NoError(t, err)

	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims := token.Claims.(*JWTClaims)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func authTestContext(t *testing.T, header string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/cart", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	return c, w
}

func TestAuthRequiredMissingToken(t *testing.T) {
	c, w := authTestContext(t, "")
	authRequired(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, 401, w.Code)
}

func TestAuthRequiredBadToken(t *testing.T) {
	c, w := authTestContext(t, "Bearer not-a-token")
	authRequired(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, 401, w.Code)
}

func TestAuthRequiredWrongSecret(t *testing.T) {
	cfg.JWTSecret = "test-secret"
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, JWTClaims{UserID: "x"})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	c, w := authTestContext(t, "Bearer "+signed)
	authRequired(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, 401, w.Code)
}

func TestAuthRequiredValidToken(t *testing.T) {
	cfg.JWTSecret = "test-secret"
	user := User{ID: primitive.NewObjectID()}
	tokenStr, err := generateToken(user)
	require.NoError(t, err)

	c, _ := authTestContext(t, "Bearer "+tokenStr)
	authRequired(c)
	assert.False(t, c.IsAborted())
	assert.Equal(t, user.ID.Hex(), c.GetString("userId"))
	assert.False(t, c.GetBool("isAdmin"))
}

func TestAdminRequired(t *testing.T) {
	c, w := authTestContext(t, "")
	c.Set("isAdmin", false)
	adminRequired(c)
	assert.True(t, c.IsAborted())
	assert.Equal(t, 401, w.Code)

	c, _ = authTestContext(t, "")
	c.Set("isAdmin", true)
	adminRequired(c)
	assert.False(t, c.IsAborted())
}
