package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/codegen/internal/pkg/errcode"
	"github.com/xxxsen/codegen/internal/pkg/jwt"
)

func decodeCode(t *testing.T, body []byte) int {
	t.Helper()
	var envelope struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Code
}

func newTestRouter(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middlewares...)
	r.GET("/ping", func(c *gin.Context) {
		subject, _ := c.Get(ContextSubjectKey)
		reqID, _ := c.Get(ContextRequestIDKey)
		c.JSON(http.StatusOK, gin.H{"subject": subject, "request_id": reqID})
	})
	return r
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := newTestRouter(RequestID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	require.Len(t, w.Header().Get(HeaderRequestID), 36)

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(HeaderRequestID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "abc", w.Header().Get(HeaderRequestID))
	require.Contains(t, w.Body.String(), `"request_id":"abc"`)
}

func TestCORS_Allowlist(t *testing.T) {
	r := newTestRouter(CORS([]string{"https://a.example"}))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "https://a.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "https://a.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "https://b.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	r := newTestRouter(CORS(nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/ping", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestJWTAuth(t *testing.T) {
	secret := []byte("secret")
	r := newTestRouter(JWTAuth(secret))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, errcode.ErrUnauthorized, decodeCode(t, w.Body.Bytes()))

	token, err := jwt.GenerateToken("ci-bot", secret, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Contains(t, w.Body.String(), `"subject":"ci-bot"`)

	req = httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, errcode.ErrUnauthorized, decodeCode(t, w.Body.Bytes()))
}
