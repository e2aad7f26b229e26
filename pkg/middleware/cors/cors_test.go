package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(origins []string, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/packages", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/packages", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCORSAllowList(t *testing.T) {
	w := serve([]string{"https://mail.example.edu/"}, http.MethodGet, "https://mail.example.edu")
	assert.Equal(t, "https://mail.example.edu", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = serve([]string{"https://mail.example.edu"}, http.MethodGet, "https://evil.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowAllAndPreflight(t *testing.T) {
	w := serve(nil, http.MethodOptions, "https://any.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}
