//go:build unit

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sharebook/internal/handler/httperr"
	"sharebook/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
		wantUser   string
	}{
		{name: "success: user id is stored", header: "alice", wantStatus: http.StatusOK, wantUser: "alice"},
		{name: "success: surrounding spaces are trimmed", header: "  bob  ", wantStatus: http.StatusOK, wantUser: "bob"},
		{name: "error: header missing", header: "", wantStatus: http.StatusUnauthorized, wantCode: httperr.CodeUnauthenticated},
		{name: "error: header blank", header: "   ", wantStatus: http.StatusUnauthorized, wantCode: httperr.CodeUnauthenticated},
		{name: "error: header too long", header: strings.Repeat("a", 256), wantStatus: http.StatusBadRequest, wantCode: httperr.CodeInvalidRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/whoami", middleware.RequireUser(), func(c *gin.Context) {
				user, ok := middleware.GetCurrentUser(c)
				require.True(t, ok)
				c.String(http.StatusOK, user)
			})

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set(middleware.HeaderUserID, tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantCode == "" {
				assert.Equal(t, tc.wantUser, w.Body.String())
				return
			}
			var body map[string]map[string]string
			require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantCode, body["error"]["code"])
		})
	}
}

func TestGetCurrentUser_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	user, ok := middleware.GetCurrentUser(c)
	assert.False(t, ok)
	assert.Empty(t, user)
}
