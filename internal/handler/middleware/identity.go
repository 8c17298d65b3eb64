package middleware

import (
	"net/http"
	"strings"

	"sharebook/internal/handler/httperr"
	"sharebook/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID    = "X-User-ID"
	currentUserKey  = "current_user"
	maxUserIDLength = 255
)

var (
	ErrMissingUser = errs.New("missing X-User-ID header")
	ErrInvalidUser = errs.New("invalid X-User-ID header")
)

// RequireUser identifies the caller from the X-User-ID header.
// Authentication is delegated to the gateway in front of this service.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if userID == "" {
			httperr.AbortWithCode(c, http.StatusUnauthorized, httperr.CodeUnauthenticated, ErrMissingUser, "Unauthorized", nil)
			return
		}
		if len(userID) > maxUserIDLength {
			httperr.AbortWithCode(c, http.StatusBadRequest, httperr.CodeInvalidRequest, ErrInvalidUser, "Invalid user id", nil)
			return
		}
		c.Set(currentUserKey, userID)
	}
}

func GetCurrentUser(c *gin.Context) (string, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok && userID != ""
}
