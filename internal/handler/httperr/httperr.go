package httperr

import (
	"net/http"

	"sharebook/internal/domain/book"
	"sharebook/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const (
	CodeUnauthenticated = "unauthenticated"
	CodeInvalidRequest  = "invalid-request"
	CodeNotFound        = "not-found"
	CodeConflict        = "conflict"
	CodeInternal        = "internal"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	AbortWithCode(c, status, "", err, msg, detail)
}

func AbortWithCode(c *gin.Context, status int, code string, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithCode: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = code
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Classify maps a usecase error onto an HTTP status and a stable error code.
func Classify(err error) (int, string) {
	if code, ok := book.CodeOf(err); ok {
		switch {
		case book.IsValidationError(err):
			return http.StatusBadRequest, string(code)
		case code == book.CodeNotBookOwner:
			return http.StatusForbidden, string(code)
		default:
			return http.StatusUnprocessableEntity, string(code)
		}
	}

	switch {
	case errs.Is(err, errs.ErrBookNotFound):
		return http.StatusNotFound, CodeNotFound
	case errs.Is(err, errs.ErrConcurrentModification), errs.Is(err, errs.ErrDuplicateBook):
		return http.StatusConflict, CodeConflict
	case errs.Is(err, errs.ErrInvalidCursor):
		return http.StatusBadRequest, CodeInvalidRequest
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// AbortWithDomainError classifies err and hides the message of unexpected failures.
func AbortWithDomainError(c *gin.Context, err error) {
	status, code := Classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	AbortWithCode(c, status, code, err, msg, nil)
}
