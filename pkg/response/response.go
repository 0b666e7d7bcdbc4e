package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/pkg/apperror"
	"github.com/oksasatya/storefront-api/pkg/validation"
)

const unexpectedError = "An unexpected error occurred"

// Message is the body of simple acknowledgements and of every error except validation failures.
type Message struct {
	Message string `json:"message"`
}

// Paged is the envelope returned by list endpoints. Page is zero-based.
type Paged[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

func NewPaged[T any](content []T, page, size int, total int64) Paged[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Paged[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    pages,
		Last:          page+1 >= pages,
	}
}

func OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

func Created(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func Msg(c *gin.Context, status int, msg string) {
	c.JSON(status, Message{Message: msg})
}

// ValidationError writes a 400 with a field to message map.
func ValidationError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, validation.ToDetails(err))
}

// StatusOf maps an application error kind onto an HTTP status.
func StatusOf(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindDuplicate, apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindTokenRefresh, apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindBadRequest, apperror.KindInsufficientStock:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// FromError writes the error response for err. Unknown errors are logged
// and reported with a generic message.
func FromError(c *gin.Context, log *logrus.Logger, err error) {
	status := StatusOf(err)
	fields := logrus.Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.FullPath(),
		"status":     status,
	}
	if status == http.StatusInternalServerError {
		if log != nil {
			log.WithFields(fields).WithError(err).Error("request failed")
		}
		c.AbortWithStatusJSON(status, Message{Message: unexpectedError})
		return
	}
	if log != nil {
		log.WithFields(fields).Warn(err.Error())
	}
	c.AbortWithStatusJSON(status, Message{Message: err.Error()})
}
