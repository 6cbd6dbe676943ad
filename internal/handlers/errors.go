package handlers

import (
	"errors"
	"net/http"
	"time"

	"order-dashboard/internal/middleware"
	"order-dashboard/internal/models"
	"order-dashboard/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the envelope of a failed API call
type ErrorResponse struct {
	Success   bool             `json:"success"`
	Error     *models.APIError `json:"error"`
	Timestamp time.Time        `json:"timestamp"`
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case models.IsValidationError(err):
		return http.StatusBadRequest, "validation_failed"
	case repositories.IsNotFound(err), errors.Is(err, repositories.ErrInvalidID):
		return http.StatusNotFound, "not_found"
	case repositories.IsDuplicate(err):
		return http.StatusConflict, "duplicate"
	case repositories.IsConstraint(err):
		return http.StatusConflict, "constraint_violation"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// respondError writes err as a JSON error envelope
func respondError(c *gin.Context, err error) {
	status, code := statusFor(err)

	apiErr := &models.APIError{Code: code, Message: err.Error()}
	var fields models.ValidationErrors
	var single *models.ValidationError
	switch {
	case errors.As(err, &fields):
		apiErr.Fields = fields
		apiErr.Message = "入力内容に誤りがあります。"
	case errors.As(err, &single):
		apiErr.Fields = []*models.ValidationError{single}
		apiErr.Message = "入力内容に誤りがあります。"
	}

	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		}).Error("Request failed")
		apiErr.Message = "Internal server error"
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: apiErr, Timestamp: time.Now().UTC()})
}

// respondBadRequest reports an undecodable request body or query
func respondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:     &models.APIError{Code: "invalid_request", Message: err.Error()},
		Timestamp: time.Now().UTC(),
	})
}

// respondOK wraps data in the success envelope
func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, models.APIResponse{Success: true, Data: data, Timestamp: time.Now().UTC()})
}

// renderError renders the HTML error page for err
func renderError(c *gin.Context, err error) {
	status, _ := statusFor(err)
	title, message := "エラー", "エラーが発生しました。"
	switch status {
	case http.StatusNotFound:
		title, message = "ページが見つかりません (404)", "お探しのページは存在しません。"
	case http.StatusInternalServerError:
		title = "サーバーエラー (500)"
		logrus.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		}).Error("Page failed")
	}

	c.HTML(status, "error.html", gin.H{
		"title":   title,
		"message": message,
		"user":    c.GetString(middleware.UsernameKey),
	})
	c.Abort()
}

var errNoRoute = &repositories.RepositoryError{
	Op:      "route",
	Entity:  "page",
	Err:     repositories.ErrNotFound,
	Message: "no such endpoint",
}
