package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"budgetapp/internal/core"
	applog "budgetapp/internal/log"
)

const (
	detailInvalidMonth    = "Month must be in format YYYY-MM (e.g. 2026-02)"
	detailInvalidType     = "Category type must be 'income' or 'expense'"
	detailDuplicateBudget = "Budget already exists for this category and month"
	detailUnauthorized    = "Could not validate credentials"
	detailInternal        = "Internal Server Error"
)

// statusFor maps an error to its HTTP status and client-facing detail.
func statusFor(err error) (int, string) {
	var notFound *core.NotFoundError
	switch {
	case errors.Is(err, core.ErrInvalidMonthFormat):
		return http.StatusBadRequest, detailInvalidMonth
	case errors.Is(err, core.ErrInvalidCategoryType):
		return http.StatusBadRequest, detailInvalidType
	case errors.Is(err, core.ErrDuplicateBudget):
		return http.StatusBadRequest, detailDuplicateBudget
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFoundDetail(notFound.Entity)
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, errValidation), errors.Is(err, core.ErrEmptyName), errors.Is(err, core.ErrMissingCategory):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, detailInternal
	}
}

// notFoundDetail turns "category" into "Category not found".
func notFoundDetail(entity string) string {
	if entity == "" {
		return "Not found"
	}
	return strings.ToUpper(entity[:1]) + entity[1:] + " not found"
}

// writeError aborts the request with the mapped status. Server errors are
// logged with the request-scoped logger; their cause is never sent.
func writeError(c *gin.Context, err error) {
	status, detail := statusFor(err)
	if status >= http.StatusInternalServerError {
		applog.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "Request failed",
			applog.FieldError, err.Error(),
			applog.FieldPath, c.FullPath())
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
