// Package http provides HTTP server and handler implementations.
//
// This file holds the helpers that turn path parameters, query strings and
// JSON bodies into domain values.

package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"budgetapp/internal/core"
)

// errValidation marks request shape problems, answered with 422.
var errValidation = errors.New("validation error")

type categoryRequest struct {
	Name string            `json:"name" binding:"required"`
	Type core.CategoryType `json:"type"`
}

type transactionRequest struct {
	CategoryID  int64      `json:"category_id" binding:"required"`
	Amount      *float64   `json:"amount" binding:"required"`
	Description *string    `json:"description"`
	Date        *core.Date `json:"date" binding:"required"`
}

func (r transactionRequest) transaction() core.Transaction {
	return core.Transaction{
		CategoryID:  r.CategoryID,
		Amount:      *r.Amount,
		Description: r.Description,
		Date:        *r.Date,
	}
}

type budgetRequest struct {
	CategoryID  int64    `json:"category_id" binding:"required"`
	Month       string   `json:"month" binding:"required"`
	LimitAmount *float64 `json:"limit_amount" binding:"required"`
}

func (r budgetRequest) budget() core.Budget {
	return core.Budget{
		CategoryID:  r.CategoryID,
		Month:       r.Month,
		LimitAmount: *r.LimitAmount,
	}
}

// bindJSON decodes the body into dst, tagging failures as validation errors.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: %v", errValidation, err)
	}
	return nil
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", errValidation, name, raw)
	}
	return id, nil
}

// optionalQueryID parses an optional integer query parameter. Absent or
// blank values yield nil.
func optionalQueryID(c *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer, got %q", errValidation, name, raw)
	}
	return &id, nil
}
