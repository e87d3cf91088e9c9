package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"budgetapp/internal/core"
	"budgetapp/internal/export"
)

func (s *Server) summaryContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.summaryTimeout)
}

func (s *Server) handleMonthlySummary(c *gin.Context) {
	ctx, cancel := s.summaryContext(c)
	defer cancel()

	summary, err := s.summaries.MonthlySummary(ctx, currentUser(c), c.Param("month"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleAlerts(c *gin.Context) {
	ctx, cancel := s.summaryContext(c)
	defer cancel()

	report, err := s.summaries.Alerts(ctx, currentUser(c), c.Param("month"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleExportSummary streams the monthly summary as an XLSX workbook.
func (s *Server) handleExportSummary(c *gin.Context) {
	ctx, cancel := s.summaryContext(c)
	defer cancel()

	month := c.Param("month")
	summary, err := s.summaries.MonthlySummary(ctx, currentUser(c), month)
	if err != nil {
		writeError(c, err)
		return
	}
	data, err := export.SummaryXLSX(summary)
	if err != nil {
		writeError(c, fmt.Errorf("render workbook: %w", err))
		return
	}

	// The summary succeeded, so the month token parses.
	m, _ := core.ParseMonth(month)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="budget-summary-%s.xlsx"`, m))
	c.Data(http.StatusOK, export.ContentType, data)
}
