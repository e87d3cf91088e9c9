package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"budgetapp/internal/core"
)

// Categories

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	cat, err := s.ledger.CreateCategory(c.Request.Context(), currentUser(c), req.Name, req.Type)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) handleListCategories(c *gin.Context) {
	cats, err := s.ledger.ListCategories(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(cats))
}

func (s *Server) handleGetCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	cat, err := s.ledger.GetCategory(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) handleUpdateCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	cat, err := s.ledger.UpdateCategory(c.Request.Context(), currentUser(c), id, req.Name, req.Type)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.ledger.DeleteCategory(c.Request.Context(), currentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Transactions

func (s *Server) handleCreateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	t, err := s.ledger.CreateTransaction(c.Request.Context(), currentUser(c), req.transaction())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *Server) handleListTransactions(c *gin.Context) {
	categoryID, err := optionalQueryID(c, "category_id")
	if err != nil {
		writeError(c, err)
		return
	}
	txs, err := s.ledger.ListTransactions(c.Request.Context(), currentUser(c), categoryID, strings.TrimSpace(c.Query("month")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(txs))
}

func (s *Server) handleGetTransaction(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	t, err := s.ledger.GetTransaction(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// handleUpdateTransaction applies a partial update: omitted fields keep
// their stored value.
func (s *Server) handleUpdateTransaction(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var patch core.TransactionPatch
	if err := bindJSON(c, &patch); err != nil {
		writeError(c, err)
		return
	}
	t, err := s.ledger.UpdateTransaction(c.Request.Context(), currentUser(c), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.ledger.DeleteTransaction(c.Request.Context(), currentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Budgets

func (s *Server) handleCreateBudget(c *gin.Context) {
	var req budgetRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	b, err := s.ledger.CreateBudget(c.Request.Context(), currentUser(c), req.budget())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (s *Server) handleListBudgets(c *gin.Context) {
	budgets, err := s.ledger.ListBudgets(c.Request.Context(), currentUser(c), strings.TrimSpace(c.Query("month")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNil(budgets))
}

func (s *Server) handleGetBudget(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	b, err := s.ledger.GetBudget(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleUpdateBudget(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req budgetRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	b, err := s.ledger.UpdateBudget(c.Request.Context(), currentUser(c), id, req.budget())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleDeleteBudget(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.ledger.DeleteBudget(c.Request.Context(), currentUser(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// nonNil makes empty listings serialize as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
