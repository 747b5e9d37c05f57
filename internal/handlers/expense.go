package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/akshay911-01/dbms-proj/internal/auth"
	dom "github.com/akshay911-01/dbms-proj/internal/domain"
	"github.com/akshay911-01/dbms-proj/internal/dto"
	"github.com/akshay911-01/dbms-proj/internal/export"
	"github.com/akshay911-01/dbms-proj/internal/repo"
	"github.com/akshay911-01/dbms-proj/internal/service"
	"github.com/akshay911-01/dbms-proj/internal/stats"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	svc *service.ExpenseService
}

func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// Add godoc
// @Summary      Add an expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.AddExpenseRequest  true  "Expense body"
// @Success      201   {object}  dto.AddExpenseResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/expenses/add [post]
func (h *ExpenseHandler) Add(c *gin.Context) {
	var req dto.AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	ownerID := auth.UserIDFromContext(c)
	e, err := h.svc.Add(c.Request.Context(), ownerID, req.Category, req.Amount, req.Title, req.Date.Ptr())
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": verr.Error()})
			return
		}
		log.Printf("add expense: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error adding expense"})
		return
	}
	c.JSON(http.StatusCreated, dto.AddExpenseResponse{
		Message: "Expense added successfully",
		Expense: expenseToResponse(e),
	})
}

// List godoc
// @Summary      List expenses, most recent first
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        category  query  string  false  "Exact category match"
// @Param        date      query  string  false  "Calendar day (YYYY-MM-DD)"
// @Success      200  {array}   dto.ExpenseResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	filter := repo.ListFilter{Category: c.Query("category")}
	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "date must be YYYY-MM-DD"})
			return
		}
		filter.Date = &day
	}
	h.list(c, filter)
}

// ListByDate godoc
// @Summary      List expenses for one calendar day
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        date  path  string  true  "Calendar day (YYYY-MM-DD)"
// @Success      200  {array}   dto.ExpenseResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/expenses/date/{date} [get]
func (h *ExpenseHandler) ListByDate(c *gin.Context) {
	day, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "date must be YYYY-MM-DD"})
		return
	}
	h.list(c, repo.ListFilter{Date: &day})
}

func (h *ExpenseHandler) list(c *gin.Context, filter repo.ListFilter) {
	ownerID := auth.UserIDFromContext(c)
	list, err := h.svc.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		log.Printf("list expenses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching expenses"})
		return
	}
	c.JSON(http.StatusOK, expensesToResponses(list))
}

// Delete godoc
// @Summary      Delete an expense by ID
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  int  true  "Expense ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid expense ID"})
		return
	}
	ownerID := auth.UserIDFromContext(c)
	if err := h.svc.Delete(c.Request.Context(), ownerID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Expense not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"message": "Unauthorized to delete this expense"})
		default:
			log.Printf("delete expense: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting expense"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// Calendar godoc
// @Summary      Aggregate statistics over all expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SummaryResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/expenses/calendar [get]
func (h *ExpenseHandler) Calendar(c *gin.Context) {
	ownerID := auth.UserIDFromContext(c)
	report, err := h.svc.Summarize(c.Request.Context(), ownerID)
	if err != nil {
		log.Printf("summarize expenses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching expenses"})
		return
	}
	c.JSON(http.StatusOK, reportToResponse(report))
}

// Export godoc
// @Summary      Download all expenses as a spreadsheet
// @Tags         expenses
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    binary
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /export-excel [get]
func (h *ExpenseHandler) Export(c *gin.Context) {
	ownerID := auth.UserIDFromContext(c)
	expenses, err := h.svc.ForExport(c.Request.Context(), ownerID)
	if err != nil {
		log.Printf("export expenses: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to export expenses"})
		return
	}
	workbook, err := export.BuildWorkbook(expenses)
	if err != nil {
		log.Printf("export expenses: build workbook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to export expenses"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="expenses.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if _, err := workbook.WriteTo(c.Writer); err != nil {
		log.Printf("export expenses: write: %v", err)
	}
}

func expenseToResponse(e dom.Expense) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:       e.ID,
		OwnerID:  e.OwnerID,
		Category: e.Category,
		Amount:   e.Amount,
		Title:    e.Title,
		Date:     e.Date,
	}
}

func expensesToResponses(list []dom.Expense) []dto.ExpenseResponse {
	out := make([]dto.ExpenseResponse, len(list))
	for i := range list {
		out[i] = expenseToResponse(list[i])
	}
	return out
}

func reportToResponse(r stats.Report) dto.SummaryResponse {
	series := make([]dto.DayTotal, len(r.Series))
	for i, p := range r.Series {
		series[i] = dto.DayTotal{Day: p.Day, Total: p.Total}
	}
	return dto.SummaryResponse{
		Series:             series,
		DailyAvg:           r.DailyAvg,
		MonthlyAvg:         r.MonthlyAvg,
		TopCategoryBySpend: r.TopCategoryBySpend,
		TopCategoryByCount: r.TopCategoryByCount,
		CategoryTotals:     r.CategoryTotals,
	}
}
