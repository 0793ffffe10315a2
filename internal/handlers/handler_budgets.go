package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/dto"
	"github.com/SscSPs/spend_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles monthly category budgets.
type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
	now           func() time.Time
}

func newBudgetHandler(bs portssvc.BudgetSvcFacade, now func() time.Time) *budgetHandler {
	return &budgetHandler{budgetService: bs, now: now}
}

func registerBudgetRoutes(rg *gin.RouterGroup, bs portssvc.BudgetSvcFacade, now func() time.Time) {
	h := newBudgetHandler(bs, now)

	budgets := rg.Group("/budgets")
	{
		budgets.GET("", h.listBudgets)
		budgets.PUT("", h.upsertBudget)
		budgets.POST("/bulk", h.applyBudgets)
		budgets.DELETE("/:budgetID", h.deleteBudget)
		budgets.GET("/status", h.budgetStatus)
	}
}

// listBudgets godoc
// @Summary List budgets
// @Description Lists every budget of the logged-in user, active or not
// @Tags budgets
// @Produce  json
// @Success 200 {array} dto.BudgetResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list budgets"
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to list budgets")
		return
	}
	res := make([]dto.BudgetResponse, len(budgets))
	for i, b := range budgets {
		res[i] = dto.ToBudgetResponse(b)
	}
	c.JSON(http.StatusOK, res)
}

// upsertBudget godoc
// @Summary Create or replace a budget
// @Description Sets the monthly limit of a category. An existing budget for the category keeps its ID.
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.UpsertBudgetRequest true "Budget details"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input or unknown category"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Category belongs to another user"
// @Failure 500 {object} map[string]string "Failed to save budget"
// @Security BearerAuth
// @Router /budgets [put]
func (h *budgetHandler) upsertBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	budget, err := h.budgetService.UpsertBudget(c.Request.Context(), userID, req.ToBudgetInput())
	if err != nil {
		writeServiceError(c, logger, err, "Failed to save budget")
		return
	}
	logger.Info("Budget saved", slog.String("budget_id", budget.BudgetID))
	c.JSON(http.StatusOK, dto.ToBudgetResponse(*budget))
}

// applyBudgets godoc
// @Summary Upsert many budgets
// @Description Validates every budget first, then upserts them in batches
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budgets body dto.BulkBudgetRequest true "Budgets to apply"
// @Success 200 {object} domain.BulkBudgetResult
// @Failure 400 {object} map[string]string "Invalid input, repeated or unknown category"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Category belongs to another user"
// @Failure 500 {object} map[string]string "Failed to apply budgets"
// @Security BearerAuth
// @Router /budgets/bulk [post]
func (h *budgetHandler) applyBudgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BulkBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	result, err := h.budgetService.ApplyBudgets(c.Request.Context(), userID, req.ToBudgetInputs())
	if err != nil {
		writeServiceError(c, logger, err, "Failed to apply budgets")
		return
	}
	c.JSON(http.StatusOK, result)
}

// deleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Param   budgetID path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Budget belongs to another user"
// @Failure 404 {object} map[string]string "Budget not found"
// @Failure 500 {object} map[string]string "Failed to delete budget"
// @Security BearerAuth
// @Router /budgets/{budgetID} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	budgetID := c.Param("budgetID")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("budget_id", budgetID))
	if err := h.budgetService.DeleteBudget(c.Request.Context(), userID, budgetID); err != nil {
		writeServiceError(c, logger, err, "Failed to delete budget")
		return
	}
	logger.Info("Budget deleted")
	c.Status(http.StatusNoContent)
}

// budgetStatus godoc
// @Summary Evaluate budgets for a month
// @Description Compares each active budget with the month's debits in its category, most at-risk first
// @Tags budgets
// @Produce  json
// @Param   month query string false "Month as YYYY-MM, defaults to the current month"
// @Success 200 {object} map[string]interface{} "month and budgets ([]dto.BudgetStatusResponse)"
// @Failure 400 {object} map[string]string "Invalid month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to evaluate budgets"
// @Security BearerAuth
// @Router /budgets/status [get]
func (h *budgetHandler) budgetStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.BudgetStatusParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}
	month := h.now().UTC()
	if params.Month != "" {
		parsed, err := time.Parse("2006-01", params.Month)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
			return
		}
		month = parsed
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	statuses, err := h.budgetService.BudgetStatus(c.Request.Context(), userID, month)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to evaluate budgets")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"month":   month.Format("2006-01"),
		"budgets": dto.ToBudgetStatusResponses(statuses),
	})
}
