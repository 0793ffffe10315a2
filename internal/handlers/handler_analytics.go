package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/spend_ledger/internal/core/analytics"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/core/services"
	"github.com/SscSPs/spend_ledger/internal/dto"
	"github.com/SscSPs/spend_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// analyticsHandler serves the read-side spending reports.
type analyticsHandler struct {
	analyticsService portssvc.AnalyticsService
	now              func() time.Time
}

func newAnalyticsHandler(as portssvc.AnalyticsService, now func() time.Time) *analyticsHandler {
	return &analyticsHandler{analyticsService: as, now: now}
}

func registerAnalyticsRoutes(rg *gin.RouterGroup, as portssvc.AnalyticsService, now func() time.Time) {
	h := newAnalyticsHandler(as, now)

	reports := rg.Group("/analytics")
	{
		reports.GET("/compare", h.comparePeriods)
		reports.GET("/heatmap", h.heatmap)
		reports.GET("/summary", h.summary)
	}
}

// comparisonWindows resolves the query into two periods.
func (h *analyticsHandler) comparisonWindows(p dto.ComparePeriodsParams) (domain.Period, domain.Period, bool) {
	if p.CurrentFrom == "" && p.CurrentTo == "" && p.PreviousFrom == "" && p.PreviousTo == "" {
		current := services.MonthPeriod(h.now().UTC())
		previous := services.MonthPeriod(current.From.AddDate(0, -1, 0))
		return current, previous, true
	}

	bounds := []string{p.CurrentFrom, p.CurrentTo, p.PreviousFrom, p.PreviousTo}
	// A lone current window is compared with the window of equal length before it.
	if p.PreviousFrom == "" && p.PreviousTo == "" {
		bounds = bounds[:2]
	}

	dates := make([]time.Time, len(bounds))
	for i, s := range bounds {
		d, err := parseDate(s)
		if err != nil {
			return domain.Period{}, domain.Period{}, false
		}
		dates[i] = d
	}
	current := domain.Period{From: dates[0], To: dates[1]}
	if len(dates) == 2 {
		return current, analytics.PreviousPeriod(current), true
	}
	return current, domain.Period{From: dates[2], To: dates[3]}, true
}

// comparePeriods godoc
// @Summary Compare two periods
// @Description Totals, top debit categories and deltas for two disjoint half-open windows. Without dates the current month is compared with the previous one; without previous dates the previous window is the one of equal length before the current.
// @Tags analytics
// @Produce  json
// @Param   currentFrom query string false "Current window start (YYYY-MM-DD)"
// @Param   currentTo query string false "Current window end, exclusive (YYYY-MM-DD)"
// @Param   previousFrom query string false "Previous window start (YYYY-MM-DD), omit with previousTo to use the window before current"
// @Param   previousTo query string false "Previous window end, exclusive (YYYY-MM-DD)"
// @Param   top query int false "Top categories per window" default(5)
// @Success 200 {object} domain.PeriodComparison
// @Failure 400 {object} map[string]string "Invalid or overlapping windows"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compare periods"
// @Security BearerAuth
// @Router /analytics/compare [get]
func (h *analyticsHandler) comparePeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ComparePeriodsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}
	current, previous, ok := h.comparisonWindows(params)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currentFrom and currentTo, optionally with previousFrom and previousTo, must be YYYY-MM-DD"})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	comparison, err := h.analyticsService.ComparePeriods(c.Request.Context(), userID, current, previous, params.Top)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to compare periods")
		return
	}
	c.JSON(http.StatusOK, comparison)
}

// heatmap godoc
// @Summary Calendar heatmap
// @Description Daily spending and income of one year with quartile intensity levels, monthly rollups and weekday averages
// @Tags analytics
// @Produce  json
// @Param   year query int false "Calendar year, defaults to the current one"
// @Param   type query string false "all, debit or credit" default(all)
// @Success 200 {object} domain.Heatmap
// @Failure 400 {object} map[string]string "Invalid year or type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build heatmap"
// @Security BearerAuth
// @Router /analytics/heatmap [get]
func (h *analyticsHandler) heatmap(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.HeatmapParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}
	if params.Year == 0 {
		params.Year = h.now().UTC().Year()
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	heatmap, err := h.analyticsService.Heatmap(c.Request.Context(), userID, params.Year, domain.HeatmapFilter(params.Type))
	if err != nil {
		writeServiceError(c, logger, err, "Failed to build heatmap")
		return
	}
	c.JSON(http.StatusOK, heatmap)
}

// summary godoc
// @Summary Spending summary
// @Description 30-day velocity, monthly average, month projection, top category and savings rate as of now
// @Tags analytics
// @Produce  json
// @Success 200 {object} domain.SpendingSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build spending summary"
// @Security BearerAuth
// @Router /analytics/summary [get]
func (h *analyticsHandler) summary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	summary, err := h.analyticsService.SpendingSummary(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to build spending summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
