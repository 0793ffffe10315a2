package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/spend_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/dto"
	"github.com/SscSPs/spend_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// categorizationHandler exposes the classifier and the pattern workflow.
type categorizationHandler struct {
	categorizationService portssvc.CategorizationSvcFacade
}

func newCategorizationHandler(cs portssvc.CategorizationSvcFacade) *categorizationHandler {
	return &categorizationHandler{categorizationService: cs}
}

func registerCategorizationRoutes(rg *gin.RouterGroup, cs portssvc.CategorizationSvcFacade) {
	h := newCategorizationHandler(cs)

	categorization := rg.Group("/categorization")
	{
		categorization.POST("/classify", h.classify)
		categorization.POST("/run", h.run)
		categorization.GET("/patterns", h.suggestPatterns)
		categorization.POST("/patterns/preview", h.previewPattern)
		categorization.POST("/patterns/apply", h.applyPattern)
	}
}

// classify godoc
// @Summary Classify a description
// @Description Runs the keyword classifier on one description without touching stored data
// @Tags categorization
// @Accept  json
// @Produce  json
// @Param   request body dto.ClassifyRequest true "Description to classify"
// @Success 200 {object} domain.Classification
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /categorization/classify [post]
func (h *categorizationHandler) classify(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	if _, ok := requireUserID(c, logger); !ok {
		return
	}
	c.JSON(http.StatusOK, h.categorizationService.Classify(c.Request.Context(), req.Description))
}

// run godoc
// @Summary Categorize all transactions
// @Description Classifies the caller's uncategorized transactions (or all of them with overwrite) and stores matches meeting minConfidence. An empty body uses the defaults.
// @Tags categorization
// @Accept  json
// @Produce  json
// @Param   request body dto.CategorizeRunRequest false "Run options"
// @Success 200 {object} domain.CategorizationResult
// @Failure 400 {object} map[string]string "Invalid request format or confidence"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to categorize transactions"
// @Security BearerAuth
// @Router /categorization/run [post]
func (h *categorizationHandler) run(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CategorizeRunRequest
	// An empty body means the defaults.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, logger, err)
			return
		}
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	result, err := h.categorizationService.CategorizeAll(c.Request.Context(), userID, req.MinConfidence, req.Overwrite)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to categorize transactions")
		return
	}
	logger.Info("Categorization run finished", slog.Int("processed", result.Processed), slog.Int("updated", result.Updated))
	c.JSON(http.StatusOK, result)
}

// suggestPatterns godoc
// @Summary Suggest description patterns
// @Description Mines prefixes shared by at least two uncategorized transactions, most frequent first
// @Tags categorization
// @Produce  json
// @Success 200 {object} map[string][]domain.PatternCandidate "patterns"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to suggest patterns"
// @Security BearerAuth
// @Router /categorization/patterns [get]
func (h *categorizationHandler) suggestPatterns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	patterns, err := h.categorizationService.SuggestPatterns(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to suggest patterns")
		return
	}
	c.JSON(http.StatusOK, gin.H{"patterns": patterns})
}

// previewPattern godoc
// @Summary Preview a pattern
// @Description Returns one page of transactions whose description starts with the prefix, newest first, plus the count and amount of every match
// @Tags categorization
// @Accept  json
// @Produce  json
// @Param   request body dto.PatternPreviewRequest true "Prefix and paging"
// @Success 200 {object} dto.PatternPreviewResponse
// @Failure 400 {object} map[string]string "Invalid request format or token"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to preview pattern"
// @Security BearerAuth
// @Router /categorization/patterns/preview [post]
func (h *categorizationHandler) previewPattern(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PatternPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	preview, err := h.categorizationService.PreviewPattern(c.Request.Context(), domain.PatternQuery{
		UserID:             userID,
		Prefix:             req.Prefix,
		IncludeCategorized: req.IncludeCategorized,
	}, req.Limit, req.NextToken)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to preview pattern")
		return
	}
	c.JSON(http.StatusOK, dto.ToPatternPreviewResponse(preview))
}

// applyPattern godoc
// @Summary Apply a pattern
// @Description Assigns the category to every transaction whose description starts with the prefix
// @Tags categorization
// @Accept  json
// @Produce  json
// @Param   request body dto.PatternApplyRequest true "Prefix and category"
// @Success 200 {object} domain.PatternApplyResult
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Category belongs to another user"
// @Failure 404 {object} map[string]string "Category not found"
// @Failure 500 {object} map[string]string "Failed to apply pattern"
// @Security BearerAuth
// @Router /categorization/patterns/apply [post]
func (h *categorizationHandler) applyPattern(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PatternApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("prefix", req.Prefix), slog.String("category_id", req.CategoryID))
	result, err := h.categorizationService.ApplyPattern(c.Request.Context(), domain.PatternQuery{
		UserID:             userID,
		Prefix:             req.Prefix,
		IncludeCategorized: req.IncludeCategorized,
	}, req.CategoryID)
	if err != nil {
		writeServiceError(c, logger, err, "Failed to apply pattern")
		return
	}
	logger.Info("Pattern applied", slog.Int("updated", result.Updated))
	c.JSON(http.StatusOK, result)
}
