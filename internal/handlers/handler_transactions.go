package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/spend_ledger/internal/apperrors"
	"github.com/SscSPs/spend_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/spend_ledger/internal/core/ports/services"
	"github.com/SscSPs/spend_ledger/internal/dto"
	"github.com/SscSPs/spend_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

const maxStatementSize = 20 << 20

// transactionHandler handles statement imports.
type transactionHandler struct {
	ingestionService portssvc.IngestionSvcFacade
	parser           portssvc.StatementParser
}

func newTransactionHandler(ingestion portssvc.IngestionSvcFacade, parser portssvc.StatementParser) *transactionHandler {
	return &transactionHandler{ingestionService: ingestion, parser: parser}
}

func registerTransactionRoutes(rg *gin.RouterGroup, ingestion portssvc.IngestionSvcFacade, parser portssvc.StatementParser) {
	h := newTransactionHandler(ingestion, parser)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/import", h.importTransactions)
		transactions.POST("/upload", h.uploadStatement)
	}
}

// importTransactions godoc
// @Summary Import parsed transactions
// @Description Ingests parser records sent as JSON. Records already stored for the same statement are skipped.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   request body dto.ImportTransactionsRequest true "Parser records"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} map[string]string "Invalid request format or record"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to import transactions"
// @Security BearerAuth
// @Router /transactions/import [post]
func (h *transactionHandler) importTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ImportTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	logger.Info("Received import request", slog.Int("records", len(req.Transactions)))

	result, err := h.ingestionService.IngestTransactions(c.Request.Context(), userID, req.StatementID, dto.ToRawTransactions(req.Transactions), domain.IngestOptions{
		AutoCategorize: req.AutoCategorize,
		MinConfidence:  req.MinConfidence,
	})
	if err != nil {
		writeServiceError(c, logger, err, "Failed to import transactions")
		return
	}

	logger.Info("Import finished", slog.Int("inserted", result.Inserted), slog.Int("skipped", result.Skipped))
	c.JSON(http.StatusOK, dto.ToImportResponse(result))
}

// uploadStatement godoc
// @Summary Upload a statement file
// @Description Sends the file to the parser service and ingests the transactions it returns
// @Tags transactions
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Statement file (max 20MB)"
// @Param   bank formData string false "Parser to use, auto-detected when empty"
// @Param   password formData string false "Password of an encrypted statement"
// @Param   statementID formData string false "Statement the rows belong to"
// @Param   autoCategorize formData bool false "Classify new rows"
// @Param   minConfidence formData string false "low, medium or high"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} map[string]string "Invalid form or file rejected by the parser"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} dto.ImportResponse "Parser could not read the statement"
// @Failure 500 {object} map[string]string "Failed to import statement"
// @Failure 502 {object} map[string]string "Parser service failed"
// @Failure 503 {object} map[string]string "Statement parsing is not configured"
// @Security BearerAuth
// @Router /transactions/upload [post]
func (h *transactionHandler) uploadStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if h.parser == nil {
		logger.Warn("Statement upload attempted without a parser service")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Statement parsing is not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxStatementSize)
	var params dto.UploadStatementParams
	if err := c.ShouldBind(&params); err != nil {
		badRequest(c, logger, err)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, logger, err)
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		badRequest(c, logger, err)
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		badRequest(c, logger, err)
		return
	}

	logger = logger.With(slog.String("filename", fileHeader.Filename), slog.String("bank", params.Bank))
	logger.Info("Received statement upload", slog.Int("bytes", len(content)))

	parsed, err := h.parser.ParseStatement(c.Request.Context(), portssvc.StatementFile{
		Filename: fileHeader.Filename,
		Content:  content,
		Bank:     params.Bank,
		Password: params.Password,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			writeServiceError(c, logger, err, "Failed to parse statement")
			return
		}
		logger.Error("Parser service call failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to parse statement"})
		return
	}

	result, err := h.ingestionService.IngestParseResult(c.Request.Context(), userID, params.StatementID, *parsed, domain.IngestOptions{
		AutoCategorize: params.AutoCategorize,
		MinConfidence:  params.MinConfidence,
	})
	if err != nil {
		writeServiceError(c, logger, err, "Failed to import statement")
		return
	}

	resp := dto.ToImportResponse(result)
	resp.Bank = parsed.Bank
	if !parsed.Success {
		msg := parsed.ErrorMessage
		resp.ParserError = &msg
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
