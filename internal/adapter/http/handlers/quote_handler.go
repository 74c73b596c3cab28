package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	request "weld_quote/internal/adapter/http/dto/request"
	response "weld_quote/internal/adapter/http/dto/response"
	"weld_quote/internal/domain/entities"
	"weld_quote/internal/usecase"
	"weld_quote/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidJobPayload    = pkg.NewDomainErrorSimple("INVALID_JOB_INPUT", "Invalid job payload", http.StatusBadRequest)
	errInvalidStatusPayload = pkg.NewDomainErrorSimple("INVALID_STATUS_INPUT", "Invalid status payload", http.StatusBadRequest)
)

// QuoteHandler handles intake, estimation and the quote lifecycle.
type QuoteHandler struct {
	usecase usecase.IQuoteUseCase
}

func NewQuoteHandler(uc usecase.IQuoteUseCase) *QuoteHandler {
	return &QuoteHandler{usecase: uc}
}

// Estimate godoc
// @Summary      Preview a price range
// @Description  Runs the local tariff and the external estimator. Nothing is stored.
// @Tags         estimates
// @Accept       json
// @Produce      json
// @Param        job  body      request.JobRequest  true  "Job"
// @Success      200  {object}  response.EstimateResponse
// @Failure      400  {object}  pkg.HTTPError
// @Router       /estimates [post]
func (h *QuoteHandler) Estimate(c *gin.Context) {
	var payload request.JobRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[quote][handler] estimate invalid payload err=%v", err)
		c.JSON(errInvalidJobPayload.HTTPStatus, errInvalidJobPayload.ToHTTPError())
		return
	}

	result, err := h.usecase.Estimate(c.Request.Context(), payload.ToJobSpec())
	if err != nil {
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromEstimateResult(result))
}

// CreateQuote godoc
// @Summary      Estimate and store a quote as draft
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        job  body      request.JobRequest  true  "Job"
// @Success      201  {object}  response.QuoteResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      500  {object}  pkg.HTTPError
// @Router       /quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var payload request.JobRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("[quote][handler] create invalid payload err=%v", err)
		c.JSON(errInvalidJobPayload.HTTPStatus, errInvalidJobPayload.ToHTTPError())
		return
	}

	quote, err := h.usecase.CreateQuote(c.Request.Context(), payload.ToJobSpec())
	if err != nil {
		log.Printf("[quote][handler] create failed err=%v", err)
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromQuote(quote))
}

// ConfirmOrder godoc
// @Summary      Confirm a draft quote as an order
// @Tags         quotes
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.QuoteResponse
// @Failure      404  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Router       /quotes/{id}/order [patch]
func (h *QuoteHandler) ConfirmOrder(c *gin.Context) {
	id := c.Param("id")
	log.Printf("[quote][handler] order start quote_id=%s", id)

	quote, err := h.usecase.ConfirmOrder(c.Request.Context(), id)
	if err != nil {
		log.Printf("[quote][handler] order failed quote_id=%s err=%v", id, err)
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// UpdateStatus godoc
// @Summary      Move a quote to another status
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id      path      string                 true  "Quote ID"
// @Param        status  body      request.StatusRequest  true  "Target status"
// @Success      200     {object}  response.QuoteResponse
// @Failure      400     {object}  pkg.HTTPError
// @Failure      404     {object}  pkg.HTTPError
// @Failure      409     {object}  pkg.HTTPError
// @Router       /quotes/{id}/status [patch]
func (h *QuoteHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	var payload request.StatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidStatusPayload.HTTPStatus, errInvalidStatusPayload.ToHTTPError())
		return
	}
	status := payload.ResolveStatus()
	log.Printf("[quote][handler] status start quote_id=%s to=%s", id, status)

	quote, err := h.usecase.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		log.Printf("[quote][handler] status failed quote_id=%s to=%s err=%v", id, status, err)
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// GetQuote godoc
// @Summary      Get a quote
// @Tags         quotes
// @Produce      json
// @Param        id   path      string  true  "Quote ID"
// @Success      200  {object}  response.QuoteResponse
// @Failure      404  {object}  pkg.HTTPError
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuote(quote))
}

// ListQuotes godoc
// @Summary      List quotes, newest first
// @Tags         quotes
// @Produce      json
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.QuoteListResponse
// @Failure      400     {object}  pkg.HTTPError
// @Router       /quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	list, err := h.usecase.List(c.Request.Context(), statusQuery(c))
	if err != nil {
		log.Printf("[quote][handler] list failed err=%v", err)
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuoteSummaries(list))
}

// ExportQuotes godoc
// @Summary      Download quotes as a spreadsheet
// @Tags         quotes
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status  query  string  false  "Status filter"
// @Success      200
// @Failure      400  {object}  pkg.HTTPError
// @Failure      503  {object}  pkg.HTTPError
// @Router       /quotes/export [get]
func (h *QuoteHandler) ExportQuotes(c *gin.Context) {
	file, err := h.usecase.Export(c.Request.Context(), statusQuery(c))
	if err != nil {
		log.Printf("[quote][handler] export failed err=%v", err)
		appErr := mapQuoteError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[quote][handler] export file=%s bytes=%d", file.FileName, len(file.Data))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func statusQuery(c *gin.Context) entities.QuoteStatus {
	raw := strings.TrimSpace(c.Query("status"))
	if raw == "" {
		return ""
	}
	return request.StatusRequest{Status: raw}.ResolveStatus()
}

func mapQuoteError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuoteID), errors.Is(err, usecase.ErrInvalidStatus):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrQuoteNotFound):
		return pkg.NewDomainErrorSimple("QUOTE_NOT_FOUND", "Quote not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainErrorSimple("INVALID_STATUS_TRANSITION", "Status transition not allowed", http.StatusConflict)
	case errors.Is(err, usecase.ErrExportNotConfigured), errors.Is(err, usecase.ErrRepositoryUnavailable):
		return pkg.NewDomainError("SERVICE_UNAVAILABLE", "Service not configured", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
