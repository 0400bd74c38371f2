package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JustJay7/court-case-lookup/internal/lookup"
	"github.com/JustJay7/court-case-lookup/internal/scraper"
	"github.com/JustJay7/court-case-lookup/internal/store"
	"github.com/JustJay7/court-case-lookup/pkg/logger"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 5 * time.Second

// Handlers holds all HTTP handlers
type Handlers struct {
	service *lookup.Service
	logger  *logger.Logger
}

// NewHandlers creates a new handlers instance
func NewHandlers(service *lookup.Service, logger *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger,
	}
}

// filingYear accepts a JSON string or number.
type filingYear string

func (y *filingYear) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = filingYear(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("filing_year must be a string or number")
	}
	*y = filingYear(n.String())
	return nil
}

type searchRequest struct {
	CourtID    string     `json:"court_id"`
	CaseType   string     `json:"case_type"`
	CaseNumber string     `json:"case_number"`
	FilingYear filingYear `json:"filing_year"`
}

// SearchCase handles POST /api/search
func (h *Handlers) SearchCase(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON body: "+err.Error())
		return
	}

	resp, err := h.service.LookupCase(c.Request.Context(), lookup.Request{
		CourtID:    req.CourtID,
		CaseType:   req.CaseType,
		CaseNumber: req.CaseNumber,
		FilingYear: string(req.FilingYear),
	})
	if err != nil {
		var verr *lookup.ValidationError
		if errors.As(err, &verr) {
			badRequest(c, verr.Error())
			return
		}

		h.logger.Error("Search failed", "court_id", req.CourtID, "case_number", req.CaseNumber, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to fetch case data",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"data":    resp.Data,
		"message": resp.Message,
	})
}

// History handles GET /api/history
func (h *Handlers) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	entries, err := h.service.History(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to load history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load history",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   entries,
	})
}

// HistoryEntry handles GET /api/history/:id
func (h *Handlers) HistoryEntry(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid query id")
		return
	}

	detail, err := h.service.Query(c.Request.Context(), uint(id))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Query not found",
			"error":   fmt.Sprintf("no query with id %d", id),
		})
		return
	}
	if err != nil {
		h.logger.Error("Failed to load query", "query_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to load history",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   detail,
	})
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	timestamp := time.Now().UTC().Format(time.RFC3339)
	if err := h.service.Health(ctx); err != nil {
		h.logger.Error("Health check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": timestamp,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": timestamp,
		"database":  "connected",
		"cache":     h.service.CacheStats(),
	})
}

// Download handles GET /api/download
func (h *Handlers) Download(c *gin.Context) {
	pdfURL := c.Query("pdf_url")
	if pdfURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing pdf_url parameter"})
		return
	}

	doc := scraper.OrderDocument(pdfURL)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, "application/pdf", doc.Content)
}

// Courts lists supported courts
func (h *Handlers) Courts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   h.service.Courts(),
	})
}

// GetCase returns a stored case without fetching
func (h *Handlers) GetCase(c *gin.Context) {
	caseNumber := strings.TrimSpace(c.Query("case_number"))
	if caseNumber == "" {
		badRequest(c, "Missing required parameter: case_number")
		return
	}

	result, err := h.service.GetCase(c.Request.Context(), caseNumber)
	if err != nil {
		h.caseError(c, caseNumber, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   result,
	})
}

// DeleteCase removes a stored case and its orders
func (h *Handlers) DeleteCase(c *gin.Context) {
	caseNumber := strings.TrimSpace(c.Query("case_number"))
	if caseNumber == "" {
		badRequest(c, "Missing required parameter: case_number")
		return
	}

	if err := h.service.DeleteCase(c.Request.Context(), caseNumber); err != nil {
		h.caseError(c, caseNumber, err)
		return
	}

	h.logger.Info("Case deleted", "case_number", caseNumber)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Case deleted",
	})
}

// CacheStats returns cache statistics
func (h *Handlers) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   h.service.CacheStats(),
	})
}

// ClearCache empties the record cache
func (h *Handlers) ClearCache(c *gin.Context) {
	h.service.ClearCache()
	h.logger.Info("Record cache cleared")
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Cache cleared",
	})
}

func (h *Handlers) caseError(c *gin.Context, caseNumber string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Case not found",
			"error":   fmt.Sprintf("no stored case %q", caseNumber),
		})
		return
	}

	h.logger.Error("Case operation failed", "case_number", caseNumber, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  "error",
		"message": "Case operation failed",
		"error":   err.Error(),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "Invalid request",
		"error":   msg,
	})
}
