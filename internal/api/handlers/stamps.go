package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/rwreynolds/stampcollect/internal/database"
	"github.com/rwreynolds/stampcollect/internal/export"
	"github.com/rwreynolds/stampcollect/internal/models"
	"github.com/rwreynolds/stampcollect/internal/validation"
)

// StampService is what the handlers need from the service layer
type StampService interface {
	LoadAll() (*models.StampCollection, error)
	Get(id int64) (models.Stamp, error)
	Value(id int64) (decimal.Decimal, error)
	Search(criteria models.SearchCriteria) ([]models.StampRecord, error)
	Insert(stamp models.Stamp) (int64, error)
	Update(id int64, stamp models.Stamp) error
	Delete(id int64) error
	Statistics() (models.CollectionStats, error)
	Import(requests []models.StampRequest) ([]int64, error)
}

// maxImportSize caps an uploaded CSV
const maxImportSize = 8 << 20

type StampHandler struct {
	service StampService
}

func NewStampHandler(service StampService) *StampHandler {
	return &StampHandler{service: service}
}

func (h *StampHandler) ListStamps(c *gin.Context) {
	collection, err := h.service.LoadAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, collection.List())
}

func (h *StampHandler) SearchStamps(c *gin.Context) {
	var criteria models.SearchCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search criteria", "details": []string{err.Error()}})
		return
	}

	results, err := h.service.Search(criteria)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (h *StampHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Statistics()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *StampHandler) GetStamp(c *gin.Context) {
	id, ok := stampID(c)
	if !ok {
		return
	}

	stamp, err := h.service.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StampRecord{ID: id, Stamp: stamp})
}

func (h *StampHandler) GetStampValue(c *gin.Context) {
	id, ok := stampID(c)
	if !ok {
		return
	}

	value, err := h.service.Value(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StampValueResponse{ID: id, TotalValue: value})
}

func (h *StampHandler) CreateStamp(c *gin.Context) {
	stamp, ok := bindStamp(c)
	if !ok {
		return
	}

	id, err := h.service.Insert(stamp)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.StampMutationResponse{ID: id, Stamp: &stamp, Operation: "created"})
}

// UpdateStamp replaces every field of the record. An unknown id is not an
// error; the store treats it as a no-op.
func (h *StampHandler) UpdateStamp(c *gin.Context) {
	id, ok := stampID(c)
	if !ok {
		return
	}
	stamp, ok := bindStamp(c)
	if !ok {
		return
	}

	if err := h.service.Update(id, stamp); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StampMutationResponse{ID: id, Stamp: &stamp, Operation: "updated"})
}

func (h *StampHandler) DeleteStamp(c *gin.Context) {
	id, ok := stampID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StampMutationResponse{ID: id, Operation: "deleted"})
}

// ExportStamps downloads the records matching the search query parameters
// (all records when none are given) as CSV, an XLSX workbook or a PDF listing.
func (h *StampHandler) ExportStamps(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", export.FormatCSV))
	contentType, ok := exportContentTypes[format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported export format", "details": []string{"format must be csv, xlsx or pdf"}})
		return
	}

	var criteria models.SearchCriteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search criteria", "details": []string{err.Error()}})
		return
	}

	records, err := h.service.Search(criteria)
	if err != nil {
		respondError(c, err)
		return
	}

	// Render to memory first so a failure can still become a JSON error
	var buf bytes.Buffer
	if err := export.Write(&buf, format, records); err != nil {
		respondError(c, fmt.Errorf("export %s: %w", format, err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"stamps_%s.%s\"",
		time.Now().Format("20060102"), format))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

var exportContentTypes = map[string]string{
	export.FormatCSV:  "text/csv; charset=utf-8",
	export.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	export.FormatPDF:  "application/pdf",
}

// ImportStamps creates one record per CSV row. The CSV is taken from the
// "file" field of a multipart form, or from the raw request body otherwise.
func (h *StampHandler) ImportStamps(c *gin.Context) {
	body, err := importBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload", "details": []string{err.Error()}})
		return
	}
	defer body.Close()

	requests, err := export.ReadCSV(io.LimitReader(body, maxImportSize))
	if errors.Is(err, export.ErrNotCSV) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported upload", "details": []string{err.Error()}})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid csv", "details": []string{err.Error()}})
		return
	}
	if len(requests) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid csv", "details": []string{"no stamp rows found"}})
		return
	}

	ids, err := h.service.Import(requests)
	var verr *validation.Error
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": []string{err.Error()}})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.ImportResponse{Imported: len(ids), IDs: ids})
}

func importBody(c *gin.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return c.Request.Body, nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	return fh.Open()
}

func stampID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stamp id"})
		return 0, false
	}
	return id, true
}

func bindStamp(c *gin.Context) (models.Stamp, bool) {
	var req models.StampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": validation.Messages(err)})
		return models.Stamp{}, false
	}

	stamp, err := req.ToStamp()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": []string{err.Error()}})
		return models.Stamp{}, false
	}
	return stamp, true
}

// respondError maps service errors onto status codes. Storage details go to
// the access log via c.Error, never to the client.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, database.ErrStampNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "stamp not found"})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed"})
}
