package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/batch"
	"github.com/insurops/motor-renewal/internal/config"
	"github.com/insurops/motor-renewal/internal/layout"
	"github.com/insurops/motor-renewal/internal/merge"
	"github.com/insurops/motor-renewal/internal/repository"
	"github.com/insurops/motor-renewal/internal/spreadsheet"
)

// NoticeService runs generation and merge; implemented by services.NoticeService.
type NoticeService interface {
	GenerateFromWorkbook(ctx context.Context, workbookPath string, variant layout.Variant) (*batch.Summary, error)
	MergeNotices(ctx context.Context) (*merge.Result, error)
}

// RunLister serves run history; implemented by repository.RunRepository.
type RunLister interface {
	ListRuns(ctx context.Context, limit int) ([]repository.RunSummary, error)
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	cfg     *config.Config
	service NoticeService
	runs    RunLister // may be nil
	logger  *zap.Logger
}

// NewHandlers creates a new Handlers instance. runs may be nil when no run
// ledger is attached.
func NewHandlers(cfg *config.Config, service NoticeService, runs RunLister, logger *zap.Logger) *Handlers {
	return &Handlers{cfg: cfg, service: service, runs: runs, logger: logger}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// UploadResponse reports where the workbook was stored.
type UploadResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Records  int    `json:"records"`
}

// GenerateRequest selects the workbook and notice variant for a run.
type GenerateRequest struct {
	WorkbookPath string `json:"workbook_path" binding:"required"`
	Variant      string `json:"variant"`
}

// GenerateResponse summarises a batch run.
type GenerateResponse struct {
	Variant   string          `json:"variant"`
	Total     int             `json:"total"`
	Generated int             `json:"generated"`
	Skipped   int             `json:"skipped"`
	Failed    int             `json:"failed"`
	Outcomes  []batch.Outcome `json:"outcomes"`
}

// MergeResponse reports the merged print document.
type MergeResponse struct {
	OutputPath  string   `json:"output_path"`
	SourceFiles int      `json:"source_files"`
	PageCount   int      `json:"page_count"`
	FileSize    int64    `json:"file_size"`
	Skipped     []string `json:"skipped,omitempty"`
}

// FileInfo describes one generated document.
type FileInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// UploadWorkbook handles POST /api/motor/upload-excel
func (h *Handlers) UploadWorkbook(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "missing file field"})
		return
	}

	name := filepath.Base(file.Filename)
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".xlsx" && ext != ".xls" {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "only Excel workbooks are accepted"})
		return
	}

	if err := os.MkdirAll(h.cfg.Server.UploadDir, 0755); err != nil {
		h.logger.Error("Failed to create upload dir", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to store upload"})
		return
	}

	dest := filepath.Join(h.cfg.Server.UploadDir, name)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		h.logger.Error("Failed to save upload", zap.String("filename", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to store upload"})
		return
	}

	count, err := spreadsheet.NewReader(h.logger).Count(dest)
	if err != nil {
		_ = os.Remove(dest)
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unreadable workbook: " + err.Error()})
		return
	}

	h.logger.Info("Workbook uploaded",
		zap.String("path", dest),
		zap.Int64("size", file.Size),
		zap.Int("records", count))

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    UploadResponse{Filename: name, Path: dest, Size: file.Size, Records: count},
	})
}

// Generate handles POST /api/motor/generate
func (h *Handlers) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "workbook_path is required"})
		return
	}
	if req.Variant == "" {
		req.Variant = h.cfg.Generator.DefaultVariant
	}
	variant := layout.Variant(req.Variant)
	if variant != layout.VariantDigital && variant != layout.VariantLetterhead {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "variant must be digital or letterhead"})
		return
	}

	summary, err := h.service.GenerateFromWorkbook(c.Request.Context(), req.WorkbookPath, variant)
	if err != nil {
		h.logger.Error("Batch generation failed", zap.String("workbook", req.WorkbookPath), zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "generation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: GenerateResponse{
			Variant:   string(summary.Variant),
			Total:     summary.Total,
			Generated: summary.Generated,
			Skipped:   summary.Skipped,
			Failed:    summary.Failed,
			Outcomes:  summary.Outcomes,
		},
	})
}

// Merge handles POST /api/motor/merge
func (h *Handlers) Merge(c *gin.Context) {
	result, err := h.service.MergeNotices(c.Request.Context())
	if err != nil {
		h.logger.Error("Merge failed", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, merge.ErrNoInput) {
			status = http.StatusConflict
		}
		c.JSON(status, Response{Success: false, Error: "merge failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: MergeResponse{
			OutputPath:  result.OutputPath,
			SourceFiles: result.SourceFiles,
			PageCount:   result.PageCount,
			FileSize:    result.FileSize,
			Skipped:     result.Skipped,
		},
	})
}

// ListFiles handles GET /api/motor/files
func (h *Handlers) ListFiles(c *gin.Context) {
	entries, err := os.ReadDir(h.cfg.Generator.OutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, Response{Success: true, Data: []FileInfo{}})
			return
		}
		h.logger.Error("Failed to list output dir", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to list files"})
		return
	}

	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pdf") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: e.Name(), Size: info.Size(), ModifiedAt: info.ModTime()})
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: files})
}

// Download handles GET /api/motor/download/:filename
func (h *Handlers) Download(c *gin.Context) {
	// filepath.Base strips any traversal components from the parameter.
	name := filepath.Base(c.Param("filename"))
	if name == "." || name == string(filepath.Separator) || !strings.HasSuffix(name, ".pdf") {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid filename"})
		return
	}

	path := filepath.Join(h.cfg.Generator.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "file not found"})
		return
	}

	c.FileAttachment(path, name)
}

// ListRuns handles GET /api/motor/runs
func (h *Handlers) ListRuns(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusOK, Response{Success: true, Data: []repository.RunSummary{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "failed to retrieve runs"})
		return
	}
	if runs == nil {
		runs = []repository.RunSummary{}
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: runs})
}
