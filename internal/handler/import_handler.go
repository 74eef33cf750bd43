package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"freshtrack/internal/importer"
	"freshtrack/internal/middleware"
	"freshtrack/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ImportHandler handles spreadsheet import HTTP requests.
type ImportHandler struct {
	reader   importer.Reader
	pipeline *importer.Pipeline
	archiver importer.Archiver
	maxSize  int64
	logger   zerolog.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(
	reader importer.Reader,
	pipeline *importer.Pipeline,
	archiver importer.Archiver,
	maxSize int64,
	logger zerolog.Logger,
) *ImportHandler {
	return &ImportHandler{
		reader:   reader,
		pipeline: pipeline,
		archiver: archiver,
		maxSize:  maxSize,
		logger:   logger.With().Str("handler", "import").Logger(),
	}
}

// Upload handles POST /api/products/batch/import. The uploaded file is
// spooled to a temp file, parsed, run through the import pipeline and then
// optionally archived before the temp file is removed.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "missing bearer token")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize)
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		writeMessage(w, http.StatusBadRequest, model.ErrCodeValidation, "file too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, model.ErrCodeMissingField, "file field is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	tmpPath := filepath.Join(os.TempDir(), uuid.NewString()+ext)
	tmp, err := os.Create(tmpPath)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create temp file")
		writeError(w, err, h.logger)
		return
	}
	defer os.Remove(tmpPath)

	if _, err := tmp.ReadFrom(file); err != nil {
		tmp.Close()
		h.logger.Error().Err(err).Msg("failed to spool upload")
		writeError(w, err, h.logger)
		return
	}
	tmp.Close()

	rows, err := h.reader.Read(tmpPath, ext)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	result, history, err := h.pipeline.Import(r.Context(), claims.UserID, header.Filename, rows)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	h.archive(r, tmpPath, history)

	writeJSON(w, http.StatusOK, result)
}

// archive uploads the raw file to the configured store. Best effort: a
// failure is logged and the import result stands.
func (h *ImportHandler) archive(r *http.Request, path string, history *model.ImportHistory) {
	f, err := os.Open(path)
	if err != nil {
		h.logger.Warn().Err(err).Msg("upload archive skipped: temp file not readable")
		return
	}
	defer f.Close()

	key := fmt.Sprintf("%d/%s", history.ID, history.Filename)
	if err := h.archiver.Store(r.Context(), key, f); err != nil {
		h.logger.Warn().Err(err).Str("key", key).Msg("upload archive failed")
	}
}

// templateColumns are the headers of the downloadable import template.
var templateColumns = []any{"商品名称", "生产日期", "保质期天数", "提醒天数"}

// Template handles GET /api/products/template/export with a one-row sample
// workbook.
func (h *ImportHandler) Template(w http.ResponseWriter, r *http.Request) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &templateColumns); err != nil {
		writeError(w, err, h.logger)
		return
	}
	sample := []any{"牛奶", "2024-01-01", 7, 3}
	if err := f.SetSheetRow(sheet, "A2", &sample); err != nil {
		writeError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="import-template.xlsx"`)
	if err := f.Write(w); err != nil {
		h.logger.Error().Err(err).Msg("failed to stream template workbook")
	}
}
