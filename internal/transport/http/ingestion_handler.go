package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"salespulse/internal/config"
	apierrors "salespulse/internal/errors"
	custommw "salespulse/internal/middleware"
	"salespulse/internal/services"
)

// multipartMemory is the part of an upload kept in memory before spilling
// to a temporary file
const multipartMemory = 8 << 20

// MappingRequest overrides entries of an upload's column mapping. An empty
// source removes the entry.
type MappingRequest struct {
	Mapping map[string]string `json:"mapping" validate:"required,min=1,dive,keys,canonical_field,endkeys"`
}

// AutoMapRequest asks for a proposed mapping of a header row
type AutoMapRequest struct {
	Headers []string `json:"headers" validate:"required,min=1"`
}

// IngestionHandler handles upload, mapping, cleaning and export requests
type IngestionHandler struct {
	service        IngestionServiceInterface
	validator      *custommw.ValidationMiddleware
	query          *custommw.QueryParamValidator
	maxUploadBytes int64
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewIngestionHandler creates a new ingestion handler. maxUploadBytes caps
// the multipart request body; zero disables the cap.
func NewIngestionHandler(service IngestionServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *IngestionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestionHandler{
		service:        service,
		validator:      custommw.NewValidationMiddleware(logger, errorHandler),
		query:          custommw.NewQueryParamValidator(logger, errorHandler),
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "ingestion_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the upload routes, mounted under /api/uploads
func (h *IngestionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Upload)
	r.Get("/", h.ListUploads)

	r.Route("/{id}", func(r chi.Router) {
		r.Use(h.UploadCtx)
		r.Get("/", h.GetUpload)
		r.Delete("/", h.DeleteUpload)
		r.Put("/mapping", h.UpdateMapping)
		r.Post("/clean", h.Clean)
		r.Get("/export", h.Export)
	})

	return r
}

// UploadCtx middleware validates the upload ID parameter
func (h *IngestionHandler) UploadCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "" {
			h.errorHandler.HandleError(w, r, apierrors.MissingParameterError("id"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Upload handles POST /api/uploads with a multipart "file" field
func (h *IngestionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, uploadFormError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(config.UploadFormField)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.MissingParameterError(config.UploadFormField))
		return
	}
	defer file.Close()

	if err := h.validator.ValidateVar(config.UploadFormField, header.Filename, "filename"); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "receiving upload",
		slog.String("request_id", middleware.GetReqID(ctx)),
		slog.String("file_name", header.Filename),
		slog.Int64("size", header.Size))

	summary, err := h.service.Upload(ctx, header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, translateError(err))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// uploadFormError separates oversized bodies from malformed forms
func uploadFormError(err error) error {
	if translated := translateError(err); translated != err {
		return translated
	}
	if strings.Contains(err.Error(), "request body too large") {
		return apierrors.ErrPayloadTooLarge
	}
	return apierrors.InvalidRequestWithError(err)
}

// ListUploads handles GET /api/uploads
func (h *IngestionHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	summaries := h.service.ListUploads(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summaries,
		"count":  len(summaries),
	})
}

// GetUpload handles GET /api/uploads/{id}
func (h *IngestionHandler) GetUpload(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.GetUpload(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.errorHandler.HandleError(w, r, translateError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// DeleteUpload handles DELETE /api/uploads/{id}
func (h *IngestionHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteUpload(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.errorHandler.HandleError(w, r, translateError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateMapping handles PUT /api/uploads/{id}/mapping
func (h *IngestionHandler) UpdateMapping(w http.ResponseWriter, r *http.Request) {
	var req MappingRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	summary, err := h.service.UpdateMapping(r.Context(), chi.URLParam(r, "id"), req.Mapping)
	if err != nil {
		h.errorHandler.HandleError(w, r, translateError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// Clean handles POST /api/uploads/{id}/clean. The optional min_score query
// parameter drops records scoring below it from the response.
func (h *IngestionHandler) Clean(w http.ResponseWriter, r *http.Request) {
	minScore, ok := h.query.ValidateInt(w, r, "min_score", 0, 100, 0)
	if !ok {
		return
	}

	report, err := h.service.Clean(r.Context(), chi.URLParam(r, "id"), minScore)
	if err != nil {
		h.errorHandler.HandleError(w, r, translateError(err))
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}

// Export handles GET /api/uploads/{id}/export?format=xlsx|csv. The file is
// produced into memory first so failures still render as problems.
func (h *IngestionHandler) Export(w http.ResponseWriter, r *http.Request) {
	name, ok := h.query.ValidateEnum(w, r, "format",
		[]string{string(services.ExportXLSX), string(services.ExportCSV)}, string(services.ExportXLSX))
	if !ok {
		return
	}
	format, err := services.ParseExportFormat(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, translateError(err))
		return
	}

	var buf bytes.Buffer
	fileName, err := h.service.Export(r.Context(), chi.URLParam(r, "id"), format, &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, translateError(err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted",
			slog.String("file_name", fileName),
			slog.String("error", err.Error()))
	}
}

// AutoMap handles POST /api/automap
func (h *IngestionHandler) AutoMap(w http.ResponseWriter, r *http.Request) {
	var req AutoMapRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.AutoMap(r.Context(), req.Headers),
	})
}

// CleanInline handles POST /api/clean with rows carried in the body
func (h *IngestionHandler) CleanInline(w http.ResponseWriter, r *http.Request) {
	var req services.InlineCleanRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.CleanInline(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, translateError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "inline rows cleaned",
		slog.Int("rows", len(req.Rows)),
		slog.String("quality", fmt.Sprintf("%.1f", report.QualityScore)))

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}
