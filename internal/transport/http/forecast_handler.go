package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "salespulse/internal/errors"
	custommw "salespulse/internal/middleware"
	"salespulse/internal/services"
)

// ForecastHandler handles forecast requests
type ForecastHandler struct {
	service      ForecastServiceInterface
	validator    *custommw.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(service ForecastServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ForecastHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForecastHandler{
		service:      service,
		validator:    custommw.NewValidationMiddleware(logger, errorHandler),
		logger:       logger.With(slog.String("component", "forecast_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the forecast routes, mounted under /api/forecast
func (h *ForecastHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Forecast)
	r.Get("/methods", h.Methods)
	r.Post("/uploads/{id}", h.ForecastUpload)

	return r
}

// Forecast handles POST /api/forecast with an explicit series
func (h *ForecastHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req services.ForecastRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Forecast(r.Context(), req)
	if err != nil {
		h.logger.InfoContext(r.Context(), "forecast rejected",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", req.Method),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, translateError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

// ForecastUpload handles POST /api/forecast/uploads/{id}, aggregating the
// upload's rows into a series first
func (h *ForecastHandler) ForecastUpload(w http.ResponseWriter, r *http.Request) {
	var req services.UploadForecastRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	out, err := h.service.ForecastUpload(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, translateError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   out,
	})
}

// Methods handles GET /api/forecast/methods
func (h *ForecastHandler) Methods(w http.ResponseWriter, r *http.Request) {
	methods := h.service.Methods()
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   methods,
		"count":  len(methods),
	})
}
