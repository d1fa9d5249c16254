package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gearpool/internal/bookings/repository"
	"gearpool/internal/bookings/service"
	apperrors "gearpool/pkg/errors"
	httputil "gearpool/pkg/http"
	"gearpool/pkg/logger"
	"gearpool/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) CommitBatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var specs []*model.BookingSpec
	if err := json.NewDecoder(r.Body).Decode(&specs); err != nil {
		h.writeError(w, "CommitBatch", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.CommitBatch(r.Context(), specs)
	if err != nil {
		h.writeError(w, "CommitBatch", err)
		return
	}

	// The batch result carries per-item failures; the HTTP status only
	// distinguishes "processed" from "rejected outright".
	status := http.StatusCreated
	if !result.Success {
		status = http.StatusConflict
	}
	if err := httputil.WriteJSON(w, status, httputil.SuccessResponse{Data: result}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "CommitBatch", "error", err)
	}
}

// Create books a single spec. It runs through the same batch path so one-off
// bookings get identical conflict and merge semantics.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var spec model.BookingSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.CommitBatch(r.Context(), []*model.BookingSpec{&spec})
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if !result.Success {
		batchErr := result.Errors[0]
		appErr := apperrors.New(batchErr.Code, batchErr.Message, statusForBatchError(batchErr.Code))
		appErr.Retryable = batchErr.Retryable
		if len(batchErr.Conflicts) > 0 {
			appErr.Details = map[string]any{"conflicts": batchErr.Conflicts}
		}
		h.writeError(w, "Create", appErr)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusCreated, httputil.SuccessResponse{Data: result.Bookings[0]}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "CheckAvailability", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.CheckAvailability(r.Context(), &req)
	if err != nil {
		h.writeError(w, "CheckAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckAvailability", "error", err)
	}
}

func (h *BookingHandler) CheckBatchAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var reqs []*model.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		h.writeError(w, "CheckBatchAvailability", apperrors.InvalidInput("Invalid request body"))
		return
	}

	results, err := h.service.CheckBatchAvailability(r.Context(), reqs)
	if err != nil {
		h.writeError(w, "CheckBatchAvailability", err)
		return
	}

	if err := httputil.WriteSuccess(w, results); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckBatchAvailability", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	startTime, err := httputil.ExtractTimeParam(r, "from")
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	endTime, err := httputil.ExtractTimeParam(r, "to")
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	filter := repository.BookingFilter{
		EquipmentID: query.Get("equipment_id"),
		ClientID:    query.Get("client_id"),
		ProjectID:   query.Get("project_id"),
		StartTime:   startTime,
		EndTime:     endTime,
	}

	bookings, total, err := h.service.Search(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "error", err)
	}
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Status model.BookingStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "UpdateStatus", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), body.Status)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func statusForBatchError(code string) int {
	switch code {
	case apperrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case apperrors.CodeConflict:
		return http.StatusConflict
	case apperrors.CodeLockTimeout:
		return http.StatusServiceUnavailable
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.POST("/api/v1/bookings/batch", h.CommitBatch)
	router.POST("/api/v1/availability/check", h.CheckAvailability)
	router.POST("/api/v1/availability/check-batch", h.CheckBatchAvailability)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/search", h.Search)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id/status", h.UpdateStatus)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
}
