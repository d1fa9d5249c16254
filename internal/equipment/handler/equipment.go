package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gearpool/internal/equipment/service"
	apperrors "gearpool/pkg/errors"
	httputil "gearpool/pkg/http"
	"gearpool/pkg/logger"
	"gearpool/pkg/model"
)

type EquipmentHandler struct {
	service service.EquipmentService
	log     *logger.Logger
}

func NewEquipmentHandler(service service.EquipmentService, log *logger.Logger) *EquipmentHandler {
	return &EquipmentHandler{
		service: service,
		log:     log,
	}
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var equipment model.Equipment
	if err := json.NewDecoder(r.Body).Decode(&equipment); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &equipment); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusCreated, httputil.SuccessResponse{Data: equipment}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Create", "error", err)
	}
}

func (h *EquipmentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	equipment, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, equipment); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

// GetCapacity returns the capacity policy derived from a catalog entry; the
// availability engine consumes this instead of the raw document.
func (h *EquipmentHandler) GetCapacity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	equipment, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetCapacity", err)
		return
	}

	if err := httputil.WriteSuccess(w, equipment.Capacity()); err != nil {
		h.log.Error("failed to write success response", "handler", "GetCapacity", "error", err)
	}
}

func (h *EquipmentHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	equipment, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, equipment, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *EquipmentHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	category := r.URL.Query().Get("category")
	equipment, total, err := h.service.SearchByCategory(r.Context(), category, limit, offset)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, equipment, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "error", err)
	}
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.EquipmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	equipment, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, equipment); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *EquipmentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *EquipmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/equipment", h.Create)
	router.GET("/api/v1/equipment", h.GetAll)
	router.GET("/api/v1/equipment/search", h.Search)
	router.GET("/api/v1/equipment/id/:id", h.GetByID)
	router.GET("/api/v1/equipment/id/:id/capacity", h.GetCapacity)
	router.PATCH("/api/v1/equipment/id/:id", h.Update)
	router.DELETE("/api/v1/equipment/id/:id", h.Delete)
}
