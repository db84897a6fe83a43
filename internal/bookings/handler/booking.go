package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"rezerv/internal/auth"
	"rezerv/internal/bookings/service"
	apperrors "rezerv/pkg/errors"
	pkghttp "rezerv/pkg/http"
	"rezerv/pkg/logger"
	"rezerv/pkg/model"
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

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/my", h.GetMine)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.POST("/api/v1/bookings/id/:id/approve", h.Approve)
	router.POST("/api/v1/bookings/id/:id/reject", h.Reject)
	router.DELETE("/api/v1/bookings/id/:id", h.Cancel)
	router.GET("/api/v1/availability", h.CheckAvailability)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := auth.RequirePrincipal(w, r, h.log)
	if !ok {
		return
	}

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON body"))
		return
	}

	booking, err := h.service.Create(r.Context(), principal.UserID, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := pkghttp.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write create booking response", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, ok := auth.RequireAdmin(w, r, h.log); !ok {
		return
	}

	limit, offset, err := pkghttp.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := pkghttp.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write bookings response", "error", err)
	}
}

func (h *BookingHandler) GetMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, ok := auth.RequirePrincipal(w, r, h.log)
	if !ok {
		return
	}

	bookings, err := h.service.GetByUser(r.Context(), principal.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write bookings response", "error", err)
	}
}

// GetByID returns a single booking. Owners see their own; admins see all.
func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := auth.RequirePrincipal(w, r, h.log)
	if !ok {
		return
	}

	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if !principal.IsAdmin() && booking.UserID != principal.UserID {
		h.writeError(w, apperrors.Forbidden("You may only view your own bookings"))
		return
	}

	if err := pkghttp.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write booking response", "error", err)
	}
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, ok := auth.RequireAdmin(w, r, h.log); !ok {
		return
	}

	booking, err := h.service.Approve(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write approve response", "error", err)
	}
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if _, ok := auth.RequireAdmin(w, r, h.log); !ok {
		return
	}

	booking, err := h.service.Reject(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write reject response", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, ok := auth.RequirePrincipal(w, r, h.log)
	if !ok {
		return
	}

	booking, err := h.service.Cancel(r.Context(), ps.ByName("id"), principal.UserID, principal.IsAdmin())
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write cancel response", "error", err)
	}
}

type availabilityResponse struct {
	ResourceID string    `json:"resource_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Available  bool      `json:"available"`
}

func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if _, ok := auth.RequirePrincipal(w, r, h.log); !ok {
		return
	}

	query := r.URL.Query()
	resourceID := query.Get("resource_id")
	if resourceID == "" {
		h.writeError(w, apperrors.InvalidInput("resource_id query parameter is required"))
		return
	}

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput("start must be an RFC 3339 timestamp"))
		return
	}
	end, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil {
		h.writeError(w, apperrors.InvalidInput("end must be an RFC 3339 timestamp"))
		return
	}

	available, err := h.service.CheckAvailability(r.Context(), resourceID, start, end)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, availabilityResponse{
		ResourceID: resourceID,
		Start:      start,
		End:        end,
		Available:  available,
	}); err != nil {
		h.log.Error("failed to write availability response", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := pkghttp.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "error", writeErr)
	}
}
