package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/suppertable/experience-service/internal/application/booking"
	"github.com/suppertable/experience-service/internal/domain"
	"github.com/suppertable/experience-service/internal/transport/http/dto"
	"github.com/suppertable/experience-service/internal/transport/http/middleware"
	"github.com/suppertable/experience-service/internal/transport/http/response"
	"github.com/suppertable/experience-service/internal/transport/http/validate"
)

type BookingsHandler struct {
	svc *booking.Service
}

func NewBookingsHandler(svc *booking.Service) *BookingsHandler {
	return &BookingsHandler{svc: svc}
}

func bookingID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "booking_id")
	if !validate.IsUUID(id) {
		return "", domain.ErrValidationMeta("invalid path param", map[string]string{
			"booking_id": "must be uuid",
		})
	}
	return id, nil
}

func (h *BookingsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	view := booking.View(r.URL.Query().Get("view"))

	items, err := h.svc.ListMine(r.Context(), middleware.UserID(r), view)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	out := make([]dto.BookingResp, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToBookingResp(it))
	}
	response.Data(w, http.StatusOK, out)
}

func (h *BookingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	item, err := h.svc.Get(r.Context(), id, middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToBookingResp(*item))
}

func (h *BookingsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	b, err := h.svc.Cancel(r.Context(), id, middleware.UserID(r))
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.Data(w, http.StatusOK, map[string]any{
		"id":           b.ID,
		"status":       string(b.Status),
		"cancelled_at": b.CancelledAt,
		"refund": map[string]any{
			"amount":  b.TotalAmount,
			"message": "Your refund will be processed within 5-10 business days.",
		},
	})
}
