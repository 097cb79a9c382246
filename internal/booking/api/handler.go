package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/booking"
	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/logger"
	"rail-ticketing/internal/utils"
)

type Handler struct {
	Service *booking.Service
	Logger  *logger.Logger
}

func NewHandler(service *booking.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tickets", func(r chi.Router) {
		r.Post("/", h.BookTicket)
		r.Get("/", h.ListMyTickets)
		r.Get("/{ticketId}", h.GetTicket)
		r.Get("/{ticketId}/qr", h.TicketQR)
		r.Post("/{ticketId}/checkin", h.Checkin)
		r.Post("/{ticketId}/cancel", h.Cancel)
		r.Post("/{ticketId}/payment", h.RecordPayment)
	})
	r.Get("/schedules/{scheduleId}/seats/{seatId}/availability", h.CheckAvailability)
}

type bookRequest struct {
	ScheduleID  string `json:"schedule_id"`
	SeatID      string `json:"seat_id"`
	VoucherCode string `json:"voucher_code,omitempty"`
}

func (h *Handler) BookTicket(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.Require(r.Context(), auth.OpBookTicket)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errs.Validation("invalid request body: %v", err))
		return
	}
	if req.ScheduleID == "" || req.SeatID == "" {
		utils.WriteValidationErrors(w, []string{"schedule_id is required", "seat_id is required"})
		return
	}

	result, err := h.Service.Book(r.Context(), principal.UserID, req.ScheduleID, req.SeatID, req.VoucherCode)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("BookTicket: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteData(w, http.StatusCreated, result)
}

func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpViewDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	scheduleID := chi.URLParam(r, "scheduleId")
	seatID := chi.URLParam(r, "seatId")

	available, err := h.Service.CheckAvailability(r.Context(), scheduleID, seatID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, map[string]interface{}{
		"schedule_id": scheduleID,
		"seat_id":     seatID,
		"available":   available,
	})
}

// GetTicket returns the ticket/payment pair. Passengers may only see their
// own tickets; staff may see any.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.Require(r.Context(), auth.OpViewTicket)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "ticketId")
	result, err := h.Service.GetTicket(r.Context(), ticketID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if result.Ticket.UserID != principal.UserID && !principal.IsStaff() {
		utils.WriteError(w, errs.Forbidden("ticket %s does not belong to you", ticketID))
		return
	}

	utils.WriteData(w, http.StatusOK, result)
}

func (h *Handler) ListMyTickets(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.Require(r.Context(), auth.OpViewTicket)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	page := utils.ParsePage(r)
	tickets, total, err := h.Service.ListUserTickets(r.Context(), principal.UserID, page.Size, page.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, utils.NewPaginated(tickets, page, total))
}

func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.Require(r.Context(), auth.OpViewTicket)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "ticketId")
	result, err := h.Service.GetTicket(r.Context(), ticketID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if result.Ticket.UserID != principal.UserID && !principal.IsStaff() {
		utils.WriteError(w, errs.Forbidden("ticket %s does not belong to you", ticketID))
		return
	}
	if len(result.Ticket.QRCode) == 0 {
		utils.WriteError(w, errs.NotFound("ticket %s has no QR code", ticketID))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Ticket.QRCode)
}

func (h *Handler) Checkin(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpCheckinTicket); err != nil {
		utils.WriteError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "ticketId")
	ticket, err := h.Service.Checkin(r.Context(), ticketID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Checkin: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, ticket)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.Require(r.Context(), auth.OpCancelTicket)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	ticketID := chi.URLParam(r, "ticketId")
	existing, err := h.Service.GetTicket(r.Context(), ticketID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	if existing.Ticket.UserID != principal.UserID && !principal.IsStaff() {
		utils.WriteError(w, errs.Forbidden("ticket %s does not belong to you", ticketID))
		return
	}

	result, err := h.Service.Cancel(r.Context(), ticketID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Cancel: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, result)
}

type recordPaymentRequest struct {
	Status      string `json:"status"`
	Method      string `json:"method"`
	ProviderRef string `json:"provider_ref"`
}

// RecordPayment is the callback surface for the payment collaborator.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpRecordPayment); err != nil {
		utils.WriteError(w, err)
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errs.Validation("invalid request body: %v", err))
		return
	}

	ticketID := chi.URLParam(r, "ticketId")
	pay, err := h.Service.RecordPayment(r.Context(), ticketID, req.Status, req.Method, req.ProviderRef)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("RecordPayment: %v", err))
		utils.WriteError(w, err)
		return
	}

	utils.WriteData(w, http.StatusOK, pay)
}
