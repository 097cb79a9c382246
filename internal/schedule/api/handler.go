package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/schedule"
	"rail-ticketing/internal/utils"
)

type Handler struct {
	Service *schedule.Service
}

func NewHandler(service *schedule.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/schedules", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{scheduleId}", h.Get)
		r.Put("/{scheduleId}", h.Update)
		r.Post("/{scheduleId}/status", h.SetStatus)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	var req schedule.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errs.Validation("invalid request body: %v", err))
		return
	}

	created, err := h.Service.Create(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusCreated, created)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpViewDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	found, err := h.Service.Get(r.Context(), chi.URLParam(r, "scheduleId"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, found)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	var req schedule.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errs.Validation("invalid request body: %v", err))
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "scheduleId"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, updated)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errs.Validation("invalid request body: %v", err))
		return
	}

	updated, err := h.Service.SetStatus(r.Context(), chi.URLParam(r, "scheduleId"), req.Status)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, updated)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpViewDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	page := utils.ParsePage(r)
	filter := schedule.Filter{
		TrainID: r.URL.Query().Get("train_id"),
		RouteID: r.URL.Query().Get("route_id"),
		Status:  r.URL.Query().Get("status"),
	}
	schedules, total, err := h.Service.List(r.Context(), filter, page.Size, page.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, utils.NewPaginated(schedules, page, total))
}
