package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/station"
	"rail-ticketing/internal/utils"
)

type Handler struct {
	Service *station.Service
}

func NewHandler(service *station.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/stations", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{stationId}", h.Get)
		r.Put("/{stationId}", h.Update)
		r.Delete("/{stationId}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	var req station.CreateStationRequest
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

	found, err := h.Service.Get(r.Context(), chi.URLParam(r, "stationId"))
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

	var req station.UpdateStationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errs.Validation("invalid request body: %v", err))
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "stationId"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "stationId")); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpViewDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	page := utils.ParsePage(r)
	stations, total, err := h.Service.Search(r.Context(), r.URL.Query().Get("q"), page.Size, page.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, utils.NewPaginated(stations, page, total))
}
