package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/route"
	"rail-ticketing/internal/utils"
)

type Handler struct {
	Service *route.Service
}

func NewHandler(service *route.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/routes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{routeId}", h.Get)
		r.Put("/{routeId}", h.Update)
		r.Delete("/{routeId}", h.Delete)
		r.Get("/{routeId}/fares", h.ListFares)
		r.Put("/{routeId}/fares", h.SetFare)
		r.Delete("/{routeId}/fares/{coachType}", h.DeleteFare)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	var req route.CreateRouteRequest
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

	found, err := h.Service.Get(r.Context(), chi.URLParam(r, "routeId"))
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

	var req route.UpdateRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errs.Validation("invalid request body: %v", err))
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "routeId"), req)
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

	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "routeId")); err != nil {
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
	routes, total, err := h.Service.Search(r.Context(), r.URL.Query().Get("q"), page.Size, page.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, utils.NewPaginated(routes, page, total))
}

func (h *Handler) SetFare(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	var req route.SetFareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errs.Validation("invalid request body: %v", err))
		return
	}

	fare, err := h.Service.SetFare(r.Context(), chi.URLParam(r, "routeId"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, fare)
}

func (h *Handler) ListFares(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpViewDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	fares, err := h.Service.ListFares(r.Context(), chi.URLParam(r, "routeId"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, fares)
}

func (h *Handler) DeleteFare(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.Service.DeleteFare(r.Context(), chi.URLParam(r, "routeId"), chi.URLParam(r, "coachType")); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
