package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/train"
	"rail-ticketing/internal/utils"
)

type Handler struct {
	Service *train.Service
}

func NewHandler(service *train.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/trains", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{trainId}", h.Get)
		r.Put("/{trainId}", h.Update)
		r.Delete("/{trainId}", h.Delete)
		r.Get("/{trainId}/coaches", h.ListCoaches)
		r.Post("/{trainId}/coaches", h.AddCoach)
	})
	r.Route("/coaches/{coachId}", func(r chi.Router) {
		r.Get("/seats", h.ListSeats)
		r.Delete("/", h.DeleteCoach)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	var req train.CreateTrainRequest
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

	found, err := h.Service.Get(r.Context(), chi.URLParam(r, "trainId"))
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

	var req train.UpdateTrainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errs.Validation("invalid request body: %v", err))
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "trainId"), req)
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

	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "trainId")); err != nil {
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
	trains, total, err := h.Service.Search(r.Context(), r.URL.Query().Get("q"), page.Size, page.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, utils.NewPaginated(trains, page, total))
}

func (h *Handler) AddCoach(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	var req train.AddCoachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errs.Validation("invalid request body: %v", err))
		return
	}

	coach, err := h.Service.AddCoach(r.Context(), chi.URLParam(r, "trainId"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusCreated, coach)
}

func (h *Handler) ListCoaches(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpViewDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	coaches, err := h.Service.ListCoaches(r.Context(), chi.URLParam(r, "trainId"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, coaches)
}

func (h *Handler) ListSeats(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpViewDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	seats, err := h.Service.ListSeats(r.Context(), chi.URLParam(r, "coachId"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, seats)
}

func (h *Handler) DeleteCoach(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageDirectory); err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.Service.DeleteCoach(r.Context(), chi.URLParam(r, "coachId")); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
