package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/utils"
	"rail-ticketing/internal/voucher"
)

type Handler struct {
	Service *voucher.Service
}

func NewHandler(service *voucher.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/vouchers", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{voucherId}", h.Get)
		r.Put("/{voucherId}", h.Update)
		r.Delete("/{voucherId}", h.Delete)
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageVouchers); err != nil {
		utils.WriteError(w, err)
		return
	}

	var req voucher.CreateVoucherRequest
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
	if _, err := auth.Require(r.Context(), auth.OpManageVouchers); err != nil {
		utils.WriteError(w, err)
		return
	}

	found, err := h.Service.Get(r.Context(), chi.URLParam(r, "voucherId"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, found)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageVouchers); err != nil {
		utils.WriteError(w, err)
		return
	}

	var req voucher.UpdateVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errs.Validation("invalid request body: %v", err))
		return
	}

	updated, err := h.Service.Update(r.Context(), chi.URLParam(r, "voucherId"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageVouchers); err != nil {
		utils.WriteError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "voucherId")); err != nil {
		utils.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.Require(r.Context(), auth.OpManageVouchers); err != nil {
		utils.WriteError(w, err)
		return
	}

	page := utils.ParsePage(r)
	vouchers, total, err := h.Service.List(r.Context(), page.Size, page.Offset())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteData(w, http.StatusOK, utils.NewPaginated(vouchers, page, total))
}
