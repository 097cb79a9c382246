package voucher

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

type DBLayer interface {
	CreateVoucher(ctx context.Context, voucher *models.Voucher) error
	GetVoucherByID(ctx context.Context, id string) (*models.Voucher, error)
	GetVoucherByCode(ctx context.Context, code string) (*models.Voucher, error)
	UpdateVoucher(ctx context.Context, voucher *models.Voucher) error
	DeleteVoucher(ctx context.Context, id string) error
	ListVouchers(ctx context.Context, limit, offset int) ([]models.Voucher, int, error)
}

type Service struct {
	DB DBLayer
}

func NewService(db DBLayer) *Service {
	return &Service{DB: db}
}

type CreateVoucherRequest struct {
	Code           string    `json:"code"`
	DiscountAmount float64   `json:"discount_amount"`
	ValidFrom      time.Time `json:"valid_from"`
	ValidUntil     time.Time `json:"valid_until"`
}

func (r CreateVoucherRequest) validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return errs.Validation("voucher code is required")
	}
	if r.DiscountAmount <= 0 {
		return errs.Validation("discount_amount must be positive")
	}
	if r.ValidFrom.IsZero() || r.ValidUntil.IsZero() {
		return errs.Validation("valid_from and valid_until are required")
	}
	if !r.ValidUntil.After(r.ValidFrom) {
		return errs.Validation("valid_until must be after valid_from")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, req CreateVoucherRequest) (*models.Voucher, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	existing, err := s.DB.GetVoucherByCode(ctx, code)
	if err != nil && errs.KindOf(err) != errs.KindNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("voucher code %s already exists", code)
	}

	voucher := &models.Voucher{
		ID:             uuid.NewString(),
		Code:           code,
		DiscountAmount: req.DiscountAmount,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		IsActive:       true,
	}
	if err := s.DB.CreateVoucher(ctx, voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Voucher, error) {
	return s.DB.GetVoucherByID(ctx, id)
}

type UpdateVoucherRequest struct {
	DiscountAmount *float64   `json:"discount_amount,omitempty"`
	ValidFrom      *time.Time `json:"valid_from,omitempty"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
}

func (s *Service) Update(ctx context.Context, id string, req UpdateVoucherRequest) (*models.Voucher, error) {
	voucher, err := s.DB.GetVoucherByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DiscountAmount != nil {
		if *req.DiscountAmount <= 0 {
			return nil, errs.Validation("discount_amount must be positive")
		}
		voucher.DiscountAmount = *req.DiscountAmount
	}
	if req.ValidFrom != nil {
		voucher.ValidFrom = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		voucher.ValidUntil = *req.ValidUntil
	}
	if !voucher.ValidUntil.After(voucher.ValidFrom) {
		return nil, errs.Validation("valid_until must be after valid_from")
	}
	if req.IsActive != nil {
		voucher.IsActive = *req.IsActive
	}

	if err := s.DB.UpdateVoucher(ctx, voucher); err != nil {
		return nil, err
	}
	return voucher, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.DB.GetVoucherByID(ctx, id); err != nil {
		return err
	}
	return s.DB.DeleteVoucher(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.Voucher, int, error) {
	return s.DB.ListVouchers(ctx, limit, offset)
}
