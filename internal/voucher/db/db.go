package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateVoucher(ctx context.Context, v *models.Voucher) error {
	if _, err := d.Bun.NewInsert().Model(v).Exec(ctx); err != nil {
		return errs.Internal(err, "failed to create voucher")
	}
	return nil
}

func (d *DB) GetVoucherByID(ctx context.Context, id string) (*models.Voucher, error) {
	var v models.Voucher
	err := d.Bun.NewSelect().
		Model(&v).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("voucher %s not found", id)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load voucher %s", id)
	}
	return &v, nil
}

func (d *DB) GetVoucherByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var v models.Voucher
	err := d.Bun.NewSelect().
		Model(&v).
		Where("code = ?", code).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("voucher code %s not found", code)
	}
	if err != nil {
		return nil, errs.Internal(err, "failed to load voucher by code")
	}
	return &v, nil
}

func (d *DB) UpdateVoucher(ctx context.Context, v *models.Voucher) error {
	_, err := d.Bun.NewUpdate().
		Model(v).
		Column("discount_amount", "valid_from", "valid_until", "is_active").
		Where("id = ?", v.ID).
		Exec(ctx)
	if err != nil {
		return errs.Internal(err, "failed to update voucher %s", v.ID)
	}
	return nil
}

func (d *DB) DeleteVoucher(ctx context.Context, id string) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Voucher)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errs.Internal(err, "failed to delete voucher %s", id)
	}
	return nil
}

func (d *DB) ListVouchers(ctx context.Context, limit, offset int) ([]models.Voucher, int, error) {
	var vouchers []models.Voucher
	total, err := d.Bun.NewSelect().
		Model(&vouchers).
		Order("code ASC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errs.Internal(err, "failed to list vouchers")
	}
	return vouchers, total, nil
}
