package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Voucher struct {
	bun.BaseModel `bun:"table:vouchers"`

	ID             string    `bun:"id,pk" json:"id"`
	Code           string    `bun:"code,notnull,unique" json:"code"`
	DiscountAmount float64   `bun:"discount_amount,notnull" json:"discount_amount"`
	ValidFrom      time.Time `bun:"valid_from,notnull" json:"valid_from"`
	ValidUntil     time.Time `bun:"valid_until,notnull" json:"valid_until"`
	IsActive       bool      `bun:"is_active,notnull" json:"is_active"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// Usable reports whether the voucher may be applied at the given time.
func (v *Voucher) Usable(now time.Time) bool {
	if !v.IsActive {
		return false
	}
	return !now.Before(v.ValidFrom) && !now.After(v.ValidUntil)
}
