package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// Payment is created alongside its ticket, one per ticket. FinalAmount is
// OriginalAmount minus DiscountAmount floored at zero.
type Payment struct {
	bun.BaseModel `bun:"table:payments"`

	ID             string    `bun:"id,pk" json:"id"`
	TicketID       string    `bun:"ticket_id,notnull,unique" json:"ticket_id"`
	OriginalAmount float64   `bun:"original_amount,notnull" json:"original_amount"`
	DiscountAmount float64   `bun:"discount_amount,notnull" json:"discount_amount"`
	FinalAmount    float64   `bun:"final_amount,notnull" json:"final_amount"`
	PaymentMethod  string    `bun:"payment_method,nullzero" json:"payment_method,omitempty"`
	ProviderRef    string    `bun:"provider_ref,nullzero" json:"provider_ref,omitempty"`
	PaymentStatus  string    `bun:"payment_status,notnull" json:"payment_status"`
	PaidAt         time.Time `bun:"paid_at,nullzero" json:"paid_at,omitempty"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
