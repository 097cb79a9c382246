package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Station struct {
	bun.BaseModel `bun:"table:stations"`

	ID        string    `bun:"id,pk" json:"id"`
	Code      string    `bun:"code,notnull,unique" json:"code"`
	Name      string    `bun:"name,notnull" json:"name"`
	City      string    `bun:"city,notnull" json:"city"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
