package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleAdmin     = "ADMIN"
	RoleOperator  = "OPERATOR"
	RolePassenger = "PASSENGER"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           string    `bun:"id,pk" json:"id"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	FullName     string    `bun:"full_name,notnull" json:"full_name"`
	Role         string    `bun:"role,notnull" json:"role"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
