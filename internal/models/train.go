package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Coach classes participate in fare lookup, see RoutePrice.
const (
	CoachTypeFirstAC  = "1A"
	CoachTypeSecondAC = "2A"
	CoachTypeThirdAC  = "3A"
	CoachTypeSleeper  = "SL"
	CoachTypeGeneral  = "GN"
)

func ValidCoachType(t string) bool {
	switch t {
	case CoachTypeFirstAC, CoachTypeSecondAC, CoachTypeThirdAC, CoachTypeSleeper, CoachTypeGeneral:
		return true
	}
	return false
}

type Train struct {
	bun.BaseModel `bun:"table:trains"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull,unique" json:"name"`
	Number    string    `bun:"number,notnull" json:"number"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type Coach struct {
	bun.BaseModel `bun:"table:coaches"`

	ID          string `bun:"id,pk" json:"id"`
	TrainID     string `bun:"train_id,notnull" json:"train_id"`
	CoachNumber string `bun:"coach_number,notnull" json:"coach_number"`
	CoachType   string `bun:"coach_type,notnull" json:"coach_type"`
}

type Seat struct {
	bun.BaseModel `bun:"table:seats"`

	ID         string `bun:"id,pk" json:"id"`
	CoachID    string `bun:"coach_id,notnull" json:"coach_id"`
	SeatNumber string `bun:"seat_number,notnull" json:"seat_number"`
}
