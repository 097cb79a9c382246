package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Route struct {
	bun.BaseModel `bun:"table:routes"`

	ID                   string    `bun:"id,pk" json:"id"`
	Name                 string    `bun:"name,notnull" json:"name"`
	OriginStationID      string    `bun:"origin_station_id,notnull" json:"origin_station_id"`
	DestinationStationID string    `bun:"destination_station_id,notnull" json:"destination_station_id"`
	CreatedAt            time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// RoutePrice is the fare for travelling a route in a given coach class.
// Unique per (route_id, coach_type).
type RoutePrice struct {
	bun.BaseModel `bun:"table:route_prices"`

	ID        string  `bun:"id,pk" json:"id"`
	RouteID   string  `bun:"route_id,notnull" json:"route_id"`
	CoachType string  `bun:"coach_type,notnull" json:"coach_type"`
	Price     float64 `bun:"price,notnull" json:"price"`
}
