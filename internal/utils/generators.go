package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateBookingReference returns an opaque unique reference issued at
// ticket creation, e.g. "BR-9F3A2C4D1B6E".
func GenerateBookingReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BR-" + strings.ToUpper(raw[:12])
}
