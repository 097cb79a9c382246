package auth

import (
	"context"

	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

// Operation names a permission-checked entry point of the service.
type Operation string

const (
	OpManageDirectory Operation = "directory:manage"
	OpViewDirectory   Operation = "directory:view"
	OpManageVouchers  Operation = "vouchers:manage"
	OpBookTicket      Operation = "tickets:book"
	OpViewTicket      Operation = "tickets:view"
	OpCancelTicket    Operation = "tickets:cancel"
	OpCheckinTicket   Operation = "tickets:checkin"
	OpRecordPayment   Operation = "payments:record"
)

// capabilities maps each role to the operations it may perform. Evaluated
// once per request at the handler entry point.
var capabilities = map[string]map[Operation]bool{
	models.RoleAdmin: {
		OpManageDirectory: true,
		OpViewDirectory:   true,
		OpManageVouchers:  true,
		OpBookTicket:      true,
		OpViewTicket:      true,
		OpCancelTicket:    true,
		OpCheckinTicket:   true,
		OpRecordPayment:   true,
	},
	models.RoleOperator: {
		OpViewDirectory: true,
		OpViewTicket:    true,
		OpCheckinTicket: true,
		OpRecordPayment: true,
	},
	models.RolePassenger: {
		OpViewDirectory: true,
		OpBookTicket:    true,
		OpViewTicket:    true,
		OpCancelTicket:  true,
	},
}

func Can(role string, op Operation) bool {
	ops, ok := capabilities[role]
	if !ok {
		return false
	}
	return ops[op]
}

// Require returns the authenticated principal if it is permitted to perform
// op, Forbidden otherwise.
func Require(ctx context.Context, op Operation) (*Principal, error) {
	p := PrincipalFrom(ctx)
	if p == nil {
		return nil, errs.Unauthorized("authentication required")
	}
	if !Can(p.Role, op) {
		return nil, errs.Forbidden("role %s may not perform %s", p.Role, op)
	}
	return p, nil
}
