package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rail-ticketing/internal/auth"
	"rail-ticketing/internal/errs"
	"rail-ticketing/internal/models"
)

func TestCan(t *testing.T) {
	// Admins can do everything.
	for _, op := range []auth.Operation{
		auth.OpManageDirectory, auth.OpViewDirectory, auth.OpManageVouchers,
		auth.OpBookTicket, auth.OpViewTicket, auth.OpCancelTicket,
		auth.OpCheckinTicket, auth.OpRecordPayment,
	} {
		assert.True(t, auth.Can(models.RoleAdmin, op), "admin should be allowed %s", op)
	}

	// Operators run the gate but do not manage the directory or book.
	assert.True(t, auth.Can(models.RoleOperator, auth.OpCheckinTicket))
	assert.True(t, auth.Can(models.RoleOperator, auth.OpRecordPayment))
	assert.False(t, auth.Can(models.RoleOperator, auth.OpManageDirectory))
	assert.False(t, auth.Can(models.RoleOperator, auth.OpBookTicket))
	assert.False(t, auth.Can(models.RoleOperator, auth.OpManageVouchers))

	// Passengers book and cancel but never manage or check in.
	assert.True(t, auth.Can(models.RolePassenger, auth.OpBookTicket))
	assert.True(t, auth.Can(models.RolePassenger, auth.OpCancelTicket))
	assert.False(t, auth.Can(models.RolePassenger, auth.OpCheckinTicket))
	assert.False(t, auth.Can(models.RolePassenger, auth.OpManageDirectory))

	assert.False(t, auth.Can("UNKNOWN_ROLE", auth.OpViewDirectory))
}

func TestRequire(t *testing.T) {
	// No principal in context.
	_, err := auth.Require(context.Background(), auth.OpViewDirectory)
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))

	ctx := auth.ContextWithPrincipal(context.Background(), &auth.Principal{
		UserID: "user1",
		Role:   models.RolePassenger,
	})

	p, err := auth.Require(ctx, auth.OpBookTicket)
	require.NoError(t, err)
	assert.Equal(t, "user1", p.UserID)

	_, err = auth.Require(ctx, auth.OpManageDirectory)
	assert.Equal(t, errs.KindForbidden, errs.KindOf(err))
}
