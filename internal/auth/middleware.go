package auth

import (
	"context"
	"net/http"

	"rail-ticketing/internal/models"
	"rail-ticketing/internal/utils"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated caller attached to every protected request.
// The booking core trusts it and does not re-verify credentials.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

func (p *Principal) IsStaff() bool {
	return p.Role == models.RoleAdmin || p.Role == models.RoleOperator
}

// Middleware verifies the bearer token and injects the principal into the
// request context.
func Middleware(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				utils.WriteError(w, err)
				return
			}

			claims, err := issuer.Parse(rawToken)
			if err != nil {
				utils.WriteError(w, err)
				return
			}

			principal := &Principal{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// ContextWithPrincipal attaches an already-verified principal to ctx.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the principal stored in ctx, or nil.
func PrincipalFrom(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey).(*Principal); ok {
		return p
	}
	return nil
}
