package policies

import (
	"context"

	"github.com/shashiranjanraj/shopdesk/app/models"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID  uint
	Name    string
	Role    models.Role
	ShopID  *uint
	TokenID string
}

// PrincipalOf builds a Principal from a loaded user.
func PrincipalOf(u *models.User, tokenID string) Principal {
	return Principal{
		UserID:  u.ID,
		Name:    u.Name,
		Role:    u.Role,
		ShopID:  u.ShopID,
		TokenID: tokenID,
	}
}

func (p Principal) IsOwner() bool { return p.Role == models.RoleOwner }

// Shop returns the caller's shop id, or 0 when they have none.
func (p Principal) Shop() uint {
	if p.ShopID == nil {
		return 0
	}
	return *p.ShopID
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
