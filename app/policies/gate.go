// Package policies decides who may do what to which tenant's records.
//
// Every guarded operation names an Action; the table below maps each
// Action to an ordered list of checks. The first failing check denies.
package policies

import (
	"fmt"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
)

type Action string

const (
	ShopList   Action = "shop.list"
	ShopCreate Action = "shop.create"
	ShopView   Action = "shop.view"
	ShopStats  Action = "shop.stats"
	ShopUpdate Action = "shop.update"
	ShopDelete Action = "shop.delete"

	ProductList   Action = "product.list"
	ProductView   Action = "product.view"
	ProductCreate Action = "product.create"
	ProductUpdate Action = "product.update"
	ProductDelete Action = "product.delete"

	SaleList   Action = "sale.list"
	SaleView   Action = "sale.view"
	SaleCreate Action = "sale.create"
	SaleUpdate Action = "sale.update"
	SaleDelete Action = "sale.delete"

	TeamList   Action = "team.list"
	TeamCreate Action = "team.create"
	TeamView   Action = "team.view"
	TeamUpdate Action = "team.update"
	TeamDelete Action = "team.delete"
	TeamToggle Action = "team.toggle"

	DashboardView Action = "dashboard.view"
	ReportView    Action = "report.view"
)

type Check int

const (
	// Owner: caller role is owner.
	Owner Check = iota
	// Shop: caller belongs to a shop. Fails with NoShop.
	Shop
	// Tenant: resource shop equals caller shop.
	Tenant
	// ShopMember: caller belongs to or owns the shop resource.
	ShopMember
	// ShopOwner: caller owns the shop resource.
	ShopOwner
	// NotOwnerTarget: the team target is neither an owner nor the caller.
	NotOwnerTarget
)

// Step is one check with the message used when it denies. An empty
// message falls back to the kind's default.
type Step struct {
	Check   Check
	Message string
}

type Rule []Step

const (
	msgManageProducts = "Only shop owners can manage products"
	msgModifySales    = "Only shop owners can modify sales"
)

// Table is the complete authorization policy.
var Table = map[Action]Rule{
	ShopList:   {},
	ShopCreate: {{Owner, "Only owners can create shops"}},
	ShopView:   {{ShopMember, ""}},
	ShopStats:  {{ShopMember, ""}},
	ShopUpdate: {{ShopOwner, "Only shop owners can update shop details"}},
	ShopDelete: {{ShopOwner, "Only shop owners can delete shops"}},

	ProductList:   {{Shop, ""}},
	ProductView:   {{Shop, ""}, {Tenant, ""}},
	ProductCreate: {{Shop, ""}, {Owner, msgManageProducts}},
	ProductUpdate: {{Shop, ""}, {Owner, msgManageProducts}, {Tenant, ""}},
	ProductDelete: {{Shop, ""}, {Owner, msgManageProducts}, {Tenant, ""}},

	SaleList:   {{Shop, ""}},
	SaleView:   {{Shop, ""}, {Tenant, ""}},
	SaleCreate: {{Shop, ""}},
	SaleUpdate: {{Shop, ""}, {Owner, msgModifySales}, {Tenant, ""}},
	SaleDelete: {{Shop, ""}, {Owner, msgModifySales}, {Tenant, ""}},

	TeamList:   {{Shop, ""}},
	TeamCreate: {{Owner, "Only shop owners can add team members"}, {Shop, "Owner must have a shop first"}},
	TeamView:   {{Shop, ""}, {Tenant, ""}},
	TeamUpdate: {{Owner, "Only shop owners can update team members"}, {Tenant, ""}, {NotOwnerTarget, "Cannot update another shop owner"}},
	TeamDelete: {{Owner, "Only shop owners can remove team members"}, {Tenant, ""}, {NotOwnerTarget, "Cannot delete shop owner"}},
	TeamToggle: {{Owner, "Only shop owners can change team member status"}, {Tenant, ""}, {NotOwnerTarget, "Cannot change shop owner status"}},

	DashboardView: {},
	ReportView:    {},
}

// Resource describes the record an action touches. Zero fields are
// ignored by checks that do not need them.
type Resource struct {
	// ShopID is the tenant the record lives in, or the shop itself.
	ShopID *uint
	// OwnerID is the shop owner, for shop records.
	OwnerID uint
	// User is the team member being acted on.
	User *models.User
}

// ForShop describes a shop record.
func ForShop(s *models.Shop) Resource {
	return Resource{ShopID: &s.ID, OwnerID: s.OwnerID}
}

// InShop describes a record that belongs to shopID.
func InShop(shopID uint) Resource {
	return Resource{ShopID: &shopID}
}

// ForMember describes a team member.
func ForMember(u *models.User) Resource {
	return Resource{ShopID: u.ShopID, User: u}
}

// Gate evaluates Table.
type Gate struct {
	rules map[Action]Rule
}

func NewGate() *Gate {
	return &Gate{rules: Table}
}

// Authorize returns nil when p may perform action on r, or an apperr with
// kind NoShop or AccessDenied.
func (g *Gate) Authorize(p Principal, action Action, r Resource) error {
	rule, ok := g.rules[action]
	if !ok {
		return apperr.Wrap(apperr.Internal, "", fmt.Errorf("policies: no rule for %q", action))
	}
	for _, step := range rule {
		if err := step.eval(p, r); err != nil {
			return err
		}
	}
	return nil
}

func (s Step) eval(p Principal, r Resource) error {
	switch s.Check {
	case Owner:
		if !p.IsOwner() {
			return denied(s.Message)
		}
	case Shop:
		if p.ShopID == nil {
			return apperr.New(apperr.NoShop, s.Message)
		}
	case Tenant:
		if p.ShopID == nil || r.ShopID == nil || *p.ShopID != *r.ShopID {
			return denied(s.Message)
		}
	case ShopMember:
		member := p.ShopID != nil && r.ShopID != nil && *p.ShopID == *r.ShopID
		if !member && r.OwnerID != p.UserID {
			return denied(s.Message)
		}
	case ShopOwner:
		if r.OwnerID != p.UserID {
			return denied(s.Message)
		}
	case NotOwnerTarget:
		if r.User == nil || r.User.IsOwner() || r.User.ID == p.UserID {
			return denied(s.Message)
		}
	default:
		return apperr.Wrap(apperr.Internal, "", fmt.Errorf("policies: unknown check %d", s.Check))
	}
	return nil
}

func denied(msg string) error {
	if msg == "" {
		return apperr.ErrAccessDenied
	}
	return apperr.Denied(msg)
}
