package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
)

func uptr(v uint) *uint { return &v }

var (
	owner1  = Principal{UserID: 1, Role: models.RoleOwner, ShopID: uptr(10)}
	seller1 = Principal{UserID: 2, Role: models.RoleSalesPerson, ShopID: uptr(10)}
	owner2  = Principal{UserID: 3, Role: models.RoleOwner, ShopID: uptr(20)}
	drifter = Principal{UserID: 4, Role: models.RoleOwner}
	manager = Principal{UserID: 5, Role: models.RoleManager, ShopID: uptr(10)}
)

func TestEveryActionHasARule(t *testing.T) {
	for _, a := range []Action{
		ShopList, ShopCreate, ShopView, ShopStats, ShopUpdate, ShopDelete,
		ProductList, ProductView, ProductCreate, ProductUpdate, ProductDelete,
		SaleList, SaleView, SaleCreate, SaleUpdate, SaleDelete,
		TeamList, TeamCreate, TeamView, TeamUpdate, TeamDelete, TeamToggle,
		DashboardView, ReportView,
	} {
		_, ok := Table[a]
		assert.True(t, ok, "missing rule for %s", a)
	}
}

func TestAuthorize(t *testing.T) {
	g := NewGate()
	shop10 := &models.Shop{ID: 10, OwnerID: 1}
	memberOf10 := &models.User{ID: 2, Role: models.RoleSalesPerson, ShopID: uptr(10)}
	ownerOf10 := &models.User{ID: 1, Role: models.RoleOwner, ShopID: uptr(10)}

	cases := []struct {
		name    string
		p       Principal
		action  Action
		res     Resource
		kind    apperr.Kind
		message string
	}{
		{"owner creates shop", drifter, ShopCreate, Resource{}, -1, ""},
		{"seller cannot create shop", seller1, ShopCreate, Resource{}, apperr.AccessDenied, "Only owners can create shops"},
		{"member views shop", seller1, ShopView, ForShop(shop10), -1, ""},
		{"stranger cannot view shop", owner2, ShopStats, ForShop(shop10), apperr.AccessDenied, "Access denied"},
		{"owner without shop_id still views owned shop", Principal{UserID: 1, Role: models.RoleOwner}, ShopView, ForShop(shop10), -1, ""},
		{"member cannot update shop", seller1, ShopUpdate, ForShop(shop10), apperr.AccessDenied, "Only shop owners can update shop details"},
		{"owner deletes shop", owner1, ShopDelete, ForShop(shop10), -1, ""},

		{"no shop lists products", drifter, ProductList, Resource{}, apperr.NoShop, "User is not associated with any shop"},
		{"seller views own product", seller1, ProductView, InShop(10), -1, ""},
		{"cross-tenant product view", owner2, ProductView, InShop(10), apperr.AccessDenied, "Access denied"},
		{"seller cannot create product", seller1, ProductCreate, Resource{}, apperr.AccessDenied, "Only shop owners can manage products"},
		{"legacy role has no owner rights", manager, ProductCreate, Resource{}, apperr.AccessDenied, "Only shop owners can manage products"},
		{"owner updates own product", owner1, ProductUpdate, InShop(10), -1, ""},
		{"owner cannot touch other tenant", owner2, ProductDelete, InShop(10), apperr.AccessDenied, "Access denied"},

		{"seller posts sale", seller1, SaleCreate, Resource{}, -1, ""},
		{"no shop cannot post", drifter, SaleCreate, Resource{}, apperr.NoShop, ""},
		{"seller cannot modify sale", seller1, SaleUpdate, InShop(10), apperr.AccessDenied, "Only shop owners can modify sales"},

		{"seller cannot add member", seller1, TeamCreate, Resource{}, apperr.AccessDenied, "Only shop owners can add team members"},
		{"owner without shop cannot add member", drifter, TeamCreate, Resource{}, apperr.NoShop, "Owner must have a shop first"},
		{"owner updates seller", owner1, TeamUpdate, ForMember(memberOf10), -1, ""},
		{"owner cannot update owner", owner1, TeamUpdate, ForMember(ownerOf10), apperr.AccessDenied, "Cannot update another shop owner"},
		{"owner cannot delete self", owner1, TeamDelete, ForMember(ownerOf10), apperr.AccessDenied, "Cannot delete shop owner"},
		{"owner cannot toggle foreign member", owner2, TeamToggle, ForMember(memberOf10), apperr.AccessDenied, "Access denied"},
		{"seller cannot toggle", seller1, TeamToggle, ForMember(memberOf10), apperr.AccessDenied, "Only shop owners can change team member status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := g.Authorize(tc.p, tc.action, tc.res)
			if tc.kind == -1 {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Equal(t, tc.kind, apperr.KindOf(err))
				if tc.message != "" {
					assert.Equal(t, tc.message, apperr.As(err).Public())
				}
			}
		})
	}
}

func TestUnknownAction(t *testing.T) {
	err := NewGate().Authorize(owner1, Action("nope"), Resource{})
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))
}
