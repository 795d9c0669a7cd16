package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
)

func TestIsMatchesOnKind(t *testing.T) {
	err := fmt.Errorf("shop update: %w", apperr.Denied("Only shop owners can update shop details"))

	assert.ErrorIs(t, err, apperr.ErrAccessDenied)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, apperr.AccessDenied, apperr.KindOf(err))
	assert.Equal(t, http.StatusForbidden, apperr.KindOf(err).Status())
}

func TestWrapKeepsExistingKind(t *testing.T) {
	inner := apperr.Field("items.0.product_id", "The selected items.0.product_id is invalid.")
	err := apperr.Wrap(apperr.SalePostingFailed, "", inner)

	assert.Equal(t, apperr.ValidationFailed, apperr.KindOf(err))
}

func TestWrapClassifiesPlainErrors(t *testing.T) {
	cause := errors.New("database is locked")
	err := apperr.Wrap(apperr.SalePostingFailed, "", cause)

	ae := apperr.As(err)
	assert.Equal(t, "Failed to create sale", ae.Public())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, ae.Kind.Status())
}

func TestUnknownErrorIsInternal(t *testing.T) {
	ae := apperr.As(errors.New("boom"))
	assert.Equal(t, apperr.Internal, ae.Kind)
	assert.Equal(t, "Server Error", ae.Public())
	assert.Nil(t, apperr.Wrap(apperr.Internal, "", nil))
}

func TestDistinctStatuses(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.ValidationFailed:     422,
		apperr.Unauthenticated:      401,
		apperr.AccountDeactivated:   403,
		apperr.CrossTenantReference: 403,
		apperr.NoShop:               400,
		apperr.NotFound:             404,
		apperr.SalePostingFailed:    500,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}
