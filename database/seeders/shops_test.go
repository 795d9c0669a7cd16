package seeders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopdesk/app/models"
	"github.com/shashiranjanraj/shopdesk/database/seeders"
	"github.com/shashiranjanraj/shopdesk/pkg/auth"
	"github.com/shashiranjanraj/shopdesk/pkg/database"
)

func TestRunAllIsRepeatable(t *testing.T) {
	db := database.OpenTest(t, models.All()...)

	require.NoError(t, seeders.RunAll(db))
	require.NoError(t, seeders.RunAll(db))

	var shops, users, products int64
	require.NoError(t, db.Model(&models.Shop{}).Count(&shops).Error)
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.Equal(t, int64(2), shops)
	assert.Equal(t, int64(4), users)
	assert.Equal(t, int64(5), products)

	var owner models.User
	require.NoError(t, db.Where("email = ?", "john@example.com").First(&owner).Error)
	require.NotNil(t, owner.ShopID)
	require.NotNil(t, owner.Password)
	assert.True(t, auth.CheckPassword(*owner.Password, seeders.DemoPassword))

	var shop models.Shop
	require.NoError(t, db.First(&shop, *owner.ShopID).Error)
	assert.Equal(t, "tech-store", shop.Slug)
	assert.Equal(t, owner.ID, shop.OwnerID)
}

func TestRunPullsInNeededSeeders(t *testing.T) {
	db := database.OpenTest(t, models.All()...)

	require.NoError(t, seeders.Run(db, "products"))

	var shops, products int64
	require.NoError(t, db.Model(&models.Shop{}).Count(&shops).Error)
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.Equal(t, int64(2), shops)
	assert.Equal(t, int64(5), products)
}

func TestRunUnknownSeeder(t *testing.T) {
	db := database.OpenTest(t, models.All()...)

	err := seeders.Run(db, "customers")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"customers" is not registered`)
	assert.Equal(t, []string{"shops", "products"}, seeders.Names())
}
